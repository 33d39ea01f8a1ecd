package models

import "time"

// ServiceStatus represents the current status of a service request
type ServiceStatus string

const (
	StatusRequested ServiceStatus = "requested"
	StatusAssigned  ServiceStatus = "assigned"
	StatusAccepted  ServiceStatus = "accepted"
	StatusCompleted ServiceStatus = "completed"
	StatusClosed    ServiceStatus = "closed"
)

// Terminal reports whether no further status transition is possible.
func (s ServiceStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusClosed
}

// RequestAction is a professional's action on an assigned request
type RequestAction string

const (
	ActionAccept   RequestAction = "accept"
	ActionReject   RequestAction = "reject"
	ActionComplete RequestAction = "complete"
)

// ActionTransitions maps each professional action to the status the
// request moves into when the server confirms it. reject re-opens the
// request for reassignment.
var ActionTransitions = map[RequestAction]ServiceStatus{
	ActionAccept:   StatusAccepted,
	ActionReject:   StatusRequested,
	ActionComplete: StatusCompleted,
}

// ServiceRequest represents a customer's request for a service
type ServiceRequest struct {
	ID               uint          `json:"id"`
	ServiceID        uint          `json:"service_id"`
	CustomerID       uint          `json:"customer_id"`
	ProfessionalID   *uint         `json:"professional_id"`
	ServiceStatus    ServiceStatus `json:"service_status"`
	DateOfRequest    time.Time     `json:"date_of_request"`
	DateOfCompletion *time.Time    `json:"date_of_completion"`
	Remarks          string        `json:"remarks"`
	Review           *Review       `json:"review,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Review is attached to a request once, by the owning customer, after
// completion
type Review struct {
	Rating     int       `json:"rating"`
	Comments   string    `json:"comments"`
	DatePosted time.Time `json:"date_posted"`
}

// ServiceRequestCreate represents the customer payload for a new request
type ServiceRequestCreate struct {
	ServiceID uint   `json:"service_id"`
	Remarks   string `json:"remarks"`
}

// ServiceRequestUpdate represents an admin edit of a request; nil fields
// are left unchanged
type ServiceRequestUpdate struct {
	ServiceID      *uint          `json:"service_id,omitempty"`
	ProfessionalID *uint          `json:"professional_id,omitempty"`
	ServiceStatus  *ServiceStatus `json:"service_status,omitempty"`
	Remarks        *string        `json:"remarks,omitempty"`
}

// RequestSearchParams drives the admin search endpoint
type RequestSearchParams struct {
	Status         string
	ServiceID      uint
	CustomerID     uint
	ProfessionalID uint
	StartDate      string
	EndDate        string
	Query          string
}
