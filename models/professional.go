package models

import "strings"

// Professional verification status values (admin-controlled)
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Professional represents a service professional profile
type Professional struct {
	ID                 uint     `json:"id"`
	UserID             uint     `json:"user_id"`
	Name               string   `json:"name"`
	ServiceID          uint     `json:"service_id"`
	Description        string   `json:"description"`
	Experience         int      `json:"experience"`
	AvgRating          *float64 `json:"avg_rating"`
	VerificationStatus string   `json:"verification_status"`
	IsActive           bool     `json:"is_active"`
}

// ProfessionalFilters drives the derived professionals view. The zero
// value matches everything.
type ProfessionalFilters struct {
	Query         string
	ServiceID     uint
	MinRating     float64
	MinExperience int
	// IsAdmin selects the admin-scoped listing endpoint regardless of
	// the current navigation path.
	IsAdmin bool
}

// Matches reports whether the professional passes the filter predicate.
func (f ProfessionalFilters) Matches(p Professional) bool {
	if f.Query != "" {
		if !containsFold(p.Name, f.Query) && !containsFold(p.Description, f.Query) {
			return false
		}
	}
	if f.ServiceID != 0 && p.ServiceID != f.ServiceID {
		return false
	}
	if f.MinRating > 0 {
		if p.AvgRating == nil || *p.AvgRating < f.MinRating {
			return false
		}
	}
	if f.MinExperience > 0 && p.Experience < f.MinExperience {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
