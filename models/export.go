package models

import "time"

// ExportStatus represents the lifecycle of a background export job
type ExportStatus string

const (
	ExportProcessing ExportStatus = "processing"
	ExportCompleted  ExportStatus = "completed"
	ExportFailed     ExportStatus = "failed"
)

// Terminal reports whether the job has finished, successfully or not.
func (s ExportStatus) Terminal() bool {
	return s == ExportCompleted || s == ExportFailed
}

// ExportJob represents a server-side export/report generation job
type ExportJob struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Status    ExportStatus `json:"status"`
	Progress  int          `json:"progress"`
	AdminID   uint         `json:"admin_id"`
	Email     string       `json:"email"`
	FileName  string       `json:"file_name,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ExportJobCreate represents the parameters submitted for a new export job
type ExportJobCreate struct {
	DateRange string `json:"date_range"`
	Status    string `json:"status"`
	ServiceID uint   `json:"service_id"`
	Email     string `json:"email"`
}

// MonthlyReport summarises platform activity for one month
type MonthlyReport struct {
	ID                string    `json:"id"`
	Month             int       `json:"month"`
	Year              int       `json:"year"`
	TotalRequests     int       `json:"total_requests"`
	CompletedRequests int       `json:"completed_requests"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// LastExport records the most recent export submission made from this
// session
type LastExport struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Params    map[string]string `json:"params"`
	JobID     string            `json:"job_id"`
}

// DashboardSummary is the admin dashboard aggregate
type DashboardSummary struct {
	TotalCustomers     int `json:"total_customers"`
	TotalProfessionals int `json:"total_professionals"`
	TotalServices      int `json:"total_services"`
	TotalRequests      int `json:"total_requests"`
	PendingApprovals   int `json:"pending_approvals"`
	CompletedRequests  int `json:"completed_requests"`
}
