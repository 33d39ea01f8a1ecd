package testserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"household-services-client/models"
)

// exportProgressStep is how far a processing job advances each time its
// status is polled.
const exportProgressStep = 25

func (s *Server) newExportJob(jobType, email string, adminID uint) *models.ExportJob {
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    models.ExportProcessing,
		AdminID:   adminID,
		Email:     email,
		CreatedAt: time.Now(),
	}
	s.exports[job.ID] = job
	s.exportOrder = append(s.exportOrder, job.ID)
	return job
}

func (s *Server) submitExport(jobType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		job := s.newExportJob(jobType, c.Query("email"), currentUserID(c))
		s.mu.Unlock()

		c.JSON(http.StatusAccepted, gin.H{
			"message": "Export started",
			"job_id":  job.ID,
		})
	}
}

func (s *Server) listExports(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ExportJob, 0, len(s.exportOrder))
	for _, id := range s.exportOrder {
		if job, ok := s.exports[id]; ok {
			out = append(out, *job)
		}
	}
	c.JSON(http.StatusOK, out)
}

// exportDetails returns the job state, advancing a processing job one
// step so that repeated polls walk it to completion.
func (s *Server) exportDetails(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.exports[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Export job not found"})
		return
	}
	if job.Status == models.ExportProcessing {
		job.Progress += exportProgressStep
		if job.Progress >= 100 {
			job.Progress = 100
			job.Status = models.ExportCompleted
			job.FileName = fmt.Sprintf("%s-%s.csv", job.Type, job.ID[:8])
		}
	}
	c.JSON(http.StatusOK, *job)
}

func (s *Server) downloadExport(c *gin.Context) {
	s.mu.Lock()
	job, ok := s.exports[c.Param("id")]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "Export job not found"})
		return
	}
	if job.Status != models.ExportCompleted {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"message": "Export is not ready for download"})
		return
	}
	fileName := job.FileName
	body := "id,service_id,customer_id,status\n"
	for _, r := range s.requestsSorted() {
		body += fmt.Sprintf("%d,%d,%d,%s\n", r.ID, r.ServiceID, r.CustomerID, r.ServiceStatus)
	}
	s.mu.Unlock()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/csv", []byte(body))
}

func (s *Server) createExportJob(c *gin.Context) {
	var req models.ExportJobCreate
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	s.mu.Lock()
	job := s.newExportJob("service-requests", req.Email, currentUserID(c))
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Export job created",
		"job":     *job,
	})
}

func (s *Server) monthlyReports(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MonthlyReport, len(s.monthly))
	copy(out, s.monthly)
	c.JSON(http.StatusOK, out)
}

func (s *Server) generateReport(c *gin.Context) {
	var req struct {
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		ReportType string `json:"report_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ReportType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "report_type is required"})
		return
	}

	s.mu.Lock()
	job := s.newExportJob(req.ReportType, "", currentUserID(c))
	s.mu.Unlock()

	c.JSON(http.StatusCreated, *job)
}

// CompleteExport forces a job straight to completed, for tests that do
// not want to poll.
func (s *Server) CompleteExport(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.exports[jobID]
	if !ok {
		return false
	}
	job.Status = models.ExportCompleted
	job.Progress = 100
	if job.FileName == "" {
		job.FileName = fmt.Sprintf("%s-%s.csv", job.Type, job.ID[:8])
	}
	return true
}

// FailExport forces a job to failed.
func (s *Server) FailExport(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.exports[jobID]
	if !ok {
		return false
	}
	job.Status = models.ExportFailed
	return true
}
