package testserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"household-services-client/models"
)

func (s *Server) professionalRequests(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	professional := s.professionalByUser(currentUserID(c))
	if professional == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Professional profile not found"})
		return
	}
	out := make([]models.ServiceRequest, 0)
	for _, r := range s.requestsSorted() {
		if r.ProfessionalID != nil && *r.ProfessionalID == professional.ID {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) availableRequests(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	professional := s.professionalByUser(currentUserID(c))
	if professional == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Professional profile not found"})
		return
	}
	out := make([]models.ServiceRequest, 0)
	for _, r := range s.requestsSorted() {
		if r.ServiceStatus == models.StatusRequested && r.ProfessionalID == nil && r.ServiceID == professional.ServiceID {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) requestAction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		Action models.RequestAction `json:"action"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	professional := s.professionalByUser(currentUserID(c))
	if professional == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Professional profile not found"})
		return
	}
	request, ok := s.requests[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service request not found"})
		return
	}
	mine := request.ProfessionalID != nil && *request.ProfessionalID == professional.ID

	switch body.Action {
	case models.ActionAccept:
		if !mine || request.ServiceStatus != models.StatusAssigned {
			c.JSON(http.StatusBadRequest, gin.H{"message": "This request can no longer be accepted"})
			return
		}
		request.ServiceStatus = models.StatusAccepted
		c.JSON(http.StatusOK, gin.H{"message": "Service request accepted successfully"})
	case models.ActionReject:
		if !mine || request.ServiceStatus != models.StatusAssigned {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot reject this request"})
			return
		}
		request.ProfessionalID = nil
		request.ServiceStatus = models.StatusRequested
		c.JSON(http.StatusOK, gin.H{"message": "Service request rejected successfully"})
	case models.ActionComplete:
		if !mine || request.ServiceStatus != models.StatusAccepted {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot complete this request"})
			return
		}
		now := time.Now()
		request.ServiceStatus = models.StatusCompleted
		request.DateOfCompletion = &now
		c.JSON(http.StatusOK, gin.H{"message": "Service request completed successfully"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action"})
	}
}
