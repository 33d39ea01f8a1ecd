package testserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"household-services-client/models"
)

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) listServices(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.servicesSorted())
}

func (s *Server) serviceDetails(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	service, ok := s.services[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service not found"})
		return
	}
	c.JSON(http.StatusOK, *service)
}

func (s *Server) searchServices(c *gin.Context) {
	query := strings.ToLower(c.Query("query"))
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]models.Service, 0)
	for _, service := range s.servicesSorted() {
		if query == "" ||
			strings.Contains(strings.ToLower(service.Name), query) ||
			strings.Contains(strings.ToLower(service.Description), query) {
			matches = append(matches, service)
		}
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) listApprovedProfessionals(c *gin.Context) {
	query := strings.ToLower(c.Query("query"))
	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 32)

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]models.Professional, 0)
	for _, p := range s.professionalsSorted() {
		if p.VerificationStatus != models.VerificationApproved || !p.IsActive {
			continue
		}
		if serviceID != 0 && p.ServiceID != uint(serviceID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		matches = append(matches, p)
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) customerRequests(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer := s.customerByUser(currentUserID(c))
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer profile not found"})
		return
	}
	out := make([]models.ServiceRequest, 0)
	for _, r := range s.requestsSorted() {
		if r.CustomerID == customer.ID {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createRequest(c *gin.Context) {
	var req models.ServiceRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil || req.ServiceID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Service is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customer := s.customerByUser(currentUserID(c))
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer profile not found"})
		return
	}
	if _, ok := s.services[req.ServiceID]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service"})
		return
	}

	id := s.allocID()
	request := &models.ServiceRequest{
		ID:            id,
		ServiceID:     req.ServiceID,
		CustomerID:    customer.ID,
		ServiceStatus: models.StatusRequested,
		DateOfRequest: time.Now(),
		Remarks:       req.Remarks,
		CreatedAt:     time.Now(),
	}
	s.requests[id] = request
	c.JSON(http.StatusCreated, *request)
}

func (s *Server) ownedRequest(c *gin.Context) (*models.ServiceRequest, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	customer := s.customerByUser(currentUserID(c))
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer profile not found"})
		return nil, false
	}
	request, ok := s.requests[id]
	if !ok || request.CustomerID != customer.ID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service request not found"})
		return nil, false
	}
	return request, true
}

func (s *Server) requestDetails(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.ownedRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, *request)
}

func (s *Server) updateRequest(c *gin.Context) {
	var body struct {
		Action  string `json:"action"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.ownedRequest(c)
	if !ok {
		return
	}

	switch body.Action {
	case "close":
		if request.ServiceStatus != models.StatusCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Can only close a completed request"})
			return
		}
		request.ServiceStatus = models.StatusClosed
		c.JSON(http.StatusOK, gin.H{"message": "Service request closed successfully"})
	case "":
		if request.ServiceStatus != models.StatusRequested {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Can only edit a requested service request"})
			return
		}
		request.Remarks = body.Remarks
		c.JSON(http.StatusOK, gin.H{"message": "Service request updated successfully"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action"})
	}
}

func (s *Server) cancelRequest(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.ownedRequest(c)
	if !ok {
		return
	}
	if request.ServiceStatus.Terminal() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot cancel a completed or closed request"})
		return
	}
	delete(s.requests, request.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Service request cancelled successfully"})
}

func (s *Server) addReview(c *gin.Context) {
	var body struct {
		Rating   int    `json:"rating"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.ownedRequest(c)
	if !ok {
		return
	}

	if request.ServiceStatus != models.StatusCompleted && request.ServiceStatus != models.StatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Can only review completed or closed requests"})
		return
	}
	if request.Review != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A review already exists for this request"})
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5"})
		return
	}

	request.Review = &models.Review{
		Rating:     body.Rating,
		Comments:   body.Comments,
		DatePosted: time.Now(),
	}
	if request.ProfessionalID != nil {
		s.recalcRating(*request.ProfessionalID)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully"})
}

// recalcRating recomputes a professional's average rating from the
// reviews on their requests. Caller holds the mutex.
func (s *Server) recalcRating(professionalID uint) {
	professional, ok := s.professionals[professionalID]
	if !ok {
		return
	}
	var sum, count int
	for _, r := range s.requests {
		if r.ProfessionalID != nil && *r.ProfessionalID == professionalID && r.Review != nil {
			sum += r.Review.Rating
			count++
		}
	}
	if count == 0 {
		professional.AvgRating = nil
		return
	}
	avg := float64(sum) / float64(count)
	professional.AvgRating = &avg
}
