package testserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"household-services-client/models"
)

func (s *Server) dashboardSummary(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := models.DashboardSummary{
		TotalCustomers:     len(s.customers),
		TotalProfessionals: len(s.professionals),
		TotalServices:      len(s.services),
		TotalRequests:      len(s.requests),
	}
	for _, p := range s.professionals {
		if p.VerificationStatus == models.VerificationPending {
			summary.PendingApprovals++
		}
	}
	for _, r := range s.requests {
		if r.ServiceStatus == models.StatusCompleted || r.ServiceStatus == models.StatusClosed {
			summary.CompletedRequests++
		}
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) createService(c *gin.Context) {
	var req models.ServiceCreate
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.allocID()
	service := &models.Service{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		Category:     req.Category,
		TimeRequired: req.TimeRequired,
		CreatedAt:    time.Now(),
	}
	s.services[id] = service
	c.JSON(http.StatusCreated, gin.H{"message": "Service created successfully", "service": *service})
}

func (s *Server) updateService(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req models.ServiceCreate
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	service, ok := s.services[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service not found"})
		return
	}
	service.Name = req.Name
	service.Description = req.Description
	service.BasePrice = req.BasePrice
	service.Category = req.Category
	service.TimeRequired = req.TimeRequired
	c.JSON(http.StatusOK, gin.H{"message": "Service updated successfully", "service": *service})
}

func (s *Server) deleteService(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service not found"})
		return
	}
	delete(s.services, id)
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

func (s *Server) listAllProfessionals(c *gin.Context) {
	query := strings.ToLower(c.Query("query"))
	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 32)

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]models.Professional, 0)
	for _, p := range s.professionalsSorted() {
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

func (s *Server) verifyProfessional(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if body.Status != models.VerificationApproved && body.Status != models.VerificationRejected {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	professional, ok := s.professionals[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Professional not found"})
		return
	}
	professional.VerificationStatus = body.Status
	professional.IsActive = body.Status == models.VerificationApproved
	c.JSON(http.StatusOK, gin.H{"message": "Professional status updated successfully"})
}

func (s *Server) listCustomers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.customersSorted())
}

func (s *Server) updateCustomerStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "is_active is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.customers[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	customer.IsActive = *body.IsActive
	if account, ok := s.users[customer.UserID]; ok {
		account.IsActive = *body.IsActive
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer status updated successfully"})
}

func (s *Server) allRequests(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.requestsSorted())
}

func (s *Server) searchRequests(c *gin.Context) {
	status := c.Query("status")
	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 32)
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	professionalID, _ := strconv.ParseUint(c.Query("professional_id"), 10, 32)
	query := strings.ToLower(c.Query("query"))
	startDate, _ := time.Parse("2006-01-02", c.Query("start_date"))
	endDate, _ := time.Parse("2006-01-02", c.Query("end_date"))

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]models.ServiceRequest, 0)
	for _, r := range s.requestsSorted() {
		if status != "" && string(r.ServiceStatus) != status {
			continue
		}
		if serviceID != 0 && r.ServiceID != uint(serviceID) {
			continue
		}
		if customerID != 0 && r.CustomerID != uint(customerID) {
			continue
		}
		if professionalID != 0 && (r.ProfessionalID == nil || *r.ProfessionalID != uint(professionalID)) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Remarks), query) {
			continue
		}
		if !startDate.IsZero() && r.DateOfRequest.Before(startDate) {
			continue
		}
		if !endDate.IsZero() && r.DateOfRequest.After(endDate.Add(24*time.Hour)) {
			continue
		}
		matches = append(matches, r)
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) assignProfessional(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		ProfessionalID uint `json:"professional_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProfessionalID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "professional_id is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service request not found"})
		return
	}
	if request.ServiceStatus != models.StatusRequested {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request is not awaiting assignment"})
		return
	}
	professional, ok := s.professionals[body.ProfessionalID]
	if !ok || professional.VerificationStatus != models.VerificationApproved || professional.ServiceID != request.ServiceID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Professional is not approved for this service"})
		return
	}

	request.ProfessionalID = &professional.ID
	request.ServiceStatus = models.StatusAssigned
	c.JSON(http.StatusOK, gin.H{"message": "Professional assigned successfully"})
}

func (s *Server) updateRequestStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		Status models.ServiceStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	switch body.Status {
	case models.StatusRequested, models.StatusAssigned, models.StatusAccepted, models.StatusCompleted, models.StatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service request not found"})
		return
	}
	request.ServiceStatus = body.Status
	if body.Status == models.StatusCompleted && request.DateOfCompletion == nil {
		now := time.Now()
		request.DateOfCompletion = &now
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request status updated successfully"})
}

func (s *Server) adminUpdateRequest(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req models.ServiceRequestUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service request not found"})
		return
	}
	if req.ServiceID != nil {
		request.ServiceID = *req.ServiceID
	}
	if req.ProfessionalID != nil {
		request.ProfessionalID = req.ProfessionalID
	}
	if req.ServiceStatus != nil {
		request.ServiceStatus = *req.ServiceStatus
	}
	if req.Remarks != nil {
		request.Remarks = *req.Remarks
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service request updated successfully"})
}
