package testserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"household-services-client/models"
)

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var account *userAccount
	for _, u := range s.users {
		if u.Username == req.Username {
			account = u
			break
		}
	}
	if account == nil || account.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}
	if !account.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"message": "Your account has been deactivated"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		User:  account.User,
		Token: s.TokenFor(account.User),
	})
}

func (s *Server) logout(c *gin.Context) {
	// Tokens are stateless; logout just acknowledges.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) userInfo(c *gin.Context) {
	s.mu.Lock()
	account, ok := s.users[currentUserID(c)]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, account.User)
}

func (s *Server) registerCustomer(c *gin.Context) {
	var req models.CustomerRegistration
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username, email and password are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == req.Username {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
	}

	userID := s.allocID()
	account := &userAccount{
		User: models.User{
			ID:        userID,
			Username:  req.Username,
			Email:     req.Email,
			Role:      models.RoleCustomer,
			IsActive:  true,
			CreatedAt: time.Now(),
		},
		Password: req.Password,
	}
	s.users[userID] = account

	customerID := s.allocID()
	s.customers[customerID] = &models.Customer{
		ID:       customerID,
		UserID:   userID,
		Name:     req.Username,
		Address:  req.Address,
		PinCode:  req.PinCode,
		IsActive: true,
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. Please log in."})
}

func (s *Server) registerProfessional(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	serviceID, _ := strconv.ParseUint(c.PostForm("service_id"), 10, 32)
	experience, _ := strconv.Atoi(c.PostForm("experience"))

	if username == "" || email == "" || password == "" || serviceID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username, email, password and service are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
	}
	if _, ok := s.services[uint(serviceID)]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service"})
		return
	}

	userID := s.allocID()
	account := &userAccount{
		User: models.User{
			ID:        userID,
			Username:  username,
			Email:     email,
			Role:      models.RoleProfessional,
			IsActive:  true,
			CreatedAt: time.Now(),
		},
		Password: password,
	}
	s.users[userID] = account

	professionalID := s.allocID()
	s.professionals[professionalID] = &models.Professional{
		ID:                 professionalID,
		UserID:             userID,
		Name:               username,
		ServiceID:          uint(serviceID),
		Description:        c.PostForm("description"),
		Experience:         experience,
		VerificationStatus: models.VerificationPending,
		IsActive:           false,
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration submitted. An admin will review your profile."})
}
