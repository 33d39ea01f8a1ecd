// Package testserver is an in-memory implementation of the REST
// contract the client stores consume. It backs the store tests and the
// demo binary's local mode; state lives in maps guarded by one mutex so
// a server can be driven from httptest without external services.
package testserver

import (
	"sort"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"household-services-client/models"
	"household-services-client/types"
)

type userAccount struct {
	models.User
	Password string
}

// Server holds the in-memory platform state.
type Server struct {
	mu        sync.Mutex
	jwtSecret []byte

	users         map[uint]*userAccount
	customers     map[uint]*models.Customer
	professionals map[uint]*models.Professional
	services      map[uint]*models.Service
	requests      map[uint]*models.ServiceRequest
	exports       map[string]*models.ExportJob
	exportOrder   []string
	monthly       []models.MonthlyReport
	nextID        uint
}

// New creates an empty server with the given JWT signing secret.
func New(jwtSecret string) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		jwtSecret:     []byte(jwtSecret),
		users:         make(map[uint]*userAccount),
		customers:     make(map[uint]*models.Customer),
		professionals: make(map[uint]*models.Professional),
		services:      make(map[uint]*models.Service),
		requests:      make(map[uint]*models.ServiceRequest),
		exports:       make(map[string]*models.ExportJob),
	}
}

// Router builds the gin engine exposing the full REST contract.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	auth := router.Group("/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/logout", s.logout)
		auth.GET("/user-info", s.requireAuth(), s.userInfo)
		auth.POST("/register/customer", s.registerCustomer)
		auth.POST("/register/professional", s.registerProfessional)
	}

	customer := router.Group("/customer")
	{
		customer.GET("/services-public", s.listServices)
		customer.GET("/services/:id", s.serviceDetails)
		customer.GET("/search-services", s.searchServices)
		customer.GET("/professionals", s.listApprovedProfessionals)

		requests := customer.Group("/service-requests", s.requireAuth(models.RoleCustomer))
		requests.GET("", s.customerRequests)
		requests.POST("", s.createRequest)
		requests.GET("/:id", s.requestDetails)
		requests.PUT("/:id", s.updateRequest)
		requests.PUT("/:id/cancel", s.cancelRequest)
		requests.POST("/:id/review", s.addReview)
	}

	professional := router.Group("/professional", s.requireAuth(models.RoleProfessional))
	{
		professional.GET("/service-requests", s.professionalRequests)
		professional.GET("/available-requests", s.availableRequests)
		professional.PUT("/service-requests/:id/action", s.requestAction)
	}

	admin := router.Group("/admin", s.requireAuth(models.RoleAdmin))
	{
		admin.GET("/dashboard", s.dashboardSummary)

		admin.GET("/services", s.listServices)
		admin.POST("/services", s.createService)
		admin.PUT("/services/:id", s.updateService)
		admin.DELETE("/services/:id", s.deleteService)

		admin.GET("/professionals", s.listAllProfessionals)
		admin.PUT("/professionals/:id/verify", s.verifyProfessional)

		admin.GET("/customers", s.listCustomers)
		admin.PUT("/customers/:id/status", s.updateCustomerStatus)

		admin.GET("/service-requests", s.allRequests)
		admin.GET("/service-requests/search", s.searchRequests)
		admin.PUT("/service-requests/:id/assign", s.assignProfessional)
		admin.PUT("/service-requests/:id/status", s.updateRequestStatus)
		admin.PUT("/service-requests/:id", s.adminUpdateRequest)

		admin.POST("/export/service-requests", s.submitExport("service-requests"))
		admin.POST("/export/report", s.submitExport("admin-report"))
		admin.POST("/export/monthly-report", s.submitExport("monthly-report"))
		admin.GET("/exports", s.listExports)
		admin.GET("/exports/:id", s.exportDetails)
		admin.GET("/exports/:id/download", s.downloadExport)

		admin.GET("/reports/export-jobs", s.listExports)
		admin.POST("/reports/export-jobs", s.createExportJob)
		admin.GET("/reports/monthly", s.monthlyReports)
		admin.POST("/reports/generate", s.generateReport)
	}

	return router
}

// TokenFor signs a session token for the given user.
func (s *Server) TokenFor(user models.User) string {
	claims := &types.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "household-services-testserver",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		panic(err)
	}
	return token
}

// ExpiredTokenFor signs an already-expired token, for session-restore
// tests.
func (s *Server) ExpiredTokenFor(user models.User) string {
	claims := &types.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "household-services-testserver",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		panic(err)
	}
	return token
}

// --- seeding ---

func (s *Server) allocID() uint {
	s.nextID++
	return s.nextID
}

// SeedAdmin creates an active admin account.
func (s *Server) SeedAdmin(username, password string) models.User {
	return s.seedUser(username, password, models.RoleAdmin)
}

func (s *Server) seedUser(username, password, role string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	account := &userAccount{
		User: models.User{
			ID:        id,
			Username:  username,
			Email:     username + "@example.com",
			Role:      role,
			IsActive:  true,
			CreatedAt: time.Now(),
		},
		Password: password,
	}
	s.users[id] = account
	return account.User
}

// SeedCustomer creates a customer account with its profile.
func (s *Server) SeedCustomer(username, password string) (models.Customer, models.User) {
	user := s.seedUser(username, password, models.RoleCustomer)
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	customer := &models.Customer{
		ID:       id,
		UserID:   user.ID,
		Name:     username,
		IsActive: true,
	}
	s.customers[id] = customer
	return *customer, user
}

// SeedProfessional creates an approved professional account with its
// profile. avgRating may be nil for an unrated professional.
func (s *Server) SeedProfessional(name string, serviceID uint, experience int, avgRating *float64) (models.Professional, models.User) {
	user := s.seedUser(name, "secret", models.RoleProfessional)
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	professional := &models.Professional{
		ID:                 id,
		UserID:             user.ID,
		Name:               name,
		ServiceID:          serviceID,
		Experience:         experience,
		AvgRating:          avgRating,
		VerificationStatus: models.VerificationApproved,
		IsActive:           true,
	}
	s.professionals[id] = professional
	return *professional, user
}

// SeedService creates a service.
func (s *Server) SeedService(name, description string, basePrice float64, category string) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	service := &models.Service{
		ID:          id,
		Name:        name,
		Description: description,
		BasePrice:   decimal.NewFromFloat(basePrice),
		Category:    category,
		CreatedAt:   time.Now(),
	}
	s.services[id] = service
	return *service
}

// SeedRequest creates a service request in the given status.
func (s *Server) SeedRequest(customerID, serviceID uint, status models.ServiceStatus, professionalID *uint) models.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	request := &models.ServiceRequest{
		ID:             id,
		ServiceID:      serviceID,
		CustomerID:     customerID,
		ProfessionalID: professionalID,
		ServiceStatus:  status,
		DateOfRequest:  time.Now(),
		CreatedAt:      time.Now(),
	}
	if status == models.StatusCompleted || status == models.StatusClosed {
		now := time.Now()
		request.DateOfCompletion = &now
	}
	s.requests[id] = request
	return *request
}

// SeedMonthlyReport records a monthly report entry.
func (s *Server) SeedMonthlyReport(report models.MonthlyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthly = append(s.monthly, report)
}

// Request returns the stored request, for assertions.
func (s *Server) Request(id uint) (models.ServiceRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requests[id]; ok {
		return *r, true
	}
	return models.ServiceRequest{}, false
}

// --- ordered snapshots (map iteration is unordered) ---

func (s *Server) servicesSorted() []models.Service {
	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) professionalsSorted() []models.Professional {
	out := make([]models.Professional, 0, len(s.professionals))
	for _, p := range s.professionals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) customersSorted() []models.Customer {
	out := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) requestsSorted() []models.ServiceRequest {
	out := make([]models.ServiceRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) customerByUser(userID uint) *models.Customer {
	for _, c := range s.customers {
		if c.UserID == userID {
			return c
		}
	}
	return nil
}

func (s *Server) professionalByUser(userID uint) *models.Professional {
	for _, p := range s.professionals {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}
