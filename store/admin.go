package store

import (
	"fmt"
	"log"

	"household-services-client/api"
	"household-services-client/models"
)

// Admin mutations report fixed, user-facing messages; the server detail
// only goes to the log.

// AdminStore holds the admin aggregates: dashboard summary plus the
// management lists. Mutations here refetch the affected list from the
// server instead of patching locally, since admin views always show
// server truth.
type AdminStore struct {
	client *api.Client

	dashboard     *models.DashboardSummary
	professionals []models.Professional
	customers     []models.Customer
	requests      []models.ServiceRequest
	loading       bool
	err           string
}

func NewAdminStore(client *api.Client) *AdminStore {
	return &AdminStore{client: client}
}

// FetchDashboard loads the dashboard summary.
func (s *AdminStore) FetchDashboard() (*models.DashboardSummary, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var summary models.DashboardSummary
	if err := s.client.Get("/admin/dashboard", &summary); err != nil {
		log.Printf("error fetching dashboard data: %v", err)
		s.err = "Failed to load dashboard data. Please try again."
		return nil, err
	}
	s.dashboard = &summary
	return s.dashboard, nil
}

// FetchProfessionals loads all professionals, any verification status.
func (s *AdminStore) FetchProfessionals() ([]models.Professional, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var professionals []models.Professional
	if err := s.client.Get("/admin/professionals", &professionals); err != nil {
		log.Printf("error fetching professionals: %v", err)
		s.err = "Failed to load professionals. Please try again."
		return nil, err
	}
	s.professionals = professionals
	return professionals, nil
}

// UpdateProfessionalStatus approves or rejects a professional and
// refetches the list.
func (s *AdminStore) UpdateProfessionalStatus(professionalID uint, approve bool) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	status := models.VerificationApproved
	if !approve {
		status = models.VerificationRejected
	}
	body := map[string]string{"status": status}
	if err := s.client.Put(fmt.Sprintf("/admin/professionals/%d/verify", professionalID), body, nil); err != nil {
		log.Printf("error updating professional status: %v", err)
		s.err = "Failed to update professional status. Please try again."
		return err
	}

	_, err := s.FetchProfessionals()
	return err
}

// FetchCustomers loads all customers.
func (s *AdminStore) FetchCustomers() ([]models.Customer, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var customers []models.Customer
	if err := s.client.Get("/admin/customers", &customers); err != nil {
		log.Printf("error fetching customers: %v", err)
		s.err = "Failed to load customers. Please try again."
		return nil, err
	}
	s.customers = customers
	return customers, nil
}

// UpdateCustomerStatus toggles a customer's active flag and refetches
// the list.
func (s *AdminStore) UpdateCustomerStatus(customerID uint, isActive bool) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	body := map[string]bool{"is_active": isActive}
	if err := s.client.Put(fmt.Sprintf("/admin/customers/%d/status", customerID), body, nil); err != nil {
		log.Printf("error updating customer status: %v", err)
		s.err = "Failed to update customer status. Please try again."
		return err
	}

	_, err := s.FetchCustomers()
	return err
}

// FetchRequests loads every service request.
func (s *AdminStore) FetchRequests() ([]models.ServiceRequest, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var requests []models.ServiceRequest
	if err := s.client.Get("/admin/service-requests", &requests); err != nil {
		log.Printf("error fetching service requests: %v", err)
		s.err = "Failed to load service requests. Please try again."
		return nil, err
	}
	s.requests = requests
	return requests, nil
}

// UpdateRequestStatus sets a request's status and refetches the list.
func (s *AdminStore) UpdateRequestStatus(requestID uint, status models.ServiceStatus) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	body := map[string]models.ServiceStatus{"status": status}
	if err := s.client.Put(fmt.Sprintf("/admin/service-requests/%d/status", requestID), body, nil); err != nil {
		log.Printf("error updating request status: %v", err)
		s.err = "Failed to update request status. Please try again."
		return err
	}

	_, err := s.FetchRequests()
	return err
}

// AssignProfessional assigns a professional and refetches the list.
func (s *AdminStore) AssignProfessional(requestID, professionalID uint) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	body := map[string]uint{"professional_id": professionalID}
	if err := s.client.Put(fmt.Sprintf("/admin/service-requests/%d/assign", requestID), body, nil); err != nil {
		log.Printf("error assigning professional: %v", err)
		s.err = "Failed to assign professional. Please try again."
		return err
	}

	_, err := s.FetchRequests()
	return err
}

func (s *AdminStore) Dashboard() *models.DashboardSummary {
	return s.dashboard
}

func (s *AdminStore) Professionals() []models.Professional {
	out := make([]models.Professional, len(s.professionals))
	copy(out, s.professionals)
	return out
}

func (s *AdminStore) Customers() []models.Customer {
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *AdminStore) Requests() []models.ServiceRequest {
	out := make([]models.ServiceRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *AdminStore) Loading() bool {
	return s.loading
}

func (s *AdminStore) Error() string {
	return s.err
}

func (s *AdminStore) ClearError() {
	s.err = ""
}
