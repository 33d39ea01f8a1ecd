package store

import (
	"fmt"

	"household-services-client/api"
	"household-services-client/models"
)

// ServicesStore caches the service catalog. The canonical collection is
// only replaced by successful fetches; filtering is a stored predicate
// applied on read and never mutates the collection.
type ServicesStore struct {
	client   *api.Client
	notifier *Notifier

	services []models.Service
	current  *models.Service
	filters  models.ServiceFilters
	loading  bool
	err      string
}

func NewServicesStore(client *api.Client, notifier *Notifier) *ServicesStore {
	return &ServicesStore{client: client, notifier: notifier}
}

// FetchServices loads the public service catalog.
func (s *ServicesStore) FetchServices() ([]models.Service, error) {
	return s.fetchInto("/customer/services-public", "Failed to fetch services")
}

// FetchAdminServices loads the catalog through the admin-scoped path.
func (s *ServicesStore) FetchAdminServices() ([]models.Service, error) {
	return s.fetchInto("/admin/services", "Failed to fetch services")
}

func (s *ServicesStore) fetchInto(path, fallback string) ([]models.Service, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var services []models.Service
	if err := s.client.Get(path, &services); err != nil {
		s.fail(err, fallback)
		return nil, err
	}
	s.services = services
	return services, nil
}

// FetchServiceDetails loads one service into the current slot and
// returns a copy of it. A matching cached detail is returned without a
// network call.
func (s *ServicesStore) FetchServiceDetails(serviceID uint) (*models.Service, error) {
	if s.current != nil && s.current.ID == serviceID {
		copied := *s.current
		return &copied, nil
	}

	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var service models.Service
	if err := s.client.Get(fmt.Sprintf("/customer/services/%d", serviceID), &service); err != nil {
		s.fail(err, "Failed to fetch service details")
		return nil, err
	}
	s.current = &service

	copied := service
	return &copied, nil
}

// SearchServices replaces the collection with the server-side search
// result for the given free-text query.
func (s *ServicesStore) SearchServices(query string) ([]models.Service, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var services []models.Service
	path := "/customer/search-services" + api.BuildQuery(map[string]string{"query": query})
	if err := s.client.Get(path, &services); err != nil {
		s.fail(err, "Search failed")
		return nil, err
	}
	s.services = services
	return services, nil
}

// CreateService creates a service (admin) and appends it to the cache.
func (s *ServicesStore) CreateService(create models.ServiceCreate) (*models.Service, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var resp struct {
		Service models.Service `json:"service"`
	}
	if err := s.client.Post("/admin/services", create, &resp); err != nil {
		s.fail(err, "Failed to create service")
		return nil, err
	}

	s.services = append(s.services, resp.Service)
	s.notifier.Success("Service created successfully")
	return &resp.Service, nil
}

// UpdateService updates a service (admin) and patches the cached copy,
// including the current slot when it holds the same id.
func (s *ServicesStore) UpdateService(serviceID uint, update models.ServiceCreate) (*models.Service, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var resp struct {
		Service models.Service `json:"service"`
	}
	if err := s.client.Put(fmt.Sprintf("/admin/services/%d", serviceID), update, &resp); err != nil {
		s.fail(err, "Failed to update service")
		return nil, err
	}

	for i := range s.services {
		if s.services[i].ID == resp.Service.ID {
			s.services[i] = resp.Service
			break
		}
	}
	if s.current != nil && s.current.ID == resp.Service.ID {
		updated := resp.Service
		s.current = &updated
	}

	s.notifier.Success("Service updated successfully")
	return &resp.Service, nil
}

// DeleteService deletes a service (admin) and removes it from the cache
// and the current slot.
func (s *ServicesStore) DeleteService(serviceID uint) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	if err := s.client.Delete(fmt.Sprintf("/admin/services/%d", serviceID)); err != nil {
		s.fail(err, "Failed to delete service")
		return err
	}

	kept := s.services[:0]
	for _, svc := range s.services {
		if svc.ID != serviceID {
			kept = append(kept, svc)
		}
	}
	s.services = kept
	if s.current != nil && s.current.ID == serviceID {
		s.current = nil
	}

	s.notifier.Success("Service deleted successfully")
	return nil
}

// SetFilters replaces the active filter predicate.
func (s *ServicesStore) SetFilters(filters models.ServiceFilters) {
	s.filters = filters
}

// ResetFilters restores the match-everything predicate.
func (s *ServicesStore) ResetFilters() {
	s.filters = models.ServiceFilters{}
}

// Filtered derives the filtered view. The underlying collection is
// never mutated, so the view is re-derivable at any time.
func (s *ServicesStore) Filtered() []models.Service {
	result := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		if s.filters.Matches(svc) {
			result = append(result, svc)
		}
	}
	return result
}

// Services returns a snapshot of the unfiltered collection.
func (s *ServicesStore) Services() []models.Service {
	out := make([]models.Service, len(s.services))
	copy(out, s.services)
	return out
}

// ServiceByID looks a service up in the cache.
func (s *ServicesStore) ServiceByID(serviceID uint) (models.Service, bool) {
	for _, svc := range s.services {
		if svc.ID == serviceID {
			return svc, true
		}
	}
	return models.Service{}, false
}

// Current returns a copy of the service detail slot, or nil. The slot
// itself only changes through the store's own operations.
func (s *ServicesStore) Current() *models.Service {
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

func (s *ServicesStore) Filters() models.ServiceFilters {
	return s.filters
}

func (s *ServicesStore) Loading() bool {
	return s.loading
}

func (s *ServicesStore) Error() string {
	return s.err
}

func (s *ServicesStore) ClearError() {
	s.err = ""
}

func (s *ServicesStore) fail(err error, fallback string) {
	msg := api.ServerMessage(err, fallback)
	s.err = msg
	s.notifier.Error(msg)
}
