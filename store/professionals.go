package store

import (
	"sort"
	"strconv"

	"household-services-client/api"
	"household-services-client/models"
)

// ProfessionalsStore caches professional listings. The same logical
// query exists under two authorization scopes; which one is used
// depends on the caller context (explicit flag or admin navigation).
type ProfessionalsStore struct {
	client   *api.Client
	notifier *Notifier

	professionals []models.Professional
	filters       models.ProfessionalFilters
	selected      *models.Professional
	adminContext  bool
	loading       bool
	err           string
}

func NewProfessionalsStore(client *api.Client, notifier *Notifier) *ProfessionalsStore {
	return &ProfessionalsStore{client: client, notifier: notifier}
}

// SetAdminContext marks the store as serving admin navigation, which
// routes listing fetches through the admin-scoped endpoint.
func (s *ProfessionalsStore) SetAdminContext(admin bool) {
	s.adminContext = admin
}

// FetchProfessionals replaces the collection from the scope-appropriate
// endpoint and installs the given filters for the derived view. Both
// endpoints return the same shape.
func (s *ProfessionalsStore) FetchProfessionals(filters models.ProfessionalFilters) ([]models.Professional, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	endpoint := "/customer/professionals"
	if filters.IsAdmin || s.adminContext {
		endpoint = "/admin/professionals"
	}

	params := map[string]string{"query": filters.Query}
	if filters.ServiceID != 0 {
		params["service_id"] = strconv.FormatUint(uint64(filters.ServiceID), 10)
	}

	var professionals []models.Professional
	if err := s.client.Get(endpoint+api.BuildQuery(params), &professionals); err != nil {
		s.err = "Failed to load professionals. Please try again."
		return nil, err
	}

	s.professionals = professionals
	s.filters = filters
	return professionals, nil
}

// Filter installs a new predicate for the derived view without touching
// the underlying collection.
func (s *ProfessionalsStore) Filter(filters models.ProfessionalFilters) {
	s.filters = filters
}

// ClearFilters restores the match-everything predicate.
func (s *ProfessionalsStore) ClearFilters() {
	s.filters = models.ProfessionalFilters{}
}

// Filtered derives the filtered view on read.
func (s *ProfessionalsStore) Filtered() []models.Professional {
	result := make([]models.Professional, 0, len(s.professionals))
	for _, p := range s.professionals {
		if s.filters.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// TopRated returns up to five professionals ordered by descending
// average rating. Unrated professionals are excluded and ties keep the
// collection's insertion order.
func (s *ProfessionalsStore) TopRated() []models.Professional {
	rated := make([]models.Professional, 0, len(s.professionals))
	for _, p := range s.professionals {
		if p.AvgRating != nil {
			rated = append(rated, p)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].AvgRating > *rated[j].AvgRating
	})
	if len(rated) > 5 {
		rated = rated[:5]
	}
	return rated
}

// ProfessionalsByService filters the cached collection by service.
func (s *ProfessionalsStore) ProfessionalsByService(serviceID uint) []models.Professional {
	result := make([]models.Professional, 0)
	for _, p := range s.professionals {
		if p.ServiceID == serviceID {
			result = append(result, p)
		}
	}
	return result
}

// SelectProfessional sets the selection slot from the cache; an unknown
// id clears it.
func (s *ProfessionalsStore) SelectProfessional(professionalID uint) {
	for i := range s.professionals {
		if s.professionals[i].ID == professionalID {
			selected := s.professionals[i]
			s.selected = &selected
			return
		}
	}
	s.selected = nil
}

// Selected returns a copy of the selection slot, or nil.
func (s *ProfessionalsStore) Selected() *models.Professional {
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// Professionals returns a snapshot of the unfiltered collection.
func (s *ProfessionalsStore) Professionals() []models.Professional {
	out := make([]models.Professional, len(s.professionals))
	copy(out, s.professionals)
	return out
}

func (s *ProfessionalsStore) Loading() bool {
	return s.loading
}

func (s *ProfessionalsStore) Error() string {
	return s.err
}

func (s *ProfessionalsStore) ClearError() {
	s.err = ""
}
