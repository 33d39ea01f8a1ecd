package store

import (
	"fmt"
	"strconv"
	"time"

	"household-services-client/api"
	"household-services-client/models"
)

// ServiceRequestsStore is the lifecycle controller for service
// requests. Entities are stored once in a map keyed by id; the four
// list projections (customer-owned, professional-owned, available,
// admin-all) and the detail slot hold ids only, and views are computed
// on read. A single patch is therefore visible in every projection, and
// the available view drops a request the instant it leaves the
// requested status.
type ServiceRequestsStore struct {
	client   *api.Client
	notifier *Notifier

	byID            map[uint]*models.ServiceRequest
	customerIDs     []uint
	professionalIDs []uint
	availableIDs    []uint
	adminIDs        []uint
	currentID       uint

	filters RequestFilters
	loading bool
	err     string
}

// RequestFilters narrows the customer request view by status; the zero
// value matches everything.
type RequestFilters struct {
	Status models.ServiceStatus
}

func NewServiceRequestsStore(client *api.Client, notifier *Notifier) *ServiceRequestsStore {
	return &ServiceRequestsStore{
		client:   client,
		notifier: notifier,
		byID:     make(map[uint]*models.ServiceRequest),
	}
}

// --- fetches ---

// FetchCustomerRequests replaces the customer projection.
func (s *ServiceRequestsStore) FetchCustomerRequests() ([]models.ServiceRequest, error) {
	return s.fetchProjection("/customer/service-requests", &s.customerIDs, "Failed to fetch service requests")
}

// FetchProfessionalRequests replaces the professional projection.
func (s *ServiceRequestsStore) FetchProfessionalRequests() ([]models.ServiceRequest, error) {
	return s.fetchProjection("/professional/service-requests", &s.professionalIDs, "Failed to fetch professional service requests")
}

// FetchAvailableRequests replaces the available-to-claim projection.
func (s *ServiceRequestsStore) FetchAvailableRequests() ([]models.ServiceRequest, error) {
	return s.fetchProjection("/professional/available-requests", &s.availableIDs, "Failed to fetch available requests")
}

// FetchAdminRequests replaces the admin projection.
func (s *ServiceRequestsStore) FetchAdminRequests() ([]models.ServiceRequest, error) {
	return s.fetchProjection("/admin/service-requests", &s.adminIDs, "Failed to fetch service requests")
}

func (s *ServiceRequestsStore) fetchProjection(path string, ids *[]uint, fallback string) ([]models.ServiceRequest, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var requests []models.ServiceRequest
	if err := s.client.Get(path, &requests); err != nil {
		s.err = api.ServerMessage(err, fallback)
		return nil, err
	}

	*ids = (*ids)[:0]
	for i := range requests {
		s.upsert(requests[i])
		*ids = append(*ids, requests[i].ID)
	}
	return requests, nil
}

// FetchRequestDetails loads one request into the detail slot.
func (s *ServiceRequestsStore) FetchRequestDetails(requestID uint) (*models.ServiceRequest, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var request models.ServiceRequest
	if err := s.client.Get(fmt.Sprintf("/customer/service-requests/%d", requestID), &request); err != nil {
		s.err = api.ServerMessage(err, "Failed to fetch request details")
		return nil, err
	}

	s.upsert(request)
	s.currentID = request.ID
	return s.Current(), nil
}

// SearchRequests queries the admin search endpoint. Results are
// returned to the caller without replacing the admin projection.
func (s *ServiceRequestsStore) SearchRequests(params models.RequestSearchParams) ([]models.ServiceRequest, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	query := map[string]string{
		"status":     params.Status,
		"start_date": params.StartDate,
		"end_date":   params.EndDate,
		"query":      params.Query,
	}
	if params.ServiceID != 0 {
		query["service_id"] = strconv.FormatUint(uint64(params.ServiceID), 10)
	}
	if params.CustomerID != 0 {
		query["customer_id"] = strconv.FormatUint(uint64(params.CustomerID), 10)
	}
	if params.ProfessionalID != 0 {
		query["professional_id"] = strconv.FormatUint(uint64(params.ProfessionalID), 10)
	}

	var results []models.ServiceRequest
	if err := s.client.Get("/admin/service-requests/search"+api.BuildQuery(query), &results); err != nil {
		s.err = api.ServerMessage(err, "Failed to search service requests")
		return nil, err
	}
	return results, nil
}

// --- customer actions ---

// CreateRequest submits a new service request and prepends it to the
// customer projection.
func (s *ServiceRequestsStore) CreateRequest(create models.ServiceRequestCreate) (*models.ServiceRequest, error) {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	var request models.ServiceRequest
	if err := s.client.Post("/customer/service-requests", create, &request); err != nil {
		s.fail(err, "Failed to create service request")
		return nil, err
	}

	s.upsert(request)
	s.customerIDs = append([]uint{request.ID}, s.customerIDs...)
	s.notifier.Success("Service request created successfully")

	copied := request
	return &copied, nil
}

// CloseRequest closes a completed request.
func (s *ServiceRequestsStore) CloseRequest(requestID uint) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	body := map[string]string{"action": "close"}
	if err := s.client.Put(fmt.Sprintf("/customer/service-requests/%d", requestID), body, nil); err != nil {
		s.fail(err, "Failed to close service request")
		return err
	}

	s.patch(requestID, func(r *models.ServiceRequest) {
		r.ServiceStatus = models.StatusClosed
	})
	s.notifier.Success("Service request closed successfully")
	return nil
}

// CancelRequest cancels a non-terminal request and purges it from every
// projection and the detail slot.
func (s *ServiceRequestsStore) CancelRequest(requestID uint) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	if err := s.client.Put(fmt.Sprintf("/customer/service-requests/%d/cancel", requestID), nil, nil); err != nil {
		s.fail(err, "Failed to cancel service request")
		return err
	}

	s.remove(requestID)
	s.notifier.Success("Service request cancelled successfully")
	return nil
}

// AddReview attaches a review to a completed request. An out-of-range
// rating fails before any network call and touches only the error slot.
func (s *ServiceRequestsStore) AddReview(requestID uint, rating int, comments string) error {
	s.err = ""
	if rating < 1 || rating > 5 {
		err := &api.ValidationError{Message: "Rating must be between 1 and 5"}
		s.err = err.Message
		return err
	}

	s.loading = true
	defer func() { s.loading = false }()

	body := map[string]interface{}{"rating": rating, "comments": comments}
	if err := s.client.Post(fmt.Sprintf("/customer/service-requests/%d/review", requestID), body, nil); err != nil {
		s.fail(err, "Failed to submit review")
		return err
	}

	s.patch(requestID, func(r *models.ServiceRequest) {
		r.Review = &models.Review{Rating: rating, Comments: comments, DatePosted: time.Now()}
	})
	s.notifier.Success("Review submitted successfully")
	return nil
}

// --- professional actions ---

var actionMessages = map[models.RequestAction]string{
	models.ActionAccept:   "Service request accepted successfully",
	models.ActionReject:   "Service request rejected successfully",
	models.ActionComplete: "Service request marked as completed successfully",
}

// Do applies a professional action. The action set is closed: anything
// outside the transition table fails before any network call. Source
// state checks stay server-side; the server's message is surfaced
// verbatim when a transition is refused.
func (s *ServiceRequestsStore) Do(requestID uint, action models.RequestAction) error {
	s.err = ""
	next, ok := models.ActionTransitions[action]
	if !ok {
		err := &api.ValidationError{Message: fmt.Sprintf("Invalid action %q", action)}
		s.err = err.Message
		return err
	}

	s.loading = true
	defer func() { s.loading = false }()

	body := map[string]string{"action": string(action)}
	if err := s.client.Put(fmt.Sprintf("/professional/service-requests/%d/action", requestID), body, nil); err != nil {
		s.fail(err, fmt.Sprintf("Failed to %s service request", action))
		return err
	}

	now := time.Now()
	s.patch(requestID, func(r *models.ServiceRequest) {
		r.ServiceStatus = next
		if action == models.ActionComplete {
			r.DateOfCompletion = &now
		}
		if action == models.ActionReject {
			r.ProfessionalID = nil
		}
	})
	s.notifier.Success(actionMessages[action])
	return nil
}

// --- admin actions ---

// Assign assigns an approved professional to a requested request.
func (s *ServiceRequestsStore) Assign(requestID, professionalID uint) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	body := map[string]uint{"professional_id": professionalID}
	if err := s.client.Put(fmt.Sprintf("/admin/service-requests/%d/assign", requestID), body, nil); err != nil {
		s.fail(err, "Failed to assign professional")
		return err
	}

	s.patch(requestID, func(r *models.ServiceRequest) {
		pid := professionalID
		r.ProfessionalID = &pid
		r.ServiceStatus = models.StatusAssigned
	})
	s.notifier.Success("Professional assigned successfully")
	return nil
}

// UpdateRequestAdmin applies an admin edit and patches the cached copy.
func (s *ServiceRequestsStore) UpdateRequestAdmin(requestID uint, update models.ServiceRequestUpdate) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	if err := s.client.Put(fmt.Sprintf("/admin/service-requests/%d", requestID), update, nil); err != nil {
		s.fail(err, "Failed to update service request")
		return err
	}

	s.patch(requestID, func(r *models.ServiceRequest) {
		if update.ServiceID != nil {
			r.ServiceID = *update.ServiceID
		}
		if update.ProfessionalID != nil {
			r.ProfessionalID = update.ProfessionalID
		}
		if update.ServiceStatus != nil {
			r.ServiceStatus = *update.ServiceStatus
		}
		if update.Remarks != nil {
			r.Remarks = *update.Remarks
		}
	})
	s.notifier.Success("Service request updated successfully")
	return nil
}

// --- views ---

// CustomerRequests returns the customer projection.
func (s *ServiceRequestsStore) CustomerRequests() []models.ServiceRequest {
	return s.view(s.customerIDs)
}

// ProfessionalRequests returns the professional projection.
func (s *ServiceRequestsStore) ProfessionalRequests() []models.ServiceRequest {
	return s.view(s.professionalIDs)
}

// AvailableRequests returns the available projection. Requests that
// have moved out of the requested status are excluded on read, so a
// transition removes them from this view immediately.
func (s *ServiceRequestsStore) AvailableRequests() []models.ServiceRequest {
	result := make([]models.ServiceRequest, 0, len(s.availableIDs))
	for _, id := range s.availableIDs {
		if r, ok := s.byID[id]; ok && r.ServiceStatus == models.StatusRequested {
			result = append(result, *r)
		}
	}
	return result
}

// AdminRequests returns the admin projection.
func (s *ServiceRequestsStore) AdminRequests() []models.ServiceRequest {
	return s.view(s.adminIDs)
}

// Current returns a copy of the detail slot, or nil.
func (s *ServiceRequestsStore) Current() *models.ServiceRequest {
	if s.currentID == 0 {
		return nil
	}
	r, ok := s.byID[s.currentID]
	if !ok {
		return nil
	}
	copied := *r
	return &copied
}

// RequestByID looks a request up in the cache.
func (s *ServiceRequestsStore) RequestByID(requestID uint) (models.ServiceRequest, bool) {
	if r, ok := s.byID[requestID]; ok {
		return *r, true
	}
	return models.ServiceRequest{}, false
}

// RequestsByStatus filters the customer projection by status.
func (s *ServiceRequestsStore) RequestsByStatus(status models.ServiceStatus) []models.ServiceRequest {
	result := make([]models.ServiceRequest, 0)
	for _, r := range s.view(s.customerIDs) {
		if r.ServiceStatus == status {
			result = append(result, r)
		}
	}
	return result
}

// PendingRequests returns customer requests still moving through the
// lifecycle.
func (s *ServiceRequestsStore) PendingRequests() []models.ServiceRequest {
	result := make([]models.ServiceRequest, 0)
	for _, r := range s.view(s.customerIDs) {
		if !r.ServiceStatus.Terminal() {
			result = append(result, r)
		}
	}
	return result
}

// CompletedRequests returns customer requests in a terminal status.
func (s *ServiceRequestsStore) CompletedRequests() []models.ServiceRequest {
	result := make([]models.ServiceRequest, 0)
	for _, r := range s.view(s.customerIDs) {
		if r.ServiceStatus.Terminal() {
			result = append(result, r)
		}
	}
	return result
}

// Filtered applies the stored filter to the customer projection.
func (s *ServiceRequestsStore) Filtered() []models.ServiceRequest {
	if s.filters.Status == "" {
		return s.CustomerRequests()
	}
	return s.RequestsByStatus(s.filters.Status)
}

// SetFilters replaces the stored filter.
func (s *ServiceRequestsStore) SetFilters(filters RequestFilters) {
	s.filters = filters
}

// ClearFilters restores the match-everything filter.
func (s *ServiceRequestsStore) ClearFilters() {
	s.filters = RequestFilters{}
}

func (s *ServiceRequestsStore) Loading() bool {
	return s.loading
}

func (s *ServiceRequestsStore) Error() string {
	return s.err
}

func (s *ServiceRequestsStore) ClearError() {
	s.err = ""
}

// --- cache internals ---

func (s *ServiceRequestsStore) view(ids []uint) []models.ServiceRequest {
	result := make([]models.ServiceRequest, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.byID[id]; ok {
			result = append(result, *r)
		}
	}
	return result
}

func (s *ServiceRequestsStore) upsert(request models.ServiceRequest) {
	copied := request
	s.byID[request.ID] = &copied
}

func (s *ServiceRequestsStore) patch(requestID uint, apply func(*models.ServiceRequest)) {
	if r, ok := s.byID[requestID]; ok {
		apply(r)
	}
}

func (s *ServiceRequestsStore) remove(requestID uint) {
	delete(s.byID, requestID)
	s.customerIDs = removeID(s.customerIDs, requestID)
	s.professionalIDs = removeID(s.professionalIDs, requestID)
	s.availableIDs = removeID(s.availableIDs, requestID)
	s.adminIDs = removeID(s.adminIDs, requestID)
	if s.currentID == requestID {
		s.currentID = 0
	}
}

func removeID(ids []uint, id uint) []uint {
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

func (s *ServiceRequestsStore) fail(err error, fallback string) {
	msg := api.ServerMessage(err, fallback)
	s.err = msg
	s.notifier.Error(msg)
}
