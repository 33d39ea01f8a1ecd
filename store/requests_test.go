package store

import (
	"errors"
	"testing"

	"household-services-client/api"
	"household-services-client/models"
	"household-services-client/testserver"
)

type lifecycleFixture struct {
	store        *Store
	server       *testserver.Server
	service      models.Service
	customer     models.Customer
	customerTok  string
	professional models.Professional
	proTok       string
	adminTok     string
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	st, srv := newTestStore(t)

	service := srv.SeedService("Plumbing", "Pipes", 800, "repair")
	customer, customerUser := srv.SeedCustomer("asha", "password")
	professional, proUser := srv.SeedProfessional("ravi", service.ID, 5, nil)
	admin := srv.SeedAdmin("admin", "admin123")

	return &lifecycleFixture{
		store:        st,
		server:       srv,
		service:      service,
		customer:     customer,
		customerTok:  srv.TokenFor(customerUser),
		professional: professional,
		proTok:       srv.TokenFor(proUser),
		adminTok:     srv.TokenFor(admin),
	}
}

func (f *lifecycleFixture) as(token string) {
	f.store.Client().SetToken(token)
}

func TestRequestLifecycle(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	// Customer raises a request.
	f.as(f.customerTok)
	created, err := st.Requests.CreateRequest(models.ServiceRequestCreate{
		ServiceID: f.service.ID,
		Remarks:   "Kitchen tap is leaking",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if created.ServiceStatus != models.StatusRequested {
		t.Fatalf("expected new request in requested status, got %s", created.ServiceStatus)
	}
	if got := st.Requests.CustomerRequests(); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("expected the new request in the customer view, got %+v", got)
	}

	// Professional sees it as available while it is still requested.
	f.as(f.proTok)
	if _, err := st.Requests.FetchAvailableRequests(); err != nil {
		t.Fatalf("FetchAvailableRequests: %v", err)
	}
	if got := st.Requests.AvailableRequests(); len(got) != 1 {
		t.Fatalf("expected 1 available request, got %d", len(got))
	}

	// Admin assigns; the single patch is visible in every projection,
	// and the available view drops the request without a refetch.
	f.as(f.adminTok)
	if _, err := st.Requests.FetchAdminRequests(); err != nil {
		t.Fatalf("FetchAdminRequests: %v", err)
	}
	if err := st.Requests.Assign(created.ID, f.professional.ID); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got := st.Requests.AvailableRequests(); len(got) != 0 {
		t.Fatalf("assigned request still listed as available: %+v", got)
	}
	for _, view := range [][]models.ServiceRequest{
		st.Requests.CustomerRequests(),
		st.Requests.AdminRequests(),
	} {
		if len(view) != 1 || view[0].ServiceStatus != models.StatusAssigned {
			t.Fatalf("projection out of sync after assign: %+v", view)
		}
		if view[0].ProfessionalID == nil || *view[0].ProfessionalID != f.professional.ID {
			t.Fatalf("professional not recorded in projection: %+v", view[0])
		}
	}

	// Professional accepts then completes.
	f.as(f.proTok)
	if _, err := st.Requests.FetchProfessionalRequests(); err != nil {
		t.Fatalf("FetchProfessionalRequests: %v", err)
	}
	if err := st.Requests.Do(created.ID, models.ActionAccept); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if r, _ := st.Requests.RequestByID(created.ID); r.ServiceStatus != models.StatusAccepted {
		t.Fatalf("expected accepted, got %s", r.ServiceStatus)
	}
	if err := st.Requests.Do(created.ID, models.ActionComplete); err != nil {
		t.Fatalf("complete: %v", err)
	}
	r, _ := st.Requests.RequestByID(created.ID)
	if r.ServiceStatus != models.StatusCompleted || r.DateOfCompletion == nil {
		t.Fatalf("expected completed with completion date, got %+v", r)
	}

	// Customer closes the completed request.
	f.as(f.customerTok)
	if err := st.Requests.CloseRequest(created.ID); err != nil {
		t.Fatalf("CloseRequest: %v", err)
	}
	if r, _ := st.Requests.RequestByID(created.ID); r.ServiceStatus != models.StatusClosed {
		t.Fatalf("expected closed, got %s", r.ServiceStatus)
	}
	if server, ok := f.server.Request(created.ID); !ok || server.ServiceStatus != models.StatusClosed {
		t.Fatalf("server state out of sync: %+v", server)
	}
}

func TestRejectReopensRequest(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusAssigned, &f.professional.ID)

	f.as(f.proTok)
	if _, err := st.Requests.FetchProfessionalRequests(); err != nil {
		t.Fatalf("FetchProfessionalRequests: %v", err)
	}
	if err := st.Requests.Do(seeded.ID, models.ActionReject); err != nil {
		t.Fatalf("reject: %v", err)
	}

	r, ok := st.Requests.RequestByID(seeded.ID)
	if !ok {
		t.Fatal("request dropped from cache on reject")
	}
	if r.ServiceStatus != models.StatusRequested || r.ProfessionalID != nil {
		t.Fatalf("expected reject to reopen the request, got %+v", r)
	}

	server, _ := f.server.Request(seeded.ID)
	if server.ServiceStatus != models.StatusRequested || server.ProfessionalID != nil {
		t.Fatalf("server state out of sync after reject: %+v", server)
	}
}

func TestCancelPurgesEveryProjection(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusRequested, nil)

	f.as(f.customerTok)
	if _, err := st.Requests.FetchCustomerRequests(); err != nil {
		t.Fatalf("FetchCustomerRequests: %v", err)
	}
	if _, err := st.Requests.FetchRequestDetails(seeded.ID); err != nil {
		t.Fatalf("FetchRequestDetails: %v", err)
	}
	f.as(f.proTok)
	if _, err := st.Requests.FetchAvailableRequests(); err != nil {
		t.Fatalf("FetchAvailableRequests: %v", err)
	}
	f.as(f.adminTok)
	if _, err := st.Requests.FetchAdminRequests(); err != nil {
		t.Fatalf("FetchAdminRequests: %v", err)
	}

	f.as(f.customerTok)
	if err := st.Requests.CancelRequest(seeded.ID); err != nil {
		t.Fatalf("CancelRequest: %v", err)
	}

	if _, ok := st.Requests.RequestByID(seeded.ID); ok {
		t.Fatal("cancelled request still in cache")
	}
	if st.Requests.Current() != nil {
		t.Fatal("cancelled request still in the detail slot")
	}
	for name, view := range map[string][]models.ServiceRequest{
		"customer":  st.Requests.CustomerRequests(),
		"available": st.Requests.AvailableRequests(),
		"admin":     st.Requests.AdminRequests(),
	} {
		if len(view) != 0 {
			t.Fatalf("cancelled request still in %s view: %+v", name, view)
		}
	}
	if _, ok := f.server.Request(seeded.ID); ok {
		t.Fatal("cancelled request still on the server")
	}
}

func TestCancelTerminalRequestRefused(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusCompleted, &f.professional.ID)

	f.as(f.customerTok)
	if _, err := st.Requests.FetchCustomerRequests(); err != nil {
		t.Fatalf("FetchCustomerRequests: %v", err)
	}
	if err := st.Requests.CancelRequest(seeded.ID); err == nil {
		t.Fatal("expected cancelling a completed request to fail")
	}
	if st.Requests.Error() != "Cannot cancel a completed or closed request" {
		t.Fatalf("expected the server message verbatim, got %q", st.Requests.Error())
	}
	// The refused cancel leaves the request in place.
	if _, ok := st.Requests.RequestByID(seeded.ID); !ok {
		t.Fatal("refused cancel removed the request from the cache")
	}
}

func TestAddReviewValidatesRating(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusCompleted, &f.professional.ID)

	f.as(f.customerTok)
	if _, err := st.Requests.FetchCustomerRequests(); err != nil {
		t.Fatalf("FetchCustomerRequests: %v", err)
	}

	for _, rating := range []int{0, 6} {
		err := st.Requests.AddReview(seeded.ID, rating, "nope")
		if err == nil {
			t.Fatalf("expected rating %d to be rejected", rating)
		}
		var vErr *api.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a validation error, got %T", err)
		}
		if st.Requests.Error() != "Rating must be between 1 and 5" {
			t.Fatalf("unexpected error slot: %q", st.Requests.Error())
		}
		// Nothing reached the server and the entity is untouched.
		if r, _ := st.Requests.RequestByID(seeded.ID); r.Review != nil {
			t.Fatalf("out-of-range rating mutated the request: %+v", r)
		}
		server, _ := f.server.Request(seeded.ID)
		if server.Review != nil {
			t.Fatal("out-of-range rating reached the server")
		}
	}

	if err := st.Requests.AddReview(seeded.ID, 5, "great work"); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	r, _ := st.Requests.RequestByID(seeded.ID)
	if r.Review == nil || r.Review.Rating != 5 {
		t.Fatalf("review not patched into the cache: %+v", r)
	}
	server, _ := f.server.Request(seeded.ID)
	if server.Review == nil || server.Review.Rating != 5 {
		t.Fatalf("review missing on the server: %+v", server)
	}

	// A second review on the same request is refused server-side.
	if err := st.Requests.AddReview(seeded.ID, 4, "again"); err == nil {
		t.Fatal("expected a second review to fail")
	}
	if st.Requests.Error() != "A review already exists for this request" {
		t.Fatalf("expected the server message verbatim, got %q", st.Requests.Error())
	}
}

func TestActionRefusalSurfacesServerMessage(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusAssigned, &f.professional.ID)

	f.as(f.proTok)
	if _, err := st.Requests.FetchProfessionalRequests(); err != nil {
		t.Fatalf("FetchProfessionalRequests: %v", err)
	}

	// Completing straight from assigned skips the accept step.
	if err := st.Requests.Do(seeded.ID, models.ActionComplete); err == nil {
		t.Fatal("expected completing an assigned request to fail")
	}
	if st.Requests.Error() != "Cannot complete this request" {
		t.Fatalf("expected the server message verbatim, got %q", st.Requests.Error())
	}
	// The refused transition leaves the cached status alone.
	if r, _ := st.Requests.RequestByID(seeded.ID); r.ServiceStatus != models.StatusAssigned {
		t.Fatalf("refused transition mutated the cache: %s", r.ServiceStatus)
	}
}

func TestUnknownActionFailsBeforeNetwork(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusAssigned, &f.professional.ID)

	// No token installed: a network round-trip would fail with a 401 and
	// tear the session down, so reaching the validation error proves the
	// call never left the store.
	err := st.Requests.Do(seeded.ID, models.RequestAction("escalate"))
	if err == nil {
		t.Fatal("expected an unknown action to fail")
	}
	var vErr *api.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %T", err)
	}
	if st.Notifier.Current() != nil {
		t.Fatal("validation failure must not notify")
	}
}

func TestCloseRequiresCompletedStatus(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	seeded := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusRequested, nil)

	f.as(f.customerTok)
	if _, err := st.Requests.FetchCustomerRequests(); err != nil {
		t.Fatalf("FetchCustomerRequests: %v", err)
	}
	if err := st.Requests.CloseRequest(seeded.ID); err == nil {
		t.Fatal("expected closing a requested request to fail")
	}
	if st.Requests.Error() != "Can only close a completed request" {
		t.Fatalf("expected the server message verbatim, got %q", st.Requests.Error())
	}
}

func TestRequestStatusViews(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusRequested, nil)
	f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusAccepted, &f.professional.ID)
	f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusCompleted, &f.professional.ID)
	f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusClosed, &f.professional.ID)

	f.as(f.customerTok)
	if _, err := st.Requests.FetchCustomerRequests(); err != nil {
		t.Fatalf("FetchCustomerRequests: %v", err)
	}

	if got := len(st.Requests.PendingRequests()); got != 2 {
		t.Fatalf("expected 2 pending requests, got %d", got)
	}
	if got := len(st.Requests.CompletedRequests()); got != 2 {
		t.Fatalf("expected 2 terminal requests, got %d", got)
	}
	if got := len(st.Requests.RequestsByStatus(models.StatusAccepted)); got != 1 {
		t.Fatalf("expected 1 accepted request, got %d", got)
	}

	st.Requests.SetFilters(RequestFilters{Status: models.StatusClosed})
	if got := len(st.Requests.Filtered()); got != 1 {
		t.Fatalf("expected 1 closed request in the filtered view, got %d", got)
	}
	st.Requests.ClearFilters()
	if got := len(st.Requests.Filtered()); got != 4 {
		t.Fatalf("expected cleared filter to match everything, got %d", got)
	}
}

func TestAdminSearchAndUpdate(t *testing.T) {
	f := newLifecycleFixture(t)
	st := f.store

	f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusRequested, nil)
	target := f.server.SeedRequest(f.customer.ID, f.service.ID, models.StatusCompleted, &f.professional.ID)

	f.as(f.adminTok)
	if _, err := st.Requests.FetchAdminRequests(); err != nil {
		t.Fatalf("FetchAdminRequests: %v", err)
	}

	results, err := st.Requests.SearchRequests(models.RequestSearchParams{Status: "completed"})
	if err != nil {
		t.Fatalf("SearchRequests: %v", err)
	}
	if len(results) != 1 || results[0].ID != target.ID {
		t.Fatalf("expected only the completed request, got %+v", results)
	}
	// Search results do not replace the admin projection.
	if got := len(st.Requests.AdminRequests()); got != 2 {
		t.Fatalf("search replaced the admin projection, got %d", got)
	}

	remarks := "follow-up booked"
	if err := st.Requests.UpdateRequestAdmin(target.ID, models.ServiceRequestUpdate{Remarks: &remarks}); err != nil {
		t.Fatalf("UpdateRequestAdmin: %v", err)
	}
	if r, _ := st.Requests.RequestByID(target.ID); r.Remarks != remarks {
		t.Fatalf("remarks not patched: %q", r.Remarks)
	}
	server, _ := f.server.Request(target.ID)
	if server.Remarks != remarks {
		t.Fatalf("server remarks out of sync: %q", server.Remarks)
	}
}
