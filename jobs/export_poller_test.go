package jobs

import (
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"household-services-client/api"
	"household-services-client/config"
	"household-services-client/models"
	"household-services-client/store"
	"household-services-client/testserver"
)

func newPollerFixture(t *testing.T) (*store.Store, *testserver.Server) {
	t.Helper()

	srv := testserver.New("test-secret")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		API:  config.APIConfig{BaseURL: ts.URL, Timeout: 5 * time.Second},
		Auth: config.AuthConfig{TokenFile: filepath.Join(t.TempDir(), "token")},
		JWT:  config.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
	}
	st := store.New(cfg, api.NewClient(ts.URL, cfg.API.Timeout))

	admin := srv.SeedAdmin("admin", "admin123")
	st.Client().SetToken(srv.TokenFor(admin))
	return st, srv
}

func TestExportPollerReachesCompletion(t *testing.T) {
	st, _ := newPollerFixture(t)

	jobID, err := st.Reports.ExportServiceRequests(0, "all", "admin@example.com")
	if err != nil {
		t.Fatalf("ExportServiceRequests: %v", err)
	}

	var mu sync.Mutex
	var updates []models.ExportJob
	done := make(chan struct{})

	poller := NewExportPoller(st.Reports, jobID, 10*time.Millisecond)
	poller.OnUpdate = func(job models.ExportJob) {
		mu.Lock()
		updates = append(updates, job)
		mu.Unlock()
		if job.Status.Terminal() {
			close(done)
		}
	}
	poller.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not reach a terminal state")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(updates) == 0 {
		t.Fatal("no updates observed")
	}
	prev := -1
	for _, job := range updates {
		if job.Progress < prev {
			t.Fatalf("progress went backwards: %d after %d", job.Progress, prev)
		}
		prev = job.Progress
	}
	final := updates[len(updates)-1]
	if final.Status != models.ExportCompleted || final.Progress != 100 {
		t.Fatalf("unexpected final state: %+v", final)
	}
	if st.Reports.ExportStatus() != models.ExportCompleted {
		t.Fatalf("store status out of sync: %s", st.Reports.ExportStatus())
	}
}

func TestExportPollerStop(t *testing.T) {
	st, _ := newPollerFixture(t)

	jobID, err := st.Reports.GenerateAdminReport("revenue", "admin@example.com")
	if err != nil {
		t.Fatalf("GenerateAdminReport: %v", err)
	}

	poller := NewExportPoller(st.Reports, jobID, time.Hour)
	poller.Start()
	poller.Stop()

	// The job was never polled, so it is still processing.
	time.Sleep(50 * time.Millisecond)
	if st.Reports.ExportStatus() != models.ExportProcessing {
		t.Fatalf("stopped poller advanced the job: %s", st.Reports.ExportStatus())
	}

	// Stop is idempotent.
	poller.Stop()
}
