package store

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"household-services-client/api"
	"household-services-client/config"
	"household-services-client/models"
	"household-services-client/testserver"
)

// newAuthFixture exposes the config so a second store can share the
// same token file, which is how session restore happens across runs.
func newAuthFixture(t *testing.T) (*Store, *testserver.Server, *config.Config) {
	t.Helper()

	srv := testserver.New(testJWTSecret)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		API:  config.APIConfig{BaseURL: ts.URL, Timeout: 5 * time.Second},
		Auth: config.AuthConfig{TokenFile: filepath.Join(t.TempDir(), "token")},
		JWT:  config.JWTConfig{Secret: testJWTSecret, ExpiryHours: 24},
	}
	client := api.NewClient(ts.URL, cfg.API.Timeout)
	return New(cfg, client), srv, cfg
}

func TestLoginSuccess(t *testing.T) {
	st, srv, cfg := newAuthFixture(t)
	srv.SeedCustomer("asha", "password")

	user, err := st.Auth.Login("asha", "password", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "asha" || user.Role != models.RoleCustomer {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !st.Auth.IsAuthenticated() || !st.Auth.IsCustomer() {
		t.Fatal("expected an authenticated customer session")
	}
	if st.Client().Token() == "" {
		t.Fatal("expected the token installed on the client")
	}
	// Without remember-me nothing is persisted.
	if _, err := os.Stat(cfg.Auth.TokenFile); !os.IsNotExist(err) {
		t.Fatal("token persisted without remember-me")
	}

	n := st.Notifier.Current()
	if n == nil || n.Message != "Login successful. Welcome back!" {
		t.Fatalf("expected login notification, got %+v", n)
	}
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	st, srv, _ := newAuthFixture(t)
	srv.SeedCustomer("asha", "password")

	if _, err := st.Auth.Login("asha", "wrong", false); err == nil {
		t.Fatal("expected login with a wrong password to fail")
	}
	if st.Auth.Error() != "Invalid username or password" {
		t.Fatalf("expected the server message verbatim, got %q", st.Auth.Error())
	}
	if st.Auth.IsAuthenticated() {
		t.Fatal("failed login left a session behind")
	}
}

func TestRememberMePersistsAndRestoresSession(t *testing.T) {
	st, srv, cfg := newAuthFixture(t)
	srv.SeedCustomer("asha", "password")

	if _, err := st.Auth.Login("asha", "password", true); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := os.Stat(cfg.Auth.TokenFile); err != nil {
		t.Fatalf("expected a persisted token: %v", err)
	}

	// A fresh store over the same config restores the session.
	fresh := New(cfg, api.NewClient(cfg.API.BaseURL, cfg.API.Timeout))
	user := fresh.Auth.RestoreSession()
	if user == nil || user.Username != "asha" {
		t.Fatalf("expected the session restored, got %+v", user)
	}
	if !fresh.Auth.RememberMe() {
		t.Fatal("restored session should carry remember-me")
	}
}

func TestRestoreSessionDropsExpiredToken(t *testing.T) {
	st, srv, cfg := newAuthFixture(t)
	_, user := srv.SeedCustomer("asha", "password")

	expired := srv.ExpiredTokenFor(user)
	if err := os.WriteFile(cfg.Auth.TokenFile, []byte(expired), 0o600); err != nil {
		t.Fatalf("write token file: %v", err)
	}

	if got := st.Auth.RestoreSession(); got != nil {
		t.Fatalf("expected no session from an expired token, got %+v", got)
	}
	if st.Client().Token() != "" {
		t.Fatal("expired token installed on the client")
	}
	if _, err := os.Stat(cfg.Auth.TokenFile); !os.IsNotExist(err) {
		t.Fatal("expired token file not removed")
	}
}

func TestRestoreSessionDropsGarbageToken(t *testing.T) {
	st, _, cfg := newAuthFixture(t)

	if err := os.WriteFile(cfg.Auth.TokenFile, []byte("not-a-jwt"), 0o600); err != nil {
		t.Fatalf("write token file: %v", err)
	}
	if got := st.Auth.RestoreSession(); got != nil {
		t.Fatalf("expected no session from a garbage token, got %+v", got)
	}
	if _, err := os.Stat(cfg.Auth.TokenFile); !os.IsNotExist(err) {
		t.Fatal("garbage token file not removed")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	st, srv, cfg := newAuthFixture(t)
	srv.SeedCustomer("asha", "password")

	if _, err := st.Auth.Login("asha", "password", true); err != nil {
		t.Fatalf("Login: %v", err)
	}
	st.Auth.Logout()

	if st.Auth.IsAuthenticated() {
		t.Fatal("logout left a session behind")
	}
	if st.Client().Token() != "" {
		t.Fatal("logout left the token on the client")
	}
	if _, err := os.Stat(cfg.Auth.TokenFile); !os.IsNotExist(err) {
		t.Fatal("logout left the persisted token behind")
	}
}

func TestCheckAuthWithoutToken(t *testing.T) {
	st, _, _ := newAuthFixture(t)

	user, err := st.Auth.CheckAuth()
	if err != nil {
		t.Fatalf("CheckAuth: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user without a token, got %+v", user)
	}
}

func TestRegisterCustomer(t *testing.T) {
	st, _, _ := newAuthFixture(t)

	err := st.Auth.RegisterCustomer(models.CustomerRegistration{
		Username: "nisha",
		Email:    "nisha@example.com",
		Password: "secret",
		Address:  "12 Lake Road",
		PinCode:  "560001",
	})
	if err != nil {
		t.Fatalf("RegisterCustomer: %v", err)
	}

	if _, err := st.Auth.Login("nisha", "secret", false); err != nil {
		t.Fatalf("login after registration: %v", err)
	}

	// Duplicate usernames are refused with the server's message.
	err = st.Auth.RegisterCustomer(models.CustomerRegistration{
		Username: "nisha",
		Email:    "other@example.com",
		Password: "secret",
	})
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if st.Auth.Error() != "Username already exists" {
		t.Fatalf("expected the server message verbatim, got %q", st.Auth.Error())
	}
}

func TestRegistrationStepTracking(t *testing.T) {
	st, _, _ := newAuthFixture(t)

	if st.Auth.RegistrationStep() != 1 {
		t.Fatalf("expected wizard to start at step 1, got %d", st.Auth.RegistrationStep())
	}
	st.Auth.SetRegistrationStep(3)
	if st.Auth.RegistrationStep() != 3 {
		t.Fatal("step not updated")
	}
	st.Auth.ResetRegistration()
	if st.Auth.RegistrationStep() != 1 {
		t.Fatal("reset did not return to step 1")
	}
}
