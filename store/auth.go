package store

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"household-services-client/api"
	"household-services-client/config"
	"household-services-client/models"
	"household-services-client/types"
)

// AuthStore tracks the current session: the authenticated user, the
// remember-me flag and the registration wizard step. The token itself
// lives on the API client so every request picks it up.
type AuthStore struct {
	cfg      *config.Config
	client   *api.Client
	notifier *Notifier

	user             *models.User
	rememberMe       bool
	registrationStep int
	loading          bool
	err              string
}

func NewAuthStore(cfg *config.Config, client *api.Client, notifier *Notifier) *AuthStore {
	return &AuthStore{
		cfg:              cfg,
		client:           client,
		notifier:         notifier,
		registrationStep: 1,
	}
}

// Login authenticates against /auth/login and installs the returned
// token. The token is persisted to disk only when rememberMe is set.
func (s *AuthStore) Login(username, password string, rememberMe bool) (*models.User, error) {
	s.loading = true
	s.err = ""
	s.rememberMe = rememberMe
	defer func() { s.loading = false }()

	var resp models.LoginResponse
	err := s.client.Post("/auth/login", models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		s.fail(err, "Login failed. Please check your credentials.")
		return nil, err
	}

	s.user = &resp.User
	s.client.SetToken(resp.Token)
	if rememberMe {
		s.persistToken(resp.Token)
	}

	s.notifier.Success("Login successful. Welcome back!")
	return s.user, nil
}

// RegisterCustomer submits a customer registration.
func (s *AuthStore) RegisterCustomer(reg models.CustomerRegistration) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	if err := s.client.Post("/auth/register/customer", reg, nil); err != nil {
		s.fail(err, "Registration failed. Please try again.")
		return err
	}

	s.notifier.Success("Registration successful! You can now log in.")
	return nil
}

// RegisterProfessional submits a professional registration as a
// multipart form (profile fields plus document references).
func (s *AuthStore) RegisterProfessional(fields map[string]string) error {
	s.loading = true
	s.err = ""
	defer func() { s.loading = false }()

	if err := s.client.PostMultipart("/auth/register/professional", fields, nil); err != nil {
		s.fail(err, "Registration failed. Please try again.")
		return err
	}

	s.notifier.Success("Registration successful! Your account will be reviewed by an administrator.")
	return nil
}

// CheckAuth resolves the user behind the installed token. Failures
// clear the session instead of surfacing an error message.
func (s *AuthStore) CheckAuth() (*models.User, error) {
	if s.client.Token() == "" {
		s.clearSession()
		return nil, nil
	}
	if s.user != nil {
		return s.user, nil
	}

	s.loading = true
	defer func() { s.loading = false }()

	var user models.User
	if err := s.client.Get("/auth/user-info", &user); err != nil {
		log.Printf("authentication check failed: %v", err)
		s.clearSession()
		return nil, err
	}
	s.user = &user
	return s.user, nil
}

// RestoreSession loads a persisted token, discards it locally when its
// JWT expiry has already passed, and otherwise validates it against the
// server. Returns the restored user, or nil when no session survives.
func (s *AuthStore) RestoreSession() *models.User {
	data, err := os.ReadFile(s.cfg.Auth.TokenFile)
	if err != nil {
		return nil
	}
	token := string(data)

	claims := &types.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.dropPersistedToken()
		return nil
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		log.Printf("persisted token expired at %s, dropping it", claims.ExpiresAt.Format(time.RFC3339))
		s.dropPersistedToken()
		return nil
	}

	s.client.SetToken(token)
	s.rememberMe = true
	user, err := s.CheckAuth()
	if err != nil {
		return nil
	}
	return user
}

// Logout ends the session. Local state is cleared even when the server
// call fails.
func (s *AuthStore) Logout() {
	s.loading = true
	defer func() { s.loading = false }()

	if err := s.client.Post("/auth/logout", nil, nil); err != nil {
		log.Printf("logout request failed: %v", err)
	}
	s.clearSession()
	s.notifier.Success("You have been logged out successfully.")
}

func (s *AuthStore) clearSession() {
	s.user = nil
	s.client.ClearToken()
	s.dropPersistedToken()
}

func (s *AuthStore) persistToken(token string) {
	dir := filepath.Dir(s.cfg.Auth.TokenFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Printf("failed to create token directory: %v", err)
		return
	}
	if err := os.WriteFile(s.cfg.Auth.TokenFile, []byte(token), 0o600); err != nil {
		log.Printf("failed to persist token: %v", err)
	}
}

func (s *AuthStore) dropPersistedToken() {
	if err := os.Remove(s.cfg.Auth.TokenFile); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove persisted token: %v", err)
	}
}

func (s *AuthStore) fail(err error, fallback string) {
	msg := api.ServerMessage(err, fallback)
	s.err = msg
	s.notifier.Error(msg)
}

func (s *AuthStore) User() *models.User {
	return s.user
}

func (s *AuthStore) IsAuthenticated() bool {
	return s.user != nil
}

func (s *AuthStore) Role() string {
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

func (s *AuthStore) IsAdmin() bool {
	return s.Role() == models.RoleAdmin
}

func (s *AuthStore) IsProfessional() bool {
	return s.Role() == models.RoleProfessional
}

func (s *AuthStore) IsCustomer() bool {
	return s.Role() == models.RoleCustomer
}

func (s *AuthStore) Loading() bool {
	return s.loading
}

func (s *AuthStore) Error() string {
	return s.err
}

func (s *AuthStore) ClearError() {
	s.err = ""
}

func (s *AuthStore) RememberMe() bool {
	return s.rememberMe
}

func (s *AuthStore) SetRememberMe(value bool) {
	s.rememberMe = value
}

func (s *AuthStore) RegistrationStep() int {
	return s.registrationStep
}

func (s *AuthStore) SetRegistrationStep(step int) {
	s.registrationStep = step
}

func (s *AuthStore) ResetRegistration() {
	s.registrationStep = 1
}
