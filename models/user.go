package models

import "time"

// Role values returned by the auth endpoints
const (
	RoleAdmin        = "admin"
	RoleCustomer     = "customer"
	RoleProfessional = "professional"
)

// User represents an authenticated account of any role
type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest represents the credentials sent to /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the payload returned by /auth/login
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// CustomerRegistration represents the payload for /auth/register/customer
type CustomerRegistration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	PinCode  string `json:"pin_code"`
}
