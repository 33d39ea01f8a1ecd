package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by session tokens
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
