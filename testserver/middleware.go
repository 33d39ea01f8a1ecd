package testserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"household-services-client/types"
)

// requireAuth validates the bearer token and, when roles are given,
// enforces that the caller holds one of them.
func (s *Server) requireAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &types.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		s.mu.Lock()
		account, ok := s.users[claims.UserID]
		s.mu.Unlock()
		if !ok || !account.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Account is not active"})
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
