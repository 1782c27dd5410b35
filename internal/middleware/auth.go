package middleware

import (
	"strings"

	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	MemberIDKey = "member_id"
	UsernameKey = "username"
)

func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(MemberIDKey, claims.MemberID)
		c.Set(UsernameKey, claims.Username)

		c.Next()
	}
}

// GetMemberID returns the authenticated member, or 0 outside of Auth.
func GetMemberID(c *drift.Context) int64 {
	if id, ok := c.Get(MemberIDKey); ok {
		if mid, ok := id.(int64); ok {
			return mid
		}
	}
	return 0
}

func GetUsername(c *drift.Context) string {
	if username, ok := c.Get(UsernameKey); ok {
		if u, ok := username.(string); ok {
			return u
		}
	}
	return ""
}
