package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"gamerent/pkg/utils"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	// UserIDKey is the context key holding the authenticated admin's ID
	UserIDKey = "user_id"
	// UsernameKey is the context key holding the authenticated admin's username
	UsernameKey = "username"
	// UserRoleKey is the context key holding the authenticated admin's role
	UserRoleKey = "user_role"
)

// UserInfo carries the identity extracted from a validated token
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenValidator validates a bearer token and returns the identity it encodes
type TokenValidator func(token string) (*UserInfo, error)

// Auth requires a valid bearer token on every request
func Auth(validator TokenValidator) gin.HandlerFunc {
	return RequireRole(validator, "")
}

// RequireRole requires a valid bearer token carrying the given role.
// An empty role only checks authentication.
func RequireRole(validator TokenValidator, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			utils.Error(c, utils.CodeUnauthorized, "Missing authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			utils.Error(c, utils.CodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, BearerPrefix)
		if token == "" {
			utils.Error(c, utils.CodeUnauthorized, "Missing token")
			c.Abort()
			return
		}

		userInfo, err := validator(token)
		if err != nil {
			utils.Error(c, utils.CodeUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		if role != "" && userInfo.Role != role {
			utils.Error(c, utils.CodeForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userInfo.ID)
		c.Set(UsernameKey, userInfo.Username)
		c.Set(UserRoleKey, userInfo.Role)

		c.Next()
	}
}

// GetUserID returns the authenticated admin's ID from the context
func GetUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// GetUsername returns the authenticated admin's username from the context
func GetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
