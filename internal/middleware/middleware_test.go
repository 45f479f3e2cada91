package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authTestRouter(validator TokenValidator, role string) *gin.Engine {
	router := gin.New()
	router.GET("/protected", RequireRole(validator, role), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doAuth(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set(AuthorizationHeader, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	router := authTestRouter(func(string) (*UserInfo, error) {
		return &UserInfo{ID: 1, Role: "admin"}, nil
	}, "")

	w := doAuth(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BadScheme(t *testing.T) {
	router := authTestRouter(func(string) (*UserInfo, error) {
		return &UserInfo{ID: 1, Role: "admin"}, nil
	}, "")

	w := doAuth(router, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	router := authTestRouter(func(string) (*UserInfo, error) {
		return nil, errors.New("expired")
	}, "")

	w := doAuth(router, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RoleMismatch(t *testing.T) {
	router := authTestRouter(func(string) (*UserInfo, error) {
		return &UserInfo{ID: 1, Role: "viewer"}, nil
	}, "admin")

	w := doAuth(router, "Bearer token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuth_Success(t *testing.T) {
	router := authTestRouter(func(token string) (*UserInfo, error) {
		assert.Equal(t, "good-token", token)
		return &UserInfo{ID: 1, Username: "admin", Role: "admin"}, nil
	}, "admin")

	w := doAuth(router, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIPRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(IPRateLimit(1, 2))
	router.GET("/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// burst of 2 passes, the rest of the burst window is rejected
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}
