package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"gamerent/internal/middleware"
	"gamerent/internal/service/auth"
	"gamerent/pkg/utils"
)

// AuthHandler admin authentication handler
type AuthHandler struct {
	authService auth.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(authService auth.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CheckSetup reports whether the initial admin account still needs creating
func (h *AuthHandler) CheckSetup(c *gin.Context) {
	needsSetup, err := h.authService.NeedsSetup(c.Request.Context())
	if err != nil {
		utils.Error(c, utils.CodeInternalError, "Failed to check setup state")
		return
	}

	utils.SuccessResponse(c, gin.H{"needsSetup": needsSetup})
}

// Setup creates the initial admin account and logs it in
func (h *AuthHandler) Setup(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	tokens, err := h.authService.Setup(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrSetupComplete) {
			utils.Error(c, utils.CodeForbidden, "Admin account already configured")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Setup failed")
		return
	}

	utils.CreatedResponse(c, tokens)
}

// Login authenticates the admin
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSetupRequired):
			utils.Error(c, utils.CodeForbidden, "Admin account not configured")
		case errors.Is(err, auth.ErrInvalidCredentials):
			utils.Error(c, utils.CodeUnauthorized, "Invalid username or password")
		default:
			utils.Error(c, utils.CodeInternalError, "Login failed")
		}
		return
	}

	utils.SuccessResponse(c, tokens)
}

// Logout revokes the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		utils.Error(c, utils.CodeUnauthorized, "Missing token")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		utils.Error(c, utils.CodeInternalError, "Logout failed")
		return
	}

	utils.SuccessResponse(c, gin.H{"loggedOut": true})
}

// Validate confirms the presented token is still usable
func (h *AuthHandler) Validate(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		utils.Error(c, utils.CodeUnauthorized, "Missing token")
		return
	}

	claims, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		utils.Error(c, utils.CodeUnauthorized, "Invalid token")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"valid":    true,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.Error(c, utils.CodeUnauthorized, "Invalid refresh token")
		return
	}

	utils.SuccessResponse(c, tokens)
}

// ChangePassword rotates the authenticated admin's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.Error(c, utils.CodeUnauthorized, "Unauthorized")
		return
	}

	var req auth.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.Error(c, utils.CodeUnauthorized, "Current password is incorrect")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to change password")
		return
	}

	utils.SuccessResponse(c, gin.H{"changed": true})
}

// TokenValidator adapts the auth service into the middleware contract
func (h *AuthHandler) TokenValidator() middleware.TokenValidator {
	return func(token string) (*middleware.UserInfo, error) {
		claims, err := h.authService.ValidateToken(context.Background(), token)
		if err != nil {
			return nil, err
		}
		return &middleware.UserInfo{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		}, nil
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(middleware.AuthorizationHeader)
	if !strings.HasPrefix(header, middleware.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, middleware.BearerPrefix)
}
