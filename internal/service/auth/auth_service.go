package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"gamerent/internal/model"
	"gamerent/internal/repository"
	"gamerent/internal/utils"
	"gamerent/pkg/log"
)

// LoginRequest login request
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// ChangePasswordRequest change password request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// TokenResponse token response
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
	Username     string `json:"username"`
}

var (
	// ErrInvalidCredentials is returned for a bad username/password pair
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSetupComplete is returned when a second admin setup is attempted
	ErrSetupComplete = errors.New("admin account already configured")
	// ErrSetupRequired is returned when login happens before first setup
	ErrSetupRequired = errors.New("admin account not configured")
	// ErrTokenRevoked is returned for tokens invalidated by logout
	ErrTokenRevoked = errors.New("token has been revoked")
)

// AuthService manages the single admin account and its sessions
type AuthService interface {
	// NeedsSetup reports whether no admin account exists yet
	NeedsSetup(ctx context.Context) (bool, error)

	// Setup creates the initial admin account. Fails once one exists.
	Setup(ctx context.Context, req *LoginRequest) (*TokenResponse, error)

	// Login authenticates the admin
	Login(ctx context.Context, req *LoginRequest, ip string) (*TokenResponse, error)

	// Logout revokes the given access token until it would have expired
	Logout(ctx context.Context, token string) error

	// ValidateToken checks signature, expiry and the revocation list
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)

	// RefreshToken exchanges a refresh token for a fresh token pair
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)

	// ChangePassword rotates the admin password
	ChangePassword(ctx context.Context, userID uint64, req *ChangePasswordRequest) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	redis      *redis.Client
}

// NewAuthService creates an authentication service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	redisClient *redis.Client,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		redis:      redisClient,
	}
}

func (s *authService) NeedsSetup(ctx context.Context) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admin users: %w", err)
	}
	return count == 0, nil
}

func (s *authService) Setup(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	needsSetup, err := s.NeedsSetup(ctx)
	if err != nil {
		return nil, err
	}
	if !needsSetup {
		return nil, ErrSetupComplete
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.AdminUser{
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.WithError(err).Error("create admin account failed")
		return nil, fmt.Errorf("create admin account: %w", err)
	}

	log.WithField("username", user.Username).Info("Admin account created")
	return s.issueTokens(user)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest, ip string) (*TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			needsSetup, serr := s.NeedsSetup(ctx)
			if serr == nil && needsSetup {
				return nil, ErrSetupRequired
			}
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("load admin account failed")
		return nil, fmt.Errorf("load admin account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.WithFields(map[string]interface{}{
			"username": req.Username,
			"ip":       ip,
		}).Warn("Login rejected")
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, ip); err != nil {
		// login still succeeds, the audit column is best effort
		log.WithError(err).Warn("update last login failed")
	}

	log.WithFields(map[string]interface{}{
		"username": user.Username,
		"ip":       ip,
	}).Info("Admin logged in")

	return s.issueTokens(user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		// already unusable, nothing to revoke
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, s.denylistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	log.WithField("username", claims.Username).Info("Admin logged out")
	return nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	n, err := s.redis.Exists(ctx, s.denylistKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if n > 0 {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.ValidateToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID uint64, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	log.WithField("username", user.Username).Info("Admin password changed")
	return nil
}

func (s *authService) issueTokens(user *model.AdminUser) (*TokenResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessExpire().Seconds()),
		TokenType:    "Bearer",
		Username:     user.Username,
	}, nil
}

// denylistKey hashes the token so raw JWTs never land in Redis
func (s *authService) denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:denylist:" + hex.EncodeToString(sum[:])
}
