package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gamerent/internal/model"
)

// UserRepository admin account repository interface
type UserRepository interface {
	// Create admin account
	Create(ctx context.Context, user *model.AdminUser) error

	// Get admin by ID
	GetByID(ctx context.Context, id uint64) (*model.AdminUser, error)

	// Get admin by username
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)

	// Count admin accounts
	Count(ctx context.Context) (int64, error)

	// Update password hash
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	// Record last login
	UpdateLastLogin(ctx context.Context, id uint64, ip string) error
}

// userRepository admin account repository implementation
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates an admin account
func (r *userRepository) Create(ctx context.Context, user *model.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets an admin by ID
func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets an admin by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Count counts admin accounts
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AdminUser{}).Count(&count).Error
	return count, err
}

// UpdatePassword updates the password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.AdminUser{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// UpdateLastLogin records the last login time and IP
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint64, ip string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": &now,
			"last_login_ip": ip,
		}).Error
}
