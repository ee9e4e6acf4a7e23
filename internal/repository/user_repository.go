package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"seungpyo.lee/Speceal/internal/domain"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository with the given GORM DB instance.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database.
func (r *userRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByEmailOrUsername retrieves a user matching either identity field.
// Used by registration to detect collisions in one combined lookup.
func (r *userRepository) FindByEmailOrUsername(email, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ? OR username = ?", email, username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByLogin matches the identifier against email (case-insensitive) or
// username (exact).
func (r *userRepository) FindByLogin(login string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = LOWER(?) OR username = ?", login, login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByPasswordResetToken retrieves a user with a matching, non-expired
// reset-token hash.
func (r *userRepository) FindByPasswordResetToken(tokenHash string, now time.Time) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("password_reset_token = ? AND password_reset_expires > ?", tokenHash, now).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByEmailVerificationToken retrieves a user with a matching, non-expired
// verification-token hash.
func (r *userRepository) FindByEmailVerificationToken(tokenHash string, now time.Time) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("email_verification_token = ? AND email_verification_expires > ?", tokenHash, now).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateFields patches the given columns on one user row.
func (r *userRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AddRefreshToken appends a token to the user's active list.
func (r *userRepository) AddRefreshToken(userID uint, token string) error {
	rt := domain.RefreshToken{UserID: userID, Token: token}
	if err := r.db.Create(&rt).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// RemoveRefreshToken deletes one token from the user's active list.
// Removing an absent token is a no-op.
func (r *userRepository) RemoveRefreshToken(userID uint, token string) error {
	err := r.db.Where("user_id = ? AND token = ?", userID, token).Delete(&domain.RefreshToken{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove refresh token: %w", err)
	}
	return nil
}

// HasRefreshToken reports whether the token is in the user's active list
// and was issued after the given cutoff.
func (r *userRepository) HasRefreshToken(userID uint, token string, issuedAfter time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&domain.RefreshToken{}).
		Where("user_id = ? AND token = ? AND created_at > ?", userID, token, issuedAfter).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return count > 0, nil
}

// PruneRefreshTokens drops tokens issued before the cutoff.
func (r *userRepository) PruneRefreshTokens(userID uint, issuedBefore time.Time) error {
	err := r.db.Where("user_id = ? AND created_at < ?", userID, issuedBefore).Delete(&domain.RefreshToken{}).Error
	if err != nil {
		return fmt.Errorf("failed to prune refresh tokens: %w", err)
	}
	return nil
}

// FindAllActive returns active users newest-first with the total count.
func (r *userRepository) FindAllActive(page, limit int) ([]*domain.User, int64, error) {
	var total int64
	if err := r.db.Model(&domain.User{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*domain.User
	err := r.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
