package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"seungpyo.lee/Speceal/internal/adapter"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/internal/util"
	"seungpyo.lee/Speceal/pkg/jwt"
)

const (
	passwordResetValidity     = 10 * time.Minute
	emailVerificationValidity = 24 * time.Hour
)

// forgotPasswordMessage is returned whether or not the email exists, so the
// endpoint never leaks account existence.
const forgotPasswordMessage = "If that email address is in our database, we will send you an email to reset your password."

// authService implements domain.AuthService using a UserRepository, the
// token manager and the mail adapter.
type authService struct {
	repo         domain.UserRepository
	tokenManager jwt.TokenManager
	email        adapter.EmailSender
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo domain.UserRepository, tokenManager jwt.TokenManager, email adapter.EmailSender) domain.AuthService {
	return &authService{repo: repo, tokenManager: tokenManager, email: email}
}

// Register creates a new user account, issues an email-verification token
// and mails its raw value. Email collisions are reported before username
// collisions.
func (s *authService) Register(req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	existing, err := s.repo.FindByEmailOrUsername(email, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.ErrUsernameTaken
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rawToken, err := util.GenerateRawToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expires := time.Now().Add(emailVerificationValidity)

	user := &domain.User{
		Username:                 username,
		Email:                    email,
		Password:                 hashedPassword,
		FirstName:                strings.TrimSpace(req.FirstName),
		LastName:                 strings.TrimSpace(req.LastName),
		Role:                     domain.RoleUser,
		IsActive:                 true,
		EmailVerificationToken:   util.HashToken(rawToken),
		EmailVerificationExpires: &expires,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.email.SendVerificationEmail(user.Email, rawToken); err != nil {
		return nil, err
	}

	return &domain.RegisterResponse{
		Message: "Registration successful. Please check your email to verify your account.",
		User:    user.Summary(),
	}, nil
}

// Login authenticates by email or username and mints a fresh token pair.
func (s *authService) Login(req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.repo.FindByLogin(strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := util.CheckPassword(user.Password, req.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.UpdateFields(user.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		return nil, err
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{TokenPair: *pair, User: user.Summary()}, nil
}

// generateTokenPair mints an access/refresh pair, appends the refresh token
// to the user's active list and prunes entries past their validity window.
func (s *authService) generateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	accessToken, refreshToken, err := s.tokenManager.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	if err := s.repo.AddRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}
	if err := s.repo.PruneRefreshTokens(user.ID, time.Now().Add(-domain.RefreshTokenValidity)); err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken rotates a refresh token: the presented token must verify
// against the refresh secret AND still be in the user's active list, which
// blocks replay of tokens already rotated out or revoked by logout.
func (s *authService) RefreshToken(rawRefreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenManager.ValidateRefreshToken(rawRefreshToken)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	cutoff := time.Now().Add(-domain.RefreshTokenValidity)
	active, err := s.repo.HasRefreshToken(user.ID, rawRefreshToken, cutoff)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrInvalidRefreshToken
	}

	if err := s.repo.RemoveRefreshToken(user.ID, rawRefreshToken); err != nil {
		return nil, err
	}
	return s.generateTokenPair(user)
}

// ChangePassword replaces the password after checking the current one.
func (s *authService) ChangePassword(userID uint, req domain.ChangePasswordRequest) error {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return err
	}
	if err := util.CheckPassword(user.Password, req.CurrentPassword); err != nil {
		return domain.ErrCurrentPasswordIncorrect
	}

	hashedPassword, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdateFields(user.ID, map[string]interface{}{"password": hashedPassword})
}

// ForgotPassword issues a reset token when the account exists. Callers
// always receive the same acknowledgement either way; see
// ForgotPasswordMessage.
func (s *authService) ForgotPassword(email string) error {
	user, err := s.repo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	rawToken, err := util.GenerateRawToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expires := time.Now().Add(passwordResetValidity)
	err = s.repo.UpdateFields(user.ID, map[string]interface{}{
		"password_reset_token":   util.HashToken(rawToken),
		"password_reset_expires": expires,
	})
	if err != nil {
		return err
	}

	return s.email.SendPasswordResetEmail(user.Email, rawToken)
}

// ForgotPasswordMessage is the uniform acknowledgement for forgot-password
// requests.
func ForgotPasswordMessage() string { return forgotPasswordMessage }

// ResetPassword consumes a reset token and sets the new password.
func (s *authService) ResetPassword(req domain.ResetPasswordRequest) error {
	user, err := s.repo.FindByPasswordResetToken(util.HashToken(req.Token), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdateFields(user.ID, map[string]interface{}{
		"password":               hashedPassword,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	})
}

// VerifyEmail consumes a verification token and marks the email verified.
func (s *authService) VerifyEmail(rawToken string) error {
	user, err := s.repo.FindByEmailVerificationToken(util.HashToken(rawToken), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidVerificationToken
		}
		return err
	}
	return s.repo.UpdateFields(user.ID, map[string]interface{}{
		"is_email_verified":          true,
		"email_verification_token":   "",
		"email_verification_expires": nil,
	})
}

// Logout removes the given refresh token from the user's active list. A
// missing user or token is a no-op.
func (s *authService) Logout(userID uint, refreshToken string) error {
	if err := s.repo.RemoveRefreshToken(userID, refreshToken); err != nil {
		return err
	}
	return nil
}
