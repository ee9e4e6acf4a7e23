package domain

import "errors"

// Sentinel errors for the request-terminal failure taxonomy. Handlers map
// these onto HTTP statuses; everything else is a generic server error.
var (
	// Conflict
	ErrEmailTaken    = errors.New("Email already registered")
	ErrUsernameTaken = errors.New("Username already taken")

	// Unauthorized
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")

	// Forbidden
	ErrPrivateImage    = errors.New("Access denied to private image")
	ErrNotImageOwner   = errors.New("You can only modify your own images")
	ErrPrivateDownload = errors.New("Cannot download private image")

	// NotFound
	ErrUserNotFound  = errors.New("User not found")
	ErrImageNotFound = errors.New("Image not found")

	// BadRequest
	ErrUploadFailed             = errors.New("Failed to upload image")
	ErrCurrentPasswordIncorrect = errors.New("Current password is incorrect")
	ErrInvalidResetToken        = errors.New("Invalid or expired reset token")
	ErrInvalidVerificationToken = errors.New("Invalid or expired verification token")
	ErrInvalidCategory          = errors.New("Invalid image category")
)
