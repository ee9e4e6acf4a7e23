package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RefreshTokenValidity is how long a stored refresh token stays usable,
// counted from its issue time. Tokens past this window are pruned whenever
// a new one is appended.
const RefreshTokenValidity = 7 * 24 * time.Hour

// User is the credential-store record. Password always holds a bcrypt hash
// after the first persist; reset/verification token columns hold the SHA-256
// hex digest of the raw token, never the raw value.
type User struct {
	ID                       uint           `json:"id" gorm:"primaryKey"`
	Username                 string         `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email                    string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password                 string         `json:"-" gorm:"not null"`
	FirstName                string         `json:"firstName" gorm:"size:50;not null"`
	LastName                 string         `json:"lastName" gorm:"size:50;not null"`
	Avatar                   string         `json:"avatar,omitempty"`
	Role                     string         `json:"role" gorm:"size:16;default:user"`
	IsEmailVerified          bool           `json:"isEmailVerified" gorm:"default:false"`
	RefreshTokens            []RefreshToken `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PasswordResetToken       string         `json:"-"`
	PasswordResetExpires     *time.Time     `json:"-"`
	EmailVerificationToken   string         `json:"-"`
	EmailVerificationExpires *time.Time     `json:"-"`
	LastLogin                *time.Time     `json:"lastLogin,omitempty"`
	IsActive                 bool           `json:"isActive" gorm:"default:true"`
	CreatedAt                time.Time      `json:"createdAt"`
	UpdatedAt                time.Time      `json:"updatedAt"`
}

// RefreshToken is one entry of a user's active refresh-token list.
type RefreshToken struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:512;not null"`
	CreatedAt time.Time `json:"-"`
}

// UserSummary is the sanitized projection returned by auth and profile
// endpoints. No credentials, no token material.
type UserSummary struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Avatar          string `json:"avatar,omitempty"`
	Role            string `json:"role,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

// Summary strips credential and token fields from a user record.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Avatar:          u.Avatar,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
	}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
}

type LoginRequest struct {
	// Login accepts either an email address or a username.
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,min=1,max=50"`
	Avatar    *string `json:"avatar,omitempty"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	TokenPair
	User UserSummary `json:"user"`
}

// Pagination echoes the 1-indexed page math used by every listing endpoint.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// UserListQuery is the admin listing query string. Defaults apply at bind
// time, so explicit zero or negative values fail validation.
type UserListQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

type UserListResult struct {
	Users      []UserSummary `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

type UserStatsResponse struct {
	User  UserStatsProfile `json:"user"`
	Stats OwnerAggregates  `json:"stats"`
}

type UserStatsProfile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Avatar    string    `json:"avatar,omitempty"`
	JoinDate  time.Time `json:"joinDate"`
}

// OwnerAggregates are cross-entity totals over a user's uploaded images.
type OwnerAggregates struct {
	TotalImages    int64 `json:"totalImages"`
	TotalLikes     int64 `json:"totalLikes"`
	TotalDownloads int64 `json:"totalDownloads"`
}

// UserRepository owns User rows and their refresh-token list. Not-found
// lookups return ErrUserNotFound. Refresh-token operations are single
// statements so that concurrent logins/rotations never lose updates.
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByEmailOrUsername(email, username string) (*User, error)
	// FindByLogin matches the identifier against email or username.
	FindByLogin(login string) (*User, error)
	FindByPasswordResetToken(tokenHash string, now time.Time) (*User, error)
	FindByEmailVerificationToken(tokenHash string, now time.Time) (*User, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	AddRefreshToken(userID uint, token string) error
	RemoveRefreshToken(userID uint, token string) error
	HasRefreshToken(userID uint, token string, issuedAfter time.Time) (bool, error)
	PruneRefreshTokens(userID uint, issuedBefore time.Time) error
	FindAllActive(page, limit int) ([]*User, int64, error)
}

type AuthService interface {
	Register(req RegisterRequest) (*RegisterResponse, error)
	Login(req LoginRequest) (*LoginResponse, error)
	RefreshToken(rawRefreshToken string) (*TokenPair, error)
	ChangePassword(userID uint, req ChangePasswordRequest) error
	ForgotPassword(email string) error
	ResetPassword(req ResetPasswordRequest) error
	VerifyEmail(rawToken string) error
	Logout(userID uint, refreshToken string) error
}

type UserService interface {
	GetUserProfile(userID uint) (*User, error)
	UpdateProfile(userID uint, req UpdateProfileRequest) (*User, error)
	GetAllUsers(page, limit int) (*UserListResult, error)
	DeactivateUser(userID uint) error
	GetUserStats(userID uint) (*UserStatsResponse, error)
}
