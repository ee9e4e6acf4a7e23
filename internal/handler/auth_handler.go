package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/internal/service"
	"seungpyo.lee/Speceal/pkg/util"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	Service domain.AuthService
	cfg     *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc domain.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Service: svc, cfg: cfg}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.Service.Register(req)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.Service.Login(req)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh: rotates the presented refresh
// token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	pair, err := h.Service.RefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := util.GetUserID(c)
	var req domain.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Service.Logout(userID, req.RefreshToken); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, _ := util.GetUserID(c)
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Service.ChangePassword(userID, req); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ForgotPassword handles POST /api/auth/forgot-password. The response body
// is identical whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req domain.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Service.ForgotPassword(req.Email); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": service.ForgotPasswordMessage()})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Service.ResetPassword(req); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req domain.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Service.VerifyEmail(req.Token); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}
