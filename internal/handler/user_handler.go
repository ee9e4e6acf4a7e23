package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/pkg/util"
)

// UserHandler handles profile and admin HTTP requests.
type UserHandler struct {
	Service domain.UserService
	cfg     *config.Config
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc domain.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{Service: svc, cfg: cfg}
}

// GetProfile handles GET /api/users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := util.GetUserID(c)
	user, err := h.Service.GetUserProfile(userID)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := util.GetUserID(c)
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.Service.UpdateProfile(userID, req)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserStats handles GET /api/users/stats/:id.
func (h *UserHandler) GetUserStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	stats, err := h.Service.GetUserStats(id)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetAllUsers handles GET /api/users (admin only).
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	var query domain.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.Service.GetAllUsers(query.Page, query.Limit)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateUser handles PATCH /api/users/deactivate/:id (admin only).
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeactivateUser(id); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
