package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/pkg/util"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// ImageHandler handles catalog HTTP requests.
type ImageHandler struct {
	Service domain.ImageService
	cfg     *config.Config
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(svc domain.ImageService, cfg *config.Config) *ImageHandler {
	return &ImageHandler{Service: svc, cfg: cfg}
}

// Create handles POST /api/images (multipart form with an "image" file).
func (h *ImageHandler) Create(c *gin.Context) {
	userID, _ := util.GetUserID(c)

	var req domain.CreateImageRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file too large"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}

	resp, err := h.Service.Create(c.Request.Context(), req, data, fileHeader.Size, userID)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// FindAll handles GET /api/images with filtering and pagination.
func (h *ImageHandler) FindAll(c *gin.Context) {
	var query domain.ImageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.Service.FindAll(c.Request.Context(), query, util.GetUserIDPtr(c))
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserImages handles GET /api/images/my-images.
func (h *ImageHandler) GetUserImages(c *gin.Context) {
	userID, _ := util.GetUserID(c)
	var query domain.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.Service.GetUserImages(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats handles GET /api/images/stats.
func (h *ImageHandler) GetStats(c *gin.Context) {
	stats, err := h.Service.GetImageStats(c.Request.Context())
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetCategories handles GET /api/images/categories.
func (h *ImageHandler) GetCategories(c *gin.Context) {
	categories, err := h.Service.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetTrendingTags handles GET /api/images/trending-tags.
func (h *ImageHandler) GetTrendingTags(c *gin.Context) {
	var query domain.TrendingTagsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	tags, err := h.Service.GetTrendingTags(c.Request.Context(), query.Limit)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, tags)
}

// FindOne handles GET /api/images/:id.
func (h *ImageHandler) FindOne(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.Service.FindOne(c.Request.Context(), id, util.GetUserIDPtr(c))
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update handles PATCH /api/images/:id.
func (h *ImageHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := util.GetUserID(c)
	var req domain.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.Service.Update(c.Request.Context(), id, req, userID)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remove handles DELETE /api/images/:id.
func (h *ImageHandler) Remove(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := util.GetUserID(c)
	if err := h.Service.Remove(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// LikeImage handles POST /api/images/:id/like.
func (h *ImageHandler) LikeImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := util.GetUserID(c)
	result, err := h.Service.LikeImage(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, result)
}

// DownloadImage handles POST /api/images/:id/download.
func (h *ImageHandler) DownloadImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	url, err := h.Service.DownloadImage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.cfg.IsProduction())
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
