package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/Speceal/internal/domain"
)

var errorStatus = map[error]int{
	domain.ErrEmailTaken:    http.StatusConflict,
	domain.ErrUsernameTaken: http.StatusConflict,

	domain.ErrInvalidCredentials:  http.StatusUnauthorized,
	domain.ErrInvalidRefreshToken: http.StatusUnauthorized,

	domain.ErrPrivateImage:    http.StatusForbidden,
	domain.ErrNotImageOwner:   http.StatusForbidden,
	domain.ErrPrivateDownload: http.StatusForbidden,

	domain.ErrUserNotFound:  http.StatusNotFound,
	domain.ErrImageNotFound: http.StatusNotFound,

	domain.ErrUploadFailed:             http.StatusBadRequest,
	domain.ErrCurrentPasswordIncorrect: http.StatusBadRequest,
	domain.ErrInvalidResetToken:        http.StatusBadRequest,
	domain.ErrInvalidVerificationToken: http.StatusBadRequest,
	domain.ErrInvalidCategory:          http.StatusBadRequest,
}

// respondError maps domain sentinels onto their HTTP statuses. Anything
// unclassified becomes a generic server error; the underlying error text is
// exposed only outside production.
func respondError(c *gin.Context, err error, production bool) {
	for sentinel, status := range errorStatus {
		if errors.Is(err, sentinel) {
			c.JSON(status, gin.H{
				"statusCode": status,
				"message":    sentinel.Error(),
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
	}

	body := gin.H{
		"statusCode": http.StatusInternalServerError,
		"message":    "Internal server error",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
	}
	if !production {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"statusCode": http.StatusBadRequest,
		"message":    err.Error(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// parseIDParam reads a numeric path parameter, writing the 400 itself on
// failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
