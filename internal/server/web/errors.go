package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avagyans/filegate/internal/common"
)

// writeError maps service errors onto HTTP statuses. Raw error text from
// lower layers never reaches the client; only the sentinel category does.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorExpired):
		c.JSON(http.StatusGone, gin.H{"error": "expired"})
	case errors.Is(err, common.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrUserInactive):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func denied(c *gin.Context) {
	writeError(c, common.ErrorPermissionDenied)
}
