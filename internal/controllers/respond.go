package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_admin/internal/apperrors"
)

// respondError renders a classified error with its status. Validation and
// not-found messages reach the client verbatim; anything else is logged with
// full detail and surfaced as a generic message.
func respondError(c *gin.Context, err error) {
	var apiErr *apperrors.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			logrus.WithError(apiErr.Unwrap()).WithField("path", c.FullPath()).Error(apiErr.Message)
			c.JSON(apiErr.Status, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}

	logrus.WithError(err).WithField("path", c.FullPath()).Error("unclassified error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID parameter"})
		return 0, false
	}
	return uint(id), true
}
