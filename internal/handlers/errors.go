package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/joshua-takyi/sportsmeet/internal/services"
)

// respondError maps domain errors to status codes. Unexpected errors are
// attached to the context for the error middleware to log and are reported
// with a generic message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrEventNotFound), errors.Is(err, models.ErrParentCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyAttending):
		status = http.StatusConflict
	case errors.Is(err, services.ErrEmailDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, models.ErrorResponse("internal server error"))
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request body: "+err.Error()))
}
