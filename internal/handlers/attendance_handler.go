package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/models"
)

type AttendanceService interface {
	Attend(ctx context.Context, caller models.Identity, eventID string) ([]string, error)
	Unattend(ctx context.Context, caller models.Identity, eventID string) ([]string, error)
}

func AttendEvent(as AttendanceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := helpers.CurrentIdentity(c)
		if !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}
		attendees, err := as.Attend(c.Request.Context(), caller, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"attendees": attendees}, "Attending event"))
	}
}

func UnattendEvent(as AttendanceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := helpers.CurrentIdentity(c)
		if !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}
		attendees, err := as.Unattend(c.Request.Context(), caller, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"attendees": attendees}, "No longer attending event"))
	}
}
