package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/joshua-takyi/sportsmeet/internal/services"
)

type EventService interface {
	CreateEvent(ctx context.Context, caller models.Identity, input services.CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.EventView, error)
	ListEvents(ctx context.Context, categories, times string) ([]*models.EventView, error)
	UpdateEvent(ctx context.Context, caller models.Identity, id string, patch models.EventPatch) (*models.Event, error)
	DeleteEvent(ctx context.Context, caller models.Identity, id string) error
	Locations(ctx context.Context) ([]models.LocationSummary, error)
}

func ListEvents(es EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.ListEvents(c.Request.Context(), c.Query("category"), c.Query("time"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func GetEvent(es EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func CreateEvent(es EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := helpers.CurrentIdentity(c)
		if !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}

		var input services.CreateEventInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), caller, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func UpdateEvent(es EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := helpers.CurrentIdentity(c)
		if !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}

		var patch models.EventPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			bindError(c, err)
			return
		}

		event, err := es.UpdateEvent(c.Request.Context(), caller, c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

func DeleteEvent(es EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := helpers.CurrentIdentity(c)
		if !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}
		if err := es.DeleteEvent(c.Request.Context(), caller, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted successfully"))
	}
}

func LocationsMap(es EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		locations, err := es.Locations(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(locations, ""))
	}
}
