package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/joshua-takyi/sportsmeet/internal/services"
)

func SendEmail(m services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := helpers.CurrentIdentity(c); !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}

		var email services.Email
		if err := c.ShouldBindJSON(&email); err != nil {
			bindError(c, err)
			return
		}
		if err := m.Send(c.Request.Context(), email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Email sent"))
	}
}
