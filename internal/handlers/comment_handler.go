package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/joshua-takyi/sportsmeet/internal/services"
)

type CommentService interface {
	AddComment(ctx context.Context, caller models.Identity, eventID string, input services.AddCommentInput) ([]models.RootComment, error)
}

func AddComment(cs CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := helpers.CurrentIdentity(c)
		if !ok {
			respondError(c, models.ErrUnauthenticated)
			return
		}

		var input services.AddCommentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		comments, err := cs.AddComment(c.Request.Context(), caller, c.Param("id"), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"comments": comments}, "Comment added"))
	}
}
