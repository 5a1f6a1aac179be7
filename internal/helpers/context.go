package helpers

import (
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/models"
)

const (
	UserContextKey      = "user"
	RequestIDContextKey = "request_id"
)

// CurrentIdentity returns the caller stored by the auth middleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(UserContextKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(*models.Identity)
	if !ok || identity == nil || identity.IsZero() {
		return models.Identity{}, false
	}
	return *identity, true
}
