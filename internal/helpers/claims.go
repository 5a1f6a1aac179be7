package helpers

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/sportsmeet/internal/models"
)

// CustomClaims accepts both the legacy session tokens, which carry the user
// id in "_id" with first and last names, and Supabase tokens, which use "sub"
// and keep names in user_metadata.
type CustomClaims struct {
	UserID       string         `json:"_id,omitempty"`
	Email        string         `json:"email,omitempty"`
	FirstName    string         `json:"firstName,omitempty"`
	LastName     string         `json:"lastName,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) Identity() models.Identity {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	name := models.DisplayName(c.FirstName, c.LastName)
	if name == "" {
		for _, key := range []string{"full_name", "fullname", "name", "username"} {
			if v, ok := c.UserMetadata[key].(string); ok && strings.TrimSpace(v) != "" {
				name = strings.TrimSpace(v)
				break
			}
		}
	}
	return models.Identity{UserID: id, Name: name, Email: c.Email}
}
