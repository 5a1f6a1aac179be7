package models

import (
	"context"
	"strings"
)

// Identity is the authenticated caller, resolved from the bearer token.
type Identity struct {
	UserID string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.UserID) == ""
}

// UserSummary is the display projection of a user referenced by an event.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// UserDirectory resolves user ids to display projections. Unknown ids are
// absent from the result rather than reported as errors.
type UserDirectory interface {
	FindProfiles(ctx context.Context, ids []string) (map[string]UserSummary, error)
}

func DisplayName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
