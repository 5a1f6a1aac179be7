package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventView is an event with its user references resolved for display.
type EventView struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Category      Category           `json:"category"`
	Image         string             `json:"image,omitempty"`
	Description   string             `json:"description"`
	Date          time.Time          `json:"date"`
	Location      string             `json:"location"`
	Latitude      *float64           `json:"latitude,omitempty"`
	Longitude     *float64           `json:"longitude,omitempty"`
	MinPlayers    *int               `json:"minPlayers,omitempty"`
	MaxPlayers    *int               `json:"maxPlayers,omitempty"`
	CreatedBy     UserSummary        `json:"createdBy"`
	CreatedByName string             `json:"createdByName,omitempty"`
	Attendees     []UserSummary      `json:"attendees"`
	Comments      *[]RootCommentView `json:"comments,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type RootCommentView struct {
	ID            primitive.ObjectID `json:"id"`
	User          *UserSummary       `json:"user,omitempty"`
	Text          string             `json:"text,omitempty"`
	ChildComments []ChildCommentView `json:"childComments"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type ChildCommentView struct {
	ID        primitive.ObjectID `json:"id"`
	User      *UserSummary       `json:"user,omitempty"`
	Text      string             `json:"text,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// NewEventView projects e using the resolved users. Comments are included only
// when children is non-nil, and then always serialize, even as []. Child ids
// missing from children are skipped.
func NewEventView(e *Event, users map[string]UserSummary, children map[primitive.ObjectID]*ChildComment) EventView {
	v := EventView{
		ID:            e.ID,
		Title:         e.Title,
		Category:      e.Category,
		Image:         e.Image,
		Description:   e.Description,
		Date:          e.Date,
		Location:      e.Location,
		Latitude:      e.Latitude,
		Longitude:     e.Longitude,
		MinPlayers:    e.MinPlayers,
		MaxPlayers:    e.MaxPlayers,
		CreatedBy:     lookupUser(users, e.CreatedBy),
		CreatedByName: e.CreatedByName,
		Attendees:     make([]UserSummary, 0, len(e.Attendees)),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	for _, id := range e.Attendees {
		v.Attendees = append(v.Attendees, lookupUser(users, id))
	}
	if children == nil {
		return v
	}

	comments := make([]RootCommentView, 0, len(e.Comments))
	for _, c := range e.Comments {
		rv := RootCommentView{
			ID:            c.ID,
			User:          optionalUser(users, c.User),
			Text:          c.Text,
			ChildComments: make([]ChildCommentView, 0, len(c.ChildComments)),
			CreatedAt:     c.CreatedAt,
		}
		for _, childID := range c.ChildComments {
			child, ok := children[childID]
			if !ok {
				continue
			}
			rv.ChildComments = append(rv.ChildComments, ChildCommentView{
				ID:        child.ID,
				User:      optionalUser(users, child.User),
				Text:      child.Text,
				CreatedAt: child.CreatedAt,
			})
		}
		comments = append(comments, rv)
	}
	v.Comments = &comments
	return v
}

func lookupUser(users map[string]UserSummary, id string) UserSummary {
	if u, ok := users[id]; ok {
		u.ID = id
		return u
	}
	return UserSummary{ID: id}
}

func optionalUser(users map[string]UserSummary, id string) *UserSummary {
	if id == "" {
		return nil
	}
	u := lookupUser(users, id)
	return &u
}
