package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryFootball  Category = "Football"
	CategoryBadminton Category = "Badminton"
	CategoryTennis    Category = "Tennis"
	CategoryPadel     Category = "Padel"
	CategorySpikeball Category = "Spikeball"
	CategoryBasket    Category = "Basket"
)

var Categories = []Category{
	CategoryFootball,
	CategoryBadminton,
	CategoryTennis,
	CategoryPadel,
	CategorySpikeball,
	CategoryBasket,
}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding whitespace, and returns the canonical spelling.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Category    Category           `bson:"category" json:"category" validate:"required,oneof=Football Badminton Tennis Padel Spikeball Basket"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Date        time.Time          `bson:"date" json:"date" validate:"required"`
	Location    string             `bson:"location" json:"location" validate:"required"`
	Latitude    *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	MinPlayers  *int               `bson:"minPlayers,omitempty" json:"minPlayers,omitempty" validate:"omitempty,gte=0"`
	MaxPlayers  *int               `bson:"maxPlayers,omitempty" json:"maxPlayers,omitempty" validate:"omitempty,gte=0"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy" validate:"required"`
	// CreatedByName is a snapshot taken when the event is created. It is not
	// refreshed when the creator later changes their name.
	CreatedByName string        `bson:"createdByName,omitempty" json:"createdByName,omitempty"`
	Attendees     []string      `bson:"attendees" json:"attendees"`
	Comments      []RootComment `bson:"comments" json:"comments"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the required fields and the player bounds.
func (e *Event) Validate() error {
	if err := Validate.Struct(e); err != nil {
		return validationError(err)
	}
	if e.MinPlayers != nil && e.MaxPlayers != nil && *e.MinPlayers > *e.MaxPlayers {
		return fmt.Errorf("%w: minPlayers cannot exceed maxPlayers", ErrValidation)
	}
	return nil
}

// EnsureCreatorAttends adds the creator to the attendees when missing. It is
// applied before every write that persists the attendee list.
func (e *Event) EnsureCreatorAttends() {
	if e.CreatedBy == "" {
		return
	}
	if !slices.Contains(e.Attendees, e.CreatedBy) {
		e.Attendees = append(e.Attendees, e.CreatedBy)
	}
}

func (e *Event) IsAttending(userID string) bool {
	return slices.Contains(e.Attendees, userID)
}

// FindRootComment returns the embedded root comment with the given id.
func (e *Event) FindRootComment(id primitive.ObjectID) (*RootComment, bool) {
	for i := range e.Comments {
		if e.Comments[i].ID == id {
			return &e.Comments[i], true
		}
	}
	return nil, false
}

// ChildCommentIDs collects the ids referenced by every root comment, in thread order.
func (e *Event) ChildCommentIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, c := range e.Comments {
		ids = append(ids, c.ChildComments...)
	}
	return ids
}

// SetCoordinates attaches a geocoding result.
func (e *Event) SetCoordinates(c Coordinates) {
	lat, lng := c.Latitude, c.Longitude
	e.Latitude = &lat
	e.Longitude = &lng
}

// EventPatch carries the fields a partial update may change. Nil means untouched.
type EventPatch struct {
	Title       *string    `json:"title"`
	Category    *Category  `json:"category"`
	Image       *string    `json:"image"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	MinPlayers  *int       `json:"minPlayers"`
	MaxPlayers  *int       `json:"maxPlayers"`
}

func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Image == nil && p.Description == nil &&
		p.Date == nil && p.Location == nil && p.MinPlayers == nil && p.MaxPlayers == nil
}

// Apply writes the patched fields onto e and returns their bson names and values.
func (p EventPatch) Apply(e *Event) map[string]any {
	set := map[string]any{}
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
		set["title"] = e.Title
	}
	if p.Category != nil {
		e.Category = *p.Category
		if c, ok := ParseCategory(string(*p.Category)); ok {
			e.Category = c
		}
		set["category"] = e.Category
	}
	if p.Image != nil {
		e.Image = strings.TrimSpace(*p.Image)
		set["image"] = e.Image
	}
	if p.Description != nil {
		e.Description = *p.Description
		set["description"] = e.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
		set["date"] = e.Date
	}
	if p.Location != nil {
		e.Location = strings.TrimSpace(*p.Location)
		set["location"] = e.Location
	}
	if p.MinPlayers != nil {
		e.MinPlayers = p.MinPlayers
		set["minPlayers"] = *p.MinPlayers
	}
	if p.MaxPlayers != nil {
		e.MaxPlayers = p.MaxPlayers
		set["maxPlayers"] = *p.MaxPlayers
	}
	return set
}

type LocationSummary struct {
	Location  string   `bson:"location" json:"location"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
