package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultGeocodeTimeout = 5 * time.Second

type CreateEventInput struct {
	Title       string          `json:"title"`
	Category    models.Category `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Location    string          `json:"location"`
	MinPlayers  *int            `json:"minPlayers"`
	MaxPlayers  *int            `json:"maxPlayers"`
}

type EventService struct {
	events   models.EventRepo
	comments models.CommentRepo
	users    models.UserDirectory
	geocoder Geocoder
	images   ImageUploader
	logger   *slog.Logger

	clock          func() time.Time
	geocodeTimeout time.Duration
	pending        sync.WaitGroup
}

// NewEventService wires the event operations. users, geocoder and images are
// optional and may be nil.
func NewEventService(
	events models.EventRepo,
	comments models.CommentRepo,
	users models.UserDirectory,
	geocoder Geocoder,
	images ImageUploader,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events:         events,
		comments:       comments,
		users:          users,
		geocoder:       geocoder,
		images:         images,
		logger:         logger,
		clock:          time.Now,
		geocodeTimeout: defaultGeocodeTimeout,
	}
}

func (es *EventService) SetGeocodeTimeout(d time.Duration) {
	if d > 0 {
		es.geocodeTimeout = d
	}
}

// Wait blocks until every background geocoding job has finished.
func (es *EventService) Wait() {
	es.pending.Wait()
}

func (es *EventService) CreateEvent(ctx context.Context, caller models.Identity, input CreateEventInput) (*models.Event, error) {
	if caller.IsZero() {
		return nil, models.ErrUnauthenticated
	}

	now := es.clock()
	event := &models.Event{
		Title:         strings.TrimSpace(input.Title),
		Category:      input.Category,
		Image:         strings.TrimSpace(input.Image),
		Description:   input.Description,
		Date:          input.Date,
		Location:      strings.TrimSpace(input.Location),
		MinPlayers:    input.MinPlayers,
		MaxPlayers:    input.MaxPlayers,
		CreatedBy:     caller.UserID,
		CreatedByName: es.creatorName(ctx, caller),
		Attendees:     []string{},
		Comments:      []models.RootComment{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c, ok := models.ParseCategory(string(input.Category)); ok {
		event.Category = c
	}
	event.EnsureCreatorAttends()

	if err := event.Validate(); err != nil {
		return nil, err
	}

	image, err := es.hostImage(ctx, event.Image)
	if err != nil {
		return nil, err
	}
	event.Image = image

	created, err := es.events.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	es.logger.Info("event created", "event_id", created.ID.Hex(), "created_by", created.CreatedBy, "category", created.Category)

	es.geocodeInBackground(created.ID, created.Location)
	return created, nil
}

func (es *EventService) GetEvent(ctx context.Context, id string) (*models.EventView, error) {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	event, err := es.events.GetEventByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	children, err := es.comments.GetChildComments(ctx, event.ChildCommentIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.ChildComment, len(children))
	ids := append([]string{event.CreatedBy}, event.Attendees...)
	for _, c := range event.Comments {
		ids = append(ids, c.User)
	}
	for _, c := range children {
		byID[c.ID] = c
		ids = append(ids, c.User)
	}

	users, err := es.resolveUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	view := models.NewEventView(event, users, byID)
	return &view, nil
}

// ListEvents returns the events matching the comma separated category and
// time filters, earliest first. Comments are not included.
func (es *EventService) ListEvents(ctx context.Context, categories, times string) ([]*models.EventView, error) {
	filter, err := BuildEventFilter(categories, times, es.clock())
	if err != nil {
		return nil, err
	}
	events, err := es.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var ids []string
	for _, e := range events {
		ids = append(ids, e.CreatedBy)
		ids = append(ids, e.Attendees...)
	}
	users, err := es.resolveUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*models.EventView, 0, len(events))
	for _, e := range events {
		view := models.NewEventView(e, users, nil)
		views = append(views, &view)
	}
	return views, nil
}

// UpdateEvent applies a partial update on behalf of the event creator. A new
// location clears the stored coordinates and geocodes again.
func (es *EventService) UpdateEvent(ctx context.Context, caller models.Identity, id string, patch models.EventPatch) (*models.Event, error) {
	if caller.IsZero() {
		return nil, models.ErrUnauthenticated
	}
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no updatable fields provided", models.ErrValidation)
	}

	existing, err := es.events.GetEventByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != caller.UserID {
		return nil, models.ErrForbidden
	}

	merged := *existing
	set := patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	if patch.Image != nil {
		image, err := es.hostImage(ctx, merged.Image)
		if err != nil {
			return nil, err
		}
		set["image"] = image
	}

	var unset []string
	relocated := patch.Location != nil && merged.Location != existing.Location
	if relocated {
		unset = []string{"latitude", "longitude"}
	}

	updated, err := es.events.UpdateEvent(ctx, oid, bson.M(set), unset)
	if err != nil {
		return nil, err
	}

	if !updated.IsAttending(updated.CreatedBy) {
		attendees, err := es.events.AddAttendee(ctx, oid, updated.CreatedBy)
		switch {
		case err == nil:
			updated.Attendees = attendees
		case !errors.Is(err, models.ErrAlreadyAttending):
			return nil, err
		}
	}

	if relocated {
		es.geocodeInBackground(updated.ID, updated.Location)
	}
	es.logger.Info("event updated", "event_id", id, "fields", len(set))
	return updated, nil
}

// DeleteEvent removes the event and every reply stored for it.
func (es *EventService) DeleteEvent(ctx context.Context, caller models.Identity, id string) error {
	if caller.IsZero() {
		return models.ErrUnauthenticated
	}
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return err
	}

	existing, err := es.events.GetEventByID(ctx, oid)
	if err != nil {
		return err
	}
	if existing.CreatedBy != caller.UserID {
		return models.ErrForbidden
	}

	if err := es.events.DeleteEvent(ctx, oid); err != nil {
		return err
	}
	removed, err := es.comments.DeleteChildCommentsByEvent(ctx, oid)
	if err != nil {
		return fmt.Errorf("event deleted but replies remain: %w", err)
	}
	es.logger.Info("event deleted", "event_id", id, "replies_removed", removed)
	return nil
}

func (es *EventService) Locations(ctx context.Context) ([]models.LocationSummary, error) {
	locations, err := es.events.LocationSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	return locations, nil
}

// creatorName prefers the stored profile name and falls back to the token.
func (es *EventService) creatorName(ctx context.Context, caller models.Identity) string {
	if es.users != nil {
		profiles, err := es.users.FindProfiles(ctx, []string{caller.UserID})
		if err != nil {
			es.logger.Warn("creator profile lookup failed", "user_id", caller.UserID, "error", err)
		} else if p, ok := profiles[caller.UserID]; ok && p.Name != "" {
			return p.Name
		}
	}
	return caller.Name
}

func (es *EventService) resolveUsers(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	if es.users == nil {
		return map[string]models.UserSummary{}, nil
	}
	users, err := es.users.FindProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}
	return users, nil
}

// hostImage keeps hosted URLs as they are and uploads inline data URIs.
// Any other value is rejected so a client string is never treated as a
// path on the server.
func (es *EventService) hostImage(ctx context.Context, image string) (string, error) {
	switch {
	case image == "" || helpers.IsRemoteURL(image):
		return image, nil
	case !helpers.IsDataURI(image):
		return "", fmt.Errorf("%w: image must be an http(s) url or a base64 data uri", models.ErrValidation)
	case es.images == nil:
		return "", fmt.Errorf("%w: image uploads are disabled, provide an image url", models.ErrValidation)
	}
	url, err := es.images.UploadEventImage(ctx, image)
	if err != nil {
		return "", fmt.Errorf("failed to upload event image: %w", err)
	}
	return url, nil
}

// geocodeInBackground resolves the location after the response has been
// sent. Failures leave the event without coordinates.
func (es *EventService) geocodeInBackground(id primitive.ObjectID, location string) {
	if es.geocoder == nil || strings.TrimSpace(location) == "" {
		return
	}
	es.pending.Add(1)
	go func() {
		defer es.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), es.geocodeTimeout)
		defer cancel()
		es.geocode(ctx, id, location)
	}()
}

func (es *EventService) geocode(ctx context.Context, id primitive.ObjectID, location string) {
	coords, err := es.geocoder.Geocode(ctx, location)
	if err != nil {
		es.logger.Warn("geocoding failed, event kept without coordinates",
			"event_id", id.Hex(), "location", location, "error", err)
		return
	}
	if err := es.events.SetEventCoordinates(ctx, id, coords); err != nil {
		es.logger.Warn("failed to store coordinates", "event_id", id.Hex(), "error", err)
		return
	}
	es.logger.Debug("event geocoded", "event_id", id.Hex(), "lat", coords.Latitude, "lng", coords.Longitude)
}
