package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ownerID = "65f0c0ffee0000000000000a"

var owner = models.Identity{UserID: ownerID, Name: "token name"}

type eventFixture struct {
	events   *mockEventRepo
	comments *mockCommentRepo
	users    *mockUserDirectory
	geocoder *mockGeocoder
	uploader *mockUploader
	svc      *EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	f := &eventFixture{
		events:   &mockEventRepo{},
		comments: &mockCommentRepo{},
		users:    &mockUserDirectory{},
		geocoder: &mockGeocoder{},
		uploader: &mockUploader{},
	}
	f.svc = NewEventService(f.events, f.comments, f.users, f.geocoder, f.uploader, discardLogger())
	f.svc.clock = func() time.Time { return friday }
	t.Cleanup(func() {
		f.svc.Wait()
		f.events.AssertExpectations(t)
		f.comments.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.geocoder.AssertExpectations(t)
		f.uploader.AssertExpectations(t)
	})
	return f
}

func createInput() CreateEventInput {
	return CreateEventInput{
		Title:       " Sunday kickabout ",
		Category:    "football",
		Description: "5-a-side",
		Date:        day(17, 10, 0, 0, 0),
		Location:    "Victoria Park",
	}
}

func storedEvent(id primitive.ObjectID) *models.Event {
	return &models.Event{
		ID:          id,
		Title:       "Sunday kickabout",
		Category:    models.CategoryFootball,
		Description: "5-a-side",
		Date:        day(17, 10, 0, 0, 0),
		Location:    "Victoria Park",
		CreatedBy:   ownerID,
		Attendees:   []string{ownerID},
		Comments:    []models.RootComment{},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()
	coords := models.Coordinates{Latitude: 51.53, Longitude: -0.04}

	f.users.On("FindProfiles", mock.Anything, []string{ownerID}).
		Return(map[string]models.UserSummary{ownerID: {ID: ownerID, Name: "Ada Lovelace"}}, nil)
	f.events.On("CreateEvent", mock.Anything, mock.Anything).
		Return(func(e *models.Event) *models.Event { e.ID = id; return e }, nil)
	f.geocoder.On("Geocode", mock.Anything, "Victoria Park").Return(coords, nil)
	f.events.On("SetEventCoordinates", mock.Anything, id, coords).Return(nil)

	created, err := f.svc.CreateEvent(context.Background(), owner, createInput())
	require.NoError(t, err)
	f.svc.Wait()

	assert.Equal(t, id, created.ID)
	assert.Equal(t, "Sunday kickabout", created.Title)
	assert.Equal(t, models.CategoryFootball, created.Category)
	assert.Equal(t, "Ada Lovelace", created.CreatedByName)
	assert.Equal(t, []string{ownerID}, created.Attendees)
	assert.NotNil(t, created.Comments)
	assert.Equal(t, friday, created.CreatedAt)
}

func TestEventService_CreateEvent_GeocodeFailureKeepsEvent(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()

	f.users.On("FindProfiles", mock.Anything, mock.Anything).Return(map[string]models.UserSummary{}, nil)
	f.events.On("CreateEvent", mock.Anything, mock.Anything).
		Return(func(e *models.Event) *models.Event { e.ID = id; return e }, nil)
	f.geocoder.On("Geocode", mock.Anything, "Victoria Park").Return(models.Coordinates{}, ErrNoGeocodeResult)

	created, err := f.svc.CreateEvent(context.Background(), owner, createInput())
	require.NoError(t, err)
	f.svc.Wait()

	assert.Equal(t, "token name", created.CreatedByName)
	assert.Nil(t, created.Latitude)
	f.events.AssertNotCalled(t, "SetEventCoordinates", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventService_CreateEvent_UploadsInlineImage(t *testing.T) {
	f := newEventFixture(t)
	input := createInput()
	input.Image = "data:image/png;base64,AAAA"

	f.users.On("FindProfiles", mock.Anything, mock.Anything).Return(map[string]models.UserSummary{}, nil)
	f.uploader.On("UploadEventImage", mock.Anything, input.Image).Return("https://res.cloudinary.com/e.png", nil)
	f.events.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
		return e.Image == "https://res.cloudinary.com/e.png"
	})).Return(func(e *models.Event) *models.Event { e.ID = primitive.NewObjectID(); return e }, nil)
	f.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(models.Coordinates{}, ErrGeocodingDisabled)

	created, err := f.svc.CreateEvent(context.Background(), owner, input)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/e.png", created.Image)
}

func TestEventService_CreateEvent_RejectsLocalImagePath(t *testing.T) {
	f := newEventFixture(t)
	f.users.On("FindProfiles", mock.Anything, mock.Anything).Return(map[string]models.UserSummary{}, nil)

	for _, image := range []string{"/etc/passwd", "../secrets.env", "file:///etc/hosts"} {
		input := createInput()
		input.Image = image

		_, err := f.svc.CreateEvent(context.Background(), owner, input)
		assert.ErrorIs(t, err, models.ErrValidation, image)
	}

	f.uploader.AssertNotCalled(t, "UploadEventImage", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestEventService_CreateEvent_InlineImageWithoutUploader(t *testing.T) {
	svc := NewEventService(&mockEventRepo{}, &mockCommentRepo{}, nil, nil, nil, discardLogger())
	input := createInput()
	input.Image = "data:image/png;base64,AAAA"

	_, err := svc.CreateEvent(context.Background(), owner, input)

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestEventService_UpdateEvent_RejectsLocalImagePath(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()
	image := "/etc/passwd"

	f.events.On("GetEventByID", mock.Anything, id).Return(storedEvent(id), nil)

	_, err := f.svc.UpdateEvent(context.Background(), owner, id.Hex(), models.EventPatch{Image: &image})

	assert.ErrorIs(t, err, models.ErrValidation)
	f.uploader.AssertNotCalled(t, "UploadEventImage", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEventService_CreateEvent_Rejects(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.svc.CreateEvent(context.Background(), models.Identity{}, createInput())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	f.users.On("FindProfiles", mock.Anything, mock.Anything).Return(map[string]models.UserSummary{}, nil)
	input := createInput()
	input.Title = "  "
	_, err = f.svc.CreateEvent(context.Background(), owner, input)
	assert.ErrorIs(t, err, models.ErrValidation)

	input = createInput()
	input.Category = "Curling"
	_, err = f.svc.CreateEvent(context.Background(), owner, input)
	assert.ErrorIs(t, err, models.ErrValidation)

	f.events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestEventService_GetEvent(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()
	event := storedEvent(id)
	root := models.NewRootComment("guest", "who brings the ball?", friday)
	reply := models.NewChildComment(id, root.ID, ownerID, "me", friday)
	root.ChildComments = []primitive.ObjectID{reply.ID}
	event.Comments = []models.RootComment{root}

	f.events.On("GetEventByID", mock.Anything, id).Return(event, nil)
	f.comments.On("GetChildComments", mock.Anything, []primitive.ObjectID{reply.ID}).
		Return([]*models.ChildComment{reply}, nil)
	f.users.On("FindProfiles", mock.Anything, mock.Anything).
		Return(map[string]models.UserSummary{ownerID: {ID: ownerID, Name: "Ada Lovelace"}}, nil)

	view, err := f.svc.GetEvent(context.Background(), id.Hex())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", view.CreatedBy.Name)
	require.NotNil(t, view.Comments)
	comments := *view.Comments
	require.Len(t, comments, 1)
	require.Len(t, comments[0].ChildComments, 1)
	assert.Equal(t, "me", comments[0].ChildComments[0].Text)
}

func TestEventService_GetEvent_NoCommentsKeepsEmptyList(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()

	f.events.On("GetEventByID", mock.Anything, id).Return(storedEvent(id), nil)
	f.comments.On("GetChildComments", mock.Anything, mock.Anything).Return([]*models.ChildComment{}, nil)
	f.users.On("FindProfiles", mock.Anything, mock.Anything).Return(map[string]models.UserSummary{}, nil)

	view, err := f.svc.GetEvent(context.Background(), id.Hex())
	require.NoError(t, err)

	require.NotNil(t, view.Comments)
	assert.Empty(t, *view.Comments)
}

func TestEventService_GetEvent_Errors(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()

	_, err := f.svc.GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrInvalidID)

	f.events.On("GetEventByID", mock.Anything, id).Return(nil, models.ErrEventNotFound)
	_, err = f.svc.GetEvent(context.Background(), id.Hex())
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestEventService_ListEvents(t *testing.T) {
	f := newEventFixture(t)
	e := storedEvent(primitive.NewObjectID())
	e.Comments = []models.RootComment{models.NewRootComment("guest", "hi", friday)}

	f.events.On("ListEvents", mock.Anything, bson.M{"category": bson.M{"$in": []string{"Football"}}}).
		Return([]*models.Event{e}, nil)
	f.users.On("FindProfiles", mock.Anything, []string{ownerID, ownerID}).
		Return(map[string]models.UserSummary{}, nil)

	views, err := f.svc.ListEvents(context.Background(), "Football", "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Comments)
	assert.Equal(t, ownerID, views[0].CreatedBy.ID)
}

func TestEventService_ListEvents_UnknownCategory(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.svc.ListEvents(context.Background(), "Curling", "")

	assert.ErrorIs(t, err, models.ErrValidation)
	f.events.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything)
}

func TestEventService_UpdateEvent_RelocationRegeocodes(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()
	existing := storedEvent(id)
	lat, lng := 51.53, -0.04
	existing.Latitude, existing.Longitude = &lat, &lng

	updated := storedEvent(id)
	updated.Location = "Regent's Park"
	coords := models.Coordinates{Latitude: 51.52, Longitude: -0.15}

	loc := " Regent's Park "
	f.events.On("GetEventByID", mock.Anything, id).Return(existing, nil)
	f.events.On("UpdateEvent", mock.Anything, id, bson.M{"location": "Regent's Park"}, []string{"latitude", "longitude"}).
		Return(updated, nil)
	f.geocoder.On("Geocode", mock.Anything, "Regent's Park").Return(coords, nil)
	f.events.On("SetEventCoordinates", mock.Anything, id, coords).Return(nil)

	got, err := f.svc.UpdateEvent(context.Background(), owner, id.Hex(), models.EventPatch{Location: &loc})
	require.NoError(t, err)
	f.svc.Wait()
	assert.Equal(t, "Regent's Park", got.Location)
}

func TestEventService_UpdateEvent_RestoresCreatorAttendance(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()
	updated := storedEvent(id)
	updated.Attendees = []string{"guest"}
	title := "Late game"

	f.events.On("GetEventByID", mock.Anything, id).Return(storedEvent(id), nil)
	f.events.On("UpdateEvent", mock.Anything, id, bson.M{"title": "Late game"}, []string(nil)).Return(updated, nil)
	f.events.On("AddAttendee", mock.Anything, id, ownerID).Return([]string{"guest", ownerID}, nil)

	got, err := f.svc.UpdateEvent(context.Background(), owner, id.Hex(), models.EventPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, []string{"guest", ownerID}, got.Attendees)
}

func TestEventService_UpdateEvent_Rejects(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()
	title := "x"

	_, err := f.svc.UpdateEvent(context.Background(), owner, id.Hex(), models.EventPatch{})
	assert.ErrorIs(t, err, models.ErrValidation)

	f.events.On("GetEventByID", mock.Anything, id).Return(storedEvent(id), nil)

	_, err = f.svc.UpdateEvent(context.Background(), models.Identity{UserID: "intruder"}, id.Hex(), models.EventPatch{Title: &title})
	assert.ErrorIs(t, err, models.ErrForbidden)

	minP, maxP := 10, 2
	_, err = f.svc.UpdateEvent(context.Background(), owner, id.Hex(), models.EventPatch{MinPlayers: &minP, MaxPlayers: &maxP})
	assert.ErrorIs(t, err, models.ErrValidation)

	f.events.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEventService_DeleteEvent(t *testing.T) {
	f := newEventFixture(t)
	id := primitive.NewObjectID()

	f.events.On("GetEventByID", mock.Anything, id).Return(storedEvent(id), nil)
	f.events.On("DeleteEvent", mock.Anything, id).Return(nil)
	f.comments.On("DeleteChildCommentsByEvent", mock.Anything, id).Return(int64(3), nil)

	require.NoError(t, f.svc.DeleteEvent(context.Background(), owner, id.Hex()))
}

func TestEventService_DeleteEvent_Errors(t *testing.T) {
	f := newEventFixture(t)
	missing := primitive.NewObjectID()
	other := primitive.NewObjectID()

	f.events.On("GetEventByID", mock.Anything, missing).Return(nil, models.ErrEventNotFound)
	f.events.On("GetEventByID", mock.Anything, other).Return(storedEvent(other), nil)

	assert.ErrorIs(t, f.svc.DeleteEvent(context.Background(), owner, missing.Hex()), models.ErrEventNotFound)
	assert.ErrorIs(t, f.svc.DeleteEvent(context.Background(), models.Identity{UserID: "guest"}, other.Hex()), models.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteEvent(context.Background(), owner, "bad"), models.ErrInvalidID)
	f.events.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
}

func TestEventService_Locations(t *testing.T) {
	f := newEventFixture(t)
	lat, lng := 51.5, -0.1
	want := []models.LocationSummary{{Location: "Victoria Park", Latitude: &lat, Longitude: &lng}, {Location: "Nowhere"}}

	f.events.On("LocationSummaries", mock.Anything).Return(want, nil)
	got, err := f.svc.Locations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	f2 := newEventFixture(t)
	f2.events.On("LocationSummaries", mock.Anything).Return(nil, errors.New("boom"))
	_, err = f2.svc.Locations(context.Background())
	assert.Error(t, err)
}
