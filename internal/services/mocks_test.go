package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockEventRepo struct{ mock.Mock }

func (m *mockEventRepo) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	args := m.Called(ctx, event)
	if fn, ok := args.Get(0).(func(*models.Event) *models.Event); ok {
		return fn(event), args.Error(1)
	}
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) ListEvents(ctx context.Context, filter bson.M) ([]*models.Event, error) {
	args := m.Called(ctx, filter)
	e, _ := args.Get(0).([]*models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.Event, error) {
	args := m.Called(ctx, id, set, unset)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) SetEventCoordinates(ctx context.Context, id primitive.ObjectID, coords models.Coordinates) error {
	return m.Called(ctx, id, coords).Error(0)
}

func (m *mockEventRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEventRepo) AddAttendee(ctx context.Context, id primitive.ObjectID, userID string) ([]string, error) {
	args := m.Called(ctx, id, userID)
	a, _ := args.Get(0).([]string)
	return a, args.Error(1)
}

func (m *mockEventRepo) RemoveAttendee(ctx context.Context, id primitive.ObjectID, userID string) ([]string, error) {
	args := m.Called(ctx, id, userID)
	a, _ := args.Get(0).([]string)
	return a, args.Error(1)
}

func (m *mockEventRepo) AppendRootComment(ctx context.Context, id primitive.ObjectID, comment models.RootComment) ([]models.RootComment, error) {
	args := m.Called(ctx, id, comment)
	c, _ := args.Get(0).([]models.RootComment)
	return c, args.Error(1)
}

func (m *mockEventRepo) LinkChildComment(ctx context.Context, eventID, parentID, childID primitive.ObjectID) ([]models.RootComment, error) {
	args := m.Called(ctx, eventID, parentID, childID)
	c, _ := args.Get(0).([]models.RootComment)
	return c, args.Error(1)
}

func (m *mockEventRepo) LocationSummaries(ctx context.Context) ([]models.LocationSummary, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.LocationSummary)
	return l, args.Error(1)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) InsertChildComment(ctx context.Context, comment *models.ChildComment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) GetChildComments(ctx context.Context, ids []primitive.ObjectID) ([]*models.ChildComment, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).([]*models.ChildComment)
	return c, args.Error(1)
}

func (m *mockCommentRepo) DeleteChildComment(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCommentRepo) DeleteChildCommentsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserDirectory struct{ mock.Mock }

func (m *mockUserDirectory) FindProfiles(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	args := m.Called(ctx, ids)
	u, _ := args.Get(0).(map[string]models.UserSummary)
	return u, args.Error(1)
}

type mockGeocoder struct{ mock.Mock }

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(models.Coordinates), args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) UploadEventImage(ctx context.Context, source string) (string, error) {
	args := m.Called(ctx, source)
	return args.String(0), args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewStatusResult("OK", args.Error(0))
}
