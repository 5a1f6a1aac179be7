package services

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/sportsmeet/internal/models"
)

type AttendanceService struct {
	events models.EventRepo
	logger *slog.Logger
}

func NewAttendanceService(events models.EventRepo, logger *slog.Logger) *AttendanceService {
	return &AttendanceService{events: events, logger: logger}
}

// Attend adds the caller to the event. Joining twice is a conflict.
func (as *AttendanceService) Attend(ctx context.Context, caller models.Identity, eventID string) ([]string, error) {
	if caller.IsZero() {
		return nil, models.ErrUnauthenticated
	}
	oid, err := models.ParseObjectID(eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := as.events.AddAttendee(ctx, oid, caller.UserID)
	if err != nil {
		return nil, err
	}
	as.logger.Info("attendee added", "event_id", eventID, "user_id", caller.UserID)
	return attendees, nil
}

// Unattend removes the caller. Leaving an event the caller never joined is
// not an error. The creator may leave like anyone else.
func (as *AttendanceService) Unattend(ctx context.Context, caller models.Identity, eventID string) ([]string, error) {
	if caller.IsZero() {
		return nil, models.ErrUnauthenticated
	}
	oid, err := models.ParseObjectID(eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := as.events.RemoveAttendee(ctx, oid, caller.UserID)
	if err != nil {
		return nil, err
	}
	as.logger.Info("attendee removed", "event_id", eventID, "user_id", caller.UserID)
	return attendees, nil
}
