package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
)

type AddCommentInput struct {
	Text            string `json:"text"`
	ParentCommentID string `json:"parentCommentId"`
}

type CommentService struct {
	events   models.EventRepo
	comments models.CommentRepo
	logger   *slog.Logger
	clock    func() time.Time
}

func NewCommentService(events models.EventRepo, comments models.CommentRepo, logger *slog.Logger) *CommentService {
	return &CommentService{events: events, comments: comments, logger: logger, clock: time.Now}
}

// AddComment posts a root comment, or a reply when ParentCommentID is set,
// and returns the event's root comment list after the write.
func (cs *CommentService) AddComment(ctx context.Context, caller models.Identity, eventID string, input AddCommentInput) ([]models.RootComment, error) {
	if caller.IsZero() {
		return nil, models.ErrUnauthenticated
	}
	oid, err := models.ParseObjectID(eventID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(input.Text)

	parentHex := strings.TrimSpace(input.ParentCommentID)
	if parentHex == "" {
		comments, err := cs.events.AppendRootComment(ctx, oid, models.NewRootComment(caller.UserID, text, cs.clock()))
		if err != nil {
			return nil, err
		}
		cs.logger.Info("comment added", "event_id", eventID, "user_id", caller.UserID)
		return comments, nil
	}

	parentID, err := models.ParseObjectID(parentHex)
	if err != nil {
		return nil, err
	}
	event, err := cs.events.GetEventByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if _, ok := event.FindRootComment(parentID); !ok {
		return nil, models.ErrParentCommentNotFound
	}

	reply := models.NewChildComment(oid, parentID, caller.UserID, text, cs.clock())
	if err := cs.comments.InsertChildComment(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	comments, err := cs.events.LinkChildComment(ctx, oid, parentID, reply.ID)
	if err != nil {
		// no event references the reply, so remove it
		if delErr := cs.comments.DeleteChildComment(ctx, reply.ID); delErr != nil {
			cs.logger.Error("failed to remove orphaned reply", "comment_id", reply.ID.Hex(), "error", delErr)
		}
		return nil, err
	}
	cs.logger.Info("reply added", "event_id", eventID, "parent_id", parentHex, "user_id", caller.UserID)
	return comments, nil
}
