package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RootComment lives inside its event's comment list and owns the ordered ids
// of its replies.
type RootComment struct {
	ID            primitive.ObjectID   `bson:"_id" json:"id"`
	User          string               `bson:"user,omitempty" json:"user,omitempty"`
	Text          string               `bson:"text,omitempty" json:"text,omitempty"`
	ChildComments []primitive.ObjectID `bson:"childComments" json:"childComments"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

// ChildComment is a reply to a root comment, stored in its own collection.
// Replies cannot be nested further.
type ChildComment struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	User          string             `bson:"user,omitempty" json:"user,omitempty"`
	Text          string             `bson:"text,omitempty" json:"text,omitempty"`
	ParentComment primitive.ObjectID `bson:"parentComment" json:"parentComment"`
	Event         primitive.ObjectID `bson:"event" json:"event"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewRootComment(userID, text string, now time.Time) RootComment {
	return RootComment{
		ID:            primitive.NewObjectID(),
		User:          userID,
		Text:          text,
		ChildComments: []primitive.ObjectID{},
		CreatedAt:     now,
	}
}

func NewChildComment(eventID, parentID primitive.ObjectID, userID, text string, now time.Time) *ChildComment {
	return &ChildComment{
		ID:            primitive.NewObjectID(),
		User:          userID,
		Text:          text,
		ParentComment: parentID,
		Event:         eventID,
		CreatedAt:     now,
	}
}
