package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentRepo interface {
	InsertChildComment(ctx context.Context, comment *ChildComment) error
	GetChildComments(ctx context.Context, ids []primitive.ObjectID) ([]*ChildComment, error)
	DeleteChildComment(ctx context.Context, id primitive.ObjectID) error
	DeleteChildCommentsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

func (mdb *MongodbRepo) InsertChildComment(ctx context.Context, comment *ChildComment) error {
	col, err := mdb.GetCollection(CommentsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetChildComments(ctx context.Context, ids []primitive.ObjectID) ([]*ChildComment, error) {
	if len(ids) == 0 {
		return []*ChildComment{}, nil
	}
	col, err := mdb.GetCollection(CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []*ChildComment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("error decoding comments: %w", err)
	}
	return comments, nil
}

func (mdb *MongodbRepo) DeleteChildComment(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(CommentsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteChildCommentsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(CommentsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.DeleteMany(ctx, bson.M{"event": eventID})
	if err != nil {
		return 0, fmt.Errorf("error deleting event comments: %w", err)
	}
	return res.DeletedCount, nil
}
