package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	ListEvents(ctx context.Context, filter bson.M) ([]*Event, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*Event, error)
	SetEventCoordinates(ctx context.Context, id primitive.ObjectID, coords Coordinates) error
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	AddAttendee(ctx context.Context, id primitive.ObjectID, userID string) ([]string, error)
	RemoveAttendee(ctx context.Context, id primitive.ObjectID, userID string) ([]string, error)
	AppendRootComment(ctx context.Context, id primitive.ObjectID, comment RootComment) ([]RootComment, error)
	LinkChildComment(ctx context.Context, eventID, parentID, childID primitive.ObjectID) ([]RootComment, error)
	LocationSummaries(ctx context.Context) ([]LocationSummary, error)
}

// ParseObjectID converts a path parameter into an ObjectID.
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	// $push fails on null arrays, so both lists are stored as empty arrays
	if event.Attendees == nil {
		event.Attendees = []string{}
	}
	if event.Comments == nil {
		event.Comments = []RootComment{}
	}
	event.EnsureCreatorAttends()

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var event Event
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error finding event: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, filter bson.M) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	fields := bson.M{"updatedAt": time.Now()}
	for k, v := range set {
		fields[k] = v
	}
	update := bson.M{"$set": fields}
	if len(unset) > 0 {
		u := bson.M{}
		for _, k := range unset {
			u[k] = ""
		}
		update["$unset"] = u
	}

	return mdb.findOneAndUpdate(ctx, col, bson.M{"_id": id}, update, ErrEventNotFound)
}

func (mdb *MongodbRepo) SetEventCoordinates(ctx context.Context, id primitive.ObjectID, coords Coordinates) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"latitude":  coords.Latitude,
			"longitude": coords.Longitude,
		},
	})
	if err != nil {
		return fmt.Errorf("error setting coordinates: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

// AddAttendee appends userID in a single conditional update, so concurrent
// joins cannot add the same user twice.
func (mdb *MongodbRepo) AddAttendee(ctx context.Context, id primitive.ObjectID, userID string) ([]string, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"_id": id, "attendees": bson.M{"$ne": userID}}
	update := bson.M{
		"$push": bson.M{"attendees": userID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	event, err := mdb.findOneAndUpdate(ctx, col, filter, update, nil)
	if err == nil {
		return event.Attendees, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// nothing matched: either the event is gone or the user is already in
	count, err := col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("error counting events: %w", err)
	}
	if count == 0 {
		return nil, ErrEventNotFound
	}
	return nil, ErrAlreadyAttending
}

func (mdb *MongodbRepo) RemoveAttendee(ctx context.Context, id primitive.ObjectID, userID string) ([]string, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	update := bson.M{
		"$pull": bson.M{"attendees": userID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	event, err := mdb.findOneAndUpdate(ctx, col, bson.M{"_id": id}, update, ErrEventNotFound)
	if err != nil {
		return nil, err
	}
	return event.Attendees, nil
}

func (mdb *MongodbRepo) AppendRootComment(ctx context.Context, id primitive.ObjectID, comment RootComment) ([]RootComment, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if comment.ChildComments == nil {
		comment.ChildComments = []primitive.ObjectID{}
	}
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	event, err := mdb.findOneAndUpdate(ctx, col, bson.M{"_id": id}, update, ErrEventNotFound)
	if err != nil {
		return nil, err
	}
	return event.Comments, nil
}

// LinkChildComment appends childID to the reply list of the root comment
// parentID through the positional operator.
func (mdb *MongodbRepo) LinkChildComment(ctx context.Context, eventID, parentID, childID primitive.ObjectID) ([]RootComment, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	filter := bson.M{"_id": eventID, "comments._id": parentID}
	update := bson.M{
		"$push": bson.M{"comments.$.childComments": childID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	event, err := mdb.findOneAndUpdate(ctx, col, filter, update, ErrParentCommentNotFound)
	if err != nil {
		return nil, err
	}
	return event.Comments, nil
}

// LocationsPipeline groups events by location text and keeps the first
// coordinates seen, in insertion order, for each group.
func LocationsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$location",
			"latitude":  bson.M{"$first": "$latitude"},
			"longitude": bson.M{"$first": "$longitude"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":       0,
			"location":  "$_id",
			"latitude":  1,
			"longitude": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "location", Value: 1}}}},
	}
}

func (mdb *MongodbRepo) LocationSummaries(ctx context.Context) ([]LocationSummary, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	cursor, err := col.Aggregate(ctx, LocationsPipeline())
	if err != nil {
		return nil, fmt.Errorf("error aggregating locations: %w", err)
	}
	defer cursor.Close(ctx)

	locations := []LocationSummary{}
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("error decoding locations: %w", err)
	}
	return locations, nil
}

// findOneAndUpdate returns the updated document. When nothing matches it
// returns notFound, or mongo.ErrNoDocuments when notFound is nil.
func (mdb *MongodbRepo) findOneAndUpdate(ctx context.Context, col *mongo.Collection, filter, update bson.M, notFound error) (*Event, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event Event
	err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if notFound != nil {
				return nil, notFound
			}
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return &event, nil
}
