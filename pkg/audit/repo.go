package audit

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("auth_events"),
	}
}

func (r *MongoRepo) Record(event Event) error {
	ctx := context.TODO()

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// RecentByUser returns the latest events for one user, newest first.
func (r *MongoRepo) RecentByUser(userID int64, limit int64) ([]Event, error) {
	ctx := context.TODO()

	opts := options.Find().
		SetSort(bson.M{"at": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
