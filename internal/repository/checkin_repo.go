package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpulse/internal/model"
)

type checkinRepo struct {
	collection *mongo.Collection
}

func NewCheckinRepo(db *mongo.Database) CheckinRepo {
	return &checkinRepo{collection: db.Collection("checkins")}
}

func (r *checkinRepo) Create(ctx context.Context, checkin *model.Checkin) error {
	if checkin.CreatedAt.IsZero() {
		checkin.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, checkin)
	return err
}

func (r *checkinRepo) GetByID(ctx context.Context, id string) (*model.Checkin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *checkinRepo) GetForUser(ctx context.Context, id, userID string) (*model.Checkin, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *checkinRepo) findOne(ctx context.Context, filter bson.M) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.collection.FindOne(ctx, filter).Decode(&checkin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *checkinRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*model.Checkin, error) {
	filter := bson.M{"userId": userID, "createdAt": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	checkins := []*model.Checkin{}
	if err := cursor.All(ctx, &checkins); err != nil {
		return nil, err
	}
	return checkins, nil
}
