package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpulse/internal/model"
)

type alertRepo struct {
	collection *mongo.Collection
}

func NewAlertRepo(db *mongo.Database) AlertRepo {
	return &alertRepo{collection: db.Collection("alerts")}
}

func (r *alertRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Alert, error) {
	// ties within one analysis fall back to _id, which keeps rule order
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *alertRepo) ListByAnalysis(ctx context.Context, analysisID string) ([]*model.Alert, error) {
	// alert IDs are UUIDv7, so ID order is rule order
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"analysisId": analysisID}, opts)
}

func (r *alertRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Alert, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	alerts := []*model.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) GetForUser(ctx context.Context, id, userID string) (*model.Alert, error) {
	var alert model.Alert
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&alert)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) UpdateStatus(ctx context.Context, id string, status model.AlertStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}

func (r *alertRepo) CountOpen(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "status": model.AlertOpen})
}
