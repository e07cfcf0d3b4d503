package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpulse/internal/model"
)

type settingsRepo struct {
	collection *mongo.Collection
}

func NewSettingsRepo(db *mongo.Database) SettingsRepo {
	return &settingsRepo{collection: db.Collection("user_settings")}
}

func (r *settingsRepo) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	var settings model.UserSettings
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert keys on the user, keeping the existing document ID when present
func (r *settingsRepo) Upsert(ctx context.Context, settings *model.UserSettings) error {
	update := bson.M{
		"$set":         bson.M{"preferences": settings.Preferences},
		"$setOnInsert": bson.M{"_id": settings.ID},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	return r.collection.FindOneAndUpdate(ctx, bson.M{"userId": settings.UserID}, update, opts).Decode(settings)
}
