package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpulse/internal/model"
)

type analysisRepo struct {
	analyses *mongo.Collection
	alerts   *mongo.Collection
}

func NewAnalysisRepo(db *mongo.Database) AnalysisRepo {
	return &analysisRepo{
		analyses: db.Collection("analyses"),
		alerts:   db.Collection("alerts"),
	}
}

// SaveWithAlerts inserts the analysis, then its alerts. If the alerts
// cannot be written the analysis is removed again so a retry starts clean.
func (r *analysisRepo) SaveWithAlerts(ctx context.Context, analysis *model.Analysis, alerts []*model.Alert) error {
	if _, err := r.analyses.InsertOne(ctx, analysis); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if len(alerts) == 0 {
		return nil
	}

	docs := make([]interface{}, len(alerts))
	for i, a := range alerts {
		docs[i] = a
	}
	if _, err := r.alerts.InsertMany(ctx, docs); err != nil {
		_, _ = r.alerts.DeleteMany(ctx, bson.M{"analysisId": analysis.ID})
		if _, delErr := r.analyses.DeleteOne(ctx, bson.M{"_id": analysis.ID}); delErr != nil {
			return errors.Join(fmt.Errorf("insert alerts: %w", err), fmt.Errorf("rollback analysis: %w", delErr))
		}
		return fmt.Errorf("insert alerts: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByCheckinID(ctx context.Context, checkinID string) (*model.Analysis, error) {
	return r.findOne(ctx, bson.M{"checkinId": checkinID})
}

func (r *analysisRepo) GetForUser(ctx context.Context, id, userID string) (*model.Analysis, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *analysisRepo) findOne(ctx context.Context, filter bson.M) (*model.Analysis, error) {
	var analysis model.Analysis
	err := r.analyses.FindOne(ctx, filter).Decode(&analysis)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *analysisRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Analysis, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.analyses.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	analyses := []*model.Analysis{}
	if err := cursor.All(ctx, &analyses); err != nil {
		return nil, err
	}
	return analyses, nil
}
