package repository

import (
	"context"
	"errors"

	"panzoto-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SummaryRepository handles the daily summaries document collection
type SummaryRepository struct {
	collection *mongo.Collection
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(collection *mongo.Collection) *SummaryRepository {
	return &SummaryRepository{collection: collection}
}

// Upsert stores a summary keyed by (user_id, summary_date); regeneration
// overwrites the previous document for that day.
func (r *SummaryRepository) Upsert(ctx context.Context, summary *models.DailySummary) error {
	filter := bson.M{"user_id": summary.UserID, "summary_date": summary.Date}
	update := bson.M{"$set": summary}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetByDate retrieves one summary for a user and date, or nil if absent
func (r *SummaryRepository) GetByDate(ctx context.Context, userID, date string) (*models.DailySummary, error) {
	filter := bson.M{"user_id": userID, "summary_date": date}

	summary := &models.DailySummary{}
	err := r.collection.FindOne(ctx, filter).Decode(summary)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// ListByUser retrieves a user's summaries, most recent date first
func (r *SummaryRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]*models.DailySummary, error) {
	opts := options.Find().SetSort(bson.M{"summary_date": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []*models.DailySummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}

	return summaries, nil
}
