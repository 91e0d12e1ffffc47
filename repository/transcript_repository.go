package repository

import (
	"context"
	"time"

	"panzoto-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TranscriptRepository handles the transcripts document collection
type TranscriptRepository struct {
	collection *mongo.Collection
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(collection *mongo.Collection) *TranscriptRepository {
	return &TranscriptRepository{collection: collection}
}

// Insert stores a transcript document
func (r *TranscriptRepository) Insert(ctx context.Context, transcript *models.Transcript) error {
	_, err := r.collection.InsertOne(ctx, transcript)
	return err
}

// ListByUser retrieves a user's transcripts, most recent first
func (r *TranscriptRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]*models.Transcript, error) {
	filter := bson.M{"user_id": userID}
	return r.find(ctx, filter, limit)
}

// ListByUserBetween retrieves a user's transcripts created in [start, end)
func (r *TranscriptRepository) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]*models.Transcript, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": start, "$lt": end},
	}
	return r.find(ctx, filter, 0)
}

func (r *TranscriptRepository) find(ctx context.Context, filter bson.M, limit int64) ([]*models.Transcript, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transcripts []*models.Transcript
	if err := cursor.All(ctx, &transcripts); err != nil {
		return nil, err
	}

	return transcripts, nil
}
