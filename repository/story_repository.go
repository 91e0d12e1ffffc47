package repository

import (
	"context"

	"panzoto-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoryRepository handles the scraped stories document collection
type StoryRepository struct {
	collection *mongo.Collection
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(collection *mongo.Collection) *StoryRepository {
	return &StoryRepository{collection: collection}
}

// SaveAll upserts stories keyed by URL so rescrapes do not duplicate posts.
// Returns the number of newly inserted stories.
func (r *StoryRepository) SaveAll(ctx context.Context, stories []*models.Story) (int, error) {
	inserted := 0
	for _, story := range stories {
		filter := bson.M{"url": story.URL}
		update := bson.M{"$set": story}
		opts := options.Update().SetUpsert(true)

		result, err := r.collection.UpdateOne(ctx, filter, update, opts)
		if err != nil {
			return inserted, err
		}
		if result.UpsertedCount > 0 {
			inserted++
		}
	}

	return inserted, nil
}

// List retrieves stored stories, highest score first
func (r *StoryRepository) List(ctx context.Context, limit int64) ([]*models.Story, error) {
	opts := options.Find().SetSort(bson.M{"score": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []*models.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}

	return stories, nil
}
