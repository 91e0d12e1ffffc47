package models

import "time"

// Story represents one scraped discussion post
type Story struct {
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	URL       string    `json:"url" bson:"url"`
	Score     int       `json:"score" bson:"score"`
	Comments  int       `json:"comments" bson:"comments"`
	Source    string    `json:"source" bson:"source"`
	FetchedAt time.Time `json:"fetched_at" bson:"fetched_at"`
}
