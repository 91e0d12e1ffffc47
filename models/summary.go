package models

import "time"

// SummaryContent is the classified digest of one day's transcripts.
// The three lists correspond to the fixed classification buckets.
type SummaryContent struct {
	FamilyInfo   []string `json:"family_info"`
	BusinessInfo []string `json:"business_info"`
	MiscInfo     []string `json:"misc_info"`
}

// DailySummary is the stored form of a summary. EncryptedContent holds the
// SummaryContent JSON encrypted with the owner's key.
type DailySummary struct {
	ID               string    `json:"id" bson:"summary_id"`
	UserID           string    `json:"user_id" bson:"user_id"`
	Date             string    `json:"date" bson:"summary_date"` // YYYY-MM-DD
	EncryptedContent string    `json:"-" bson:"encrypted_summary"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// DailySummaryResponse is the decrypted API shape of a daily summary.
type DailySummaryResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	FamilyInfo   []string  `json:"family_info"`
	BusinessInfo []string  `json:"business_info"`
	MiscInfo     []string  `json:"misc_info"`
	CreatedAt    time.Time `json:"created_at"`
}
