package models

import "time"

// Transcript is the text output of the speech-to-text collaborator for one
// audio file. The transcript text is stored encrypted with the owner's key;
// Text carries the decrypted form on API reads and is never persisted
// in the clear.
type Transcript struct {
	ID            string    `json:"id" bson:"transcript_id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	AudioFileID   string    `json:"audio_file_id" bson:"audio_file_id"`
	JobID         string    `json:"job_id" bson:"job_id"`
	EncryptedText string    `json:"-" bson:"transcript"`
	Text          string    `json:"text" bson:"-"`
	LengthSeconds float64   `json:"length_seconds" bson:"length_seconds"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
