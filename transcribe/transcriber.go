// Package transcribe converts audio recordings to text.
package transcribe

import "context"

// Result is the outcome of transcribing one recording.
type Result struct {
	Text          string
	LengthSeconds float64
}

// Transcriber converts one audio file to text.
type Transcriber interface {
	// Transcribe converts the audio file at path to text.
	Transcribe(ctx context.Context, path string) (*Result, error)
}
