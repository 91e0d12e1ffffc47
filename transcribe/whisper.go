package transcribe

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperTranscriber transcribes audio through the OpenAI Whisper API
type WhisperTranscriber struct {
	client *openai.Client
}

// NewWhisperTranscriber creates a Whisper-backed transcriber
func NewWhisperTranscriber(apiKey string) *WhisperTranscriber {
	return &WhisperTranscriber{client: openai.NewClient(apiKey)}
}

// Transcribe sends the audio file to Whisper and returns the transcript text
// with the recording length reported by the model.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, path string) (*Result, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription: %w", err)
	}

	return &Result{
		Text:          resp.Text,
		LengthSeconds: resp.Duration,
	}, nil
}
