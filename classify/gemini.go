// Package classify buckets a day's transcripts into labeled lists using a
// language model.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"panzoto-backend/models"
)

// ErrBadFormat is returned when the model reply is not the expected JSON.
var ErrBadFormat = errors.New("classifier returned malformed output")

const promptTemplate = `You are an assistant that organizes a person's daily voice notes.
Classify the information in the transcript below into exactly three lists:
- family_info: facts and events about family and personal life
- business_info: facts and events about work, money, and projects
- misc_info: anything meaningful that fits neither list

Each list item must be one short sentence. Ignore filler and small talk.
Respond with strict JSON only, in the shape:
{"family_info": [], "business_info": [], "misc_info": []}

Transcript:
%s`

// GeminiClassifier classifies transcripts through the Gemini API
type GeminiClassifier struct {
	model *genai.GenerativeModel
}

// NewGeminiClassifier creates a classifier backed by the given model name
func NewGeminiClassifier(client *genai.Client, modelName string) *GeminiClassifier {
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &GeminiClassifier{model: model}
}

// Classify sends the combined transcript text to the model and parses the
// three-list JSON reply. A reply that does not parse returns ErrBadFormat.
func (c *GeminiClassifier) Classify(ctx context.Context, text string) (*models.SummaryContent, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, text)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	reply, err := textFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return ParseContent(reply)
}

// ParseContent parses the model's JSON reply, tolerating markdown fences
// some models wrap JSON in.
func ParseContent(reply string) (*models.SummaryContent, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	content := &models.SummaryContent{}
	if err := json.Unmarshal([]byte(cleaned), content); err != nil {
		return nil, ErrBadFormat
	}

	// Never return nil lists; the API shape promises three arrays
	if content.FamilyInfo == nil {
		content.FamilyInfo = []string{}
	}
	if content.BusinessInfo == nil {
		content.BusinessInfo = []string{}
	}
	if content.MiscInfo == nil {
		content.MiscInfo = []string{}
	}

	return content, nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrBadFormat
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", ErrBadFormat
	}
	return sb.String(), nil
}
