package inquiry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	inquiryModel "narration-desk/models/inquiry"

	"google.golang.org/genai"
)

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.5-flash-lite"

// Input is an inquiry as text, an image of one, or both.
type Input struct {
	Text     string
	Data     []byte
	MimeType string
}

func (in Input) source() string {
	if len(in.Data) > 0 {
		return "image"
	}
	return "text"
}

// Extractor turns an inquiry into booking fields.
type Extractor interface {
	Extract(ctx context.Context, in Input) (*inquiryModel.Extracted, error)
}

// GeminiExtractor asks Gemini to read the inquiry.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates a Gemini API client.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

const extractPrompt = `Read this audiobook narration inquiry and extract the booking details. Return ONLY valid JSON.

If a field is missing or unclear, use an empty string (or 0 for word_count).

Required JSON format:
{
"book_title": string,    // Title of the book to be narrated
"client_name": string,   // Author, publisher or producer sending the inquiry
"email": string,         // Contact email
"word_count": number,    // Manuscript length in words, digits only
"start_date": string,    // Requested recording start, YYYY-MM-DD
"end_date": string       // Requested delivery date, YYYY-MM-DD
}`

func (g *GeminiExtractor) Extract(ctx context.Context, in Input) (*inquiryModel.Extracted, error) {
	parts := []*genai.Part{{Text: extractPrompt}}
	if strings.TrimSpace(in.Text) != "" {
		parts = append(parts, &genai.Part{Text: "Inquiry:\n" + in.Text})
	}
	if len(in.Data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: in.MimeType,
			Data:     in.Data,
		}})
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no content generated")
	}
	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, errors.New("empty response from model")
	}
	return decodeExtracted(responseText)
}

func decodeExtracted(responseText string) (*inquiryModel.Extracted, error) {
	jsonText := extractJSONFromMarkdown(responseText)
	var parsed inquiryModel.Extracted
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}
	return &parsed, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	// Generic code block: drop the fence lines
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
