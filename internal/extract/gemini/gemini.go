// Package gemini implements extract.Extractor with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/gravitrone/cocoon/internal/extract"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Ensure Extractor implements extract.Extractor at compile time.
var _ extract.Extractor = (*Extractor)(nil)

// contentGenerator is the part of *genai.Models the extractor uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Extractor sends one request per image and parses the JSON reply.
type Extractor struct {
	models contentGenerator
	model  string
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key required (set GEMINI_API_KEY)")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// NewExtractor creates an extractor using client and model.
func NewExtractor(client *genai.Client, model string) *Extractor {
	var models contentGenerator
	if client != nil {
		models = client.Models
	}
	return newExtractor(models, model)
}

func newExtractor(models contentGenerator, model string) *Extractor {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Extractor{models: models, model: model}
}

// Model returns the model name requests are sent to.
func (e *Extractor) Model() string {
	return e.model
}

// Extract asks the model for the fields of img. There is no retry.
func (e *Extractor) Extract(ctx context.Context, img extract.Image, docType string) (extract.Result, error) {
	if len(img.Data) == 0 {
		return extract.Result{}, fmt.Errorf("image is empty")
	}
	if e.models == nil {
		return extract.Result{}, fmt.Errorf("gemini client not configured")
	}

	result, err := e.models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extract.Prompt(docType)},
				{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}},
			},
		}},
		BuildConfig(),
	)
	if err != nil {
		return extract.Result{}, fmt.Errorf("gemini request: %w", err)
	}
	if result == nil {
		return extract.Result{}, fmt.Errorf("gemini returned nil result")
	}
	return extract.ParseResponse(result.Text())
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
