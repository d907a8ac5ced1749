// Package gemini provides a remix.Generator implementation using Google's Gemini API.
//
// This provider uses the Gemini API backend via the official Go SDK:
// https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mhpenta/remix"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBanana2 is the actual API name for Gemini 3 Pro Image
	APIModelNanoBanana2 = "gemini-3-pro-image-preview"

	// APIModelNanoBanana1 is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana1 = "gemini-2.5-flash-image"

	DefaultModel = APIModelNanoBanana1
)

// APIKeyEnv is the name of the credential this provider requires.
const APIKeyEnv = "GEMINI_API_KEY"

// contentGenerator is the subset of *genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements remix.Generator using Google's Gemini API.
type GeminiGenerator struct {
	models         contentGenerator
	defaults       *remix.GenerateConfig
	safetySettings []*genai.SafetySetting
}

// Ensure GeminiGenerator implements the interface.
var _ remix.Generator = (*GeminiGenerator)(nil)

// New creates a new GeminiGenerator from a ProviderConfig.
// A missing API key is a *remix.ConfigurationError and no client is built.
func New(ctx context.Context, config *remix.ProviderConfig) (*GeminiGenerator, error) {
	if config == nil || strings.TrimSpace(config.APIKey) == "" {
		return nil, &remix.ConfigurationError{Key: APIKeyEnv}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGenerator(client.Models, config.Generate), nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	return New(ctx, &remix.ProviderConfig{
		Provider: remix.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

func newGenerator(models contentGenerator, defaults *remix.GenerateConfig) *GeminiGenerator {
	if defaults == nil {
		defaults = remix.DefaultConfig()
	}
	return &GeminiGenerator{
		models:         models,
		defaults:       defaults,
		safetySettings: convertSafetySettings(defaults.SafetySettings),
	}
}

// Generate sends image A, image B and the prompt as one request and
// normalizes the interleaved image/text response.
func (g *GeminiGenerator) Generate(ctx context.Context, req remix.GenerationRequest) (*remix.GenerationResult, error) {
	if err := remix.ValidatePrompt(req.Prompt()); err != nil {
		return nil, remix.NewGenerationFailure(err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(buildParts(req), genai.RoleUser),
	}

	result, err := g.models.GenerateContent(ctx, g.resolveModel(), contents, g.buildGenerateContentConfig())
	if err != nil {
		return nil, translateError(err)
	}

	return parseResult(result)
}

// Close releases any resources held by the generator.
func (g *GeminiGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// buildParts lays out the request as image A, image B, prompt. The model
// reads the images in that order.
func buildParts(req remix.GenerationRequest) []*genai.Part {
	images := req.Images()
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     img.Data,
				MIMEType: img.MIMEType,
			},
		})
	}
	return append(parts, &genai.Part{Text: req.Prompt()})
}

// resolveModel maps the configured model to an API name. Public names such
// as "nano-banana-2" are translated; unknown names are passed through.
func (g *GeminiGenerator) resolveModel() string {
	if g.defaults == nil || g.defaults.Model == "" {
		return DefaultModel
	}
	if info, ok := LookupModel(g.defaults.Model.String()); ok {
		return info.APIModelName
	}
	return g.defaults.Model.String()
}

// buildGenerateContentConfig declares that both image and text may come back.
func (g *GeminiGenerator) buildGenerateContentConfig() *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	if g.defaults != nil && g.defaults.Temperature != nil {
		genConfig.Temperature = genai.Ptr(*g.defaults.Temperature)
	}

	if len(g.safetySettings) > 0 {
		genConfig.SafetySettings = g.safetySettings
	}

	return genConfig
}

// convertSafetySettings converts our SafetySettings to Gemini's format.
func convertSafetySettings(settings []remix.SafetySetting) []*genai.SafetySetting {
	result := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		result = append(result, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return result
}

// parseResult walks the first candidate's parts in order. When several
// image or text parts are present the last one of each kind is kept.
func parseResult(result *genai.GenerateContentResponse) (*remix.GenerationResult, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, noImageFailure(result, nil)
	}

	candidate := result.Candidates[0]
	genResult := &remix.GenerationResult{}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}

			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				genResult.ImageURL = remix.DataURI(mimeType, part.InlineData.Data)
			}

			if part.Text != "" {
				genResult.Text = part.Text
			}
		}
	}

	if !genResult.HasImage() {
		return nil, noImageFailure(result, candidate)
	}

	if result.UsageMetadata != nil {
		genResult.UsageMetadata = &remix.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return genResult, nil
}

// noImageFailure builds the NoImageReturned failure, naming the block or
// finish reason when the model stopped for one.
func noImageFailure(result *genai.GenerateContentResponse, candidate *genai.Candidate) *remix.GenerationFailure {
	var reason string
	switch {
	case result != nil && result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "":
		reason = "prompt blocked: " + string(result.PromptFeedback.BlockReason)
	case candidate != nil && candidate.FinishReason != "" &&
		candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop:
		reason = "finish reason: " + string(candidate.FinishReason)
	}

	if reason == "" {
		return &remix.GenerationFailure{Message: remix.ErrNoImageReturned.Error(), Err: remix.ErrNoImageReturned}
	}
	return &remix.GenerationFailure{
		Message: fmt.Sprintf("%s (%s)", remix.ErrNoImageReturned, reason),
		Err:     fmt.Errorf("%w: %s", remix.ErrNoImageReturned, reason),
	}
}

// translateError normalizes a transport or API error into a GenerationFailure.
// API errors carry a cleaner message than their Error() string.
func translateError(err error) *remix.GenerationFailure {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &remix.GenerationFailure{Message: apiErr.Message, Err: err}
	}
	return remix.NewGenerationFailure(err)
}
