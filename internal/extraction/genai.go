package extraction

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"admission-workers/internal/models"
)

const DefaultModel = "gemini-2.5-flash"

type GenAIConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// generateFunc sends the prompt and the file to the model and returns its
// text answer.
type generateFunc func(ctx context.Context, prompt string, file []byte, mediaType string) (string, error)

// GenAIExtractor reads documents with a Gemini model.
type GenAIExtractor struct {
	model    string
	timeout  time.Duration
	generate generateFunc
}

func NewGenAIExtractor(ctx context.Context, cfg GenAIConfig) (*GenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	temperature := cfg.Temperature
	generate := func(ctx context.Context, prompt string, file []byte, mediaType string) (string, error) {
		contents := []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromText(prompt),
				genai.NewPartFromBytes(file, mediaType),
			}, genai.RoleUser),
		}
		resp, err := client.Models.GenerateContent(ctx, cfg.Model, contents, &genai.GenerateContentConfig{
			Temperature:      &temperature,
			ResponseMIMEType: "application/json",
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}

	return newGenAIExtractor(cfg.Model, cfg.Timeout, generate), nil
}

func newGenAIExtractor(model string, timeout time.Duration, generate generateFunc) *GenAIExtractor {
	return &GenAIExtractor{model: model, timeout: timeout, generate: generate}
}

func (e *GenAIExtractor) Name() string {
	return fmt.Sprintf("genai:%s", e.model)
}

func (e *GenAIExtractor) Analyze(ctx context.Context, file []byte, mediaType string) (*models.DocumentCandidate, error) {
	if len(file) == 0 {
		return nil, ErrEmptyDocument
	}
	mt, err := NormalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.generate(ctx, analyzePrompt, file, mt)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return ParseCandidate([]byte(text))
}
