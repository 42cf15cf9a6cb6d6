package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel         = "gemini-2.0-flash"
	defaultFallbackModel = "gemini-flash-latest"
)

// contentCaller matches the generate call of genai.Models so tests can
// substitute the network client.
type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client. It sends every prompt to the
// configured primary model and, when that model turns out not to exist,
// retries exactly once against the fallback model. Any other failure is
// returned to the caller as is.
type Generator struct {
	models        contentCaller
	model         string
	fallbackModel string
	logger        *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model, fallbackModel string, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if fallbackModel = strings.TrimSpace(fallbackModel); fallbackModel == "" {
		fallbackModel = defaultFallbackModel
	}
	if fallbackModel == model {
		return nil, fmt.Errorf("fallback model must differ from primary model %q", model)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:        client.Models,
		model:         model,
		fallbackModel: fallbackModel,
		logger:        logger,
	}, nil
}

// GenerateContent sends the prompt to the primary model and returns the
// textual response. A not-found failure of the primary model triggers a
// single retry against the fallback model.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	output, err := g.call(ctx, g.model, prompt)
	if err == nil {
		return output, nil
	}

	if !isModelNotFound(err) || g.fallbackModel == "" {
		return "", err
	}

	g.logger.Warn("primary model not found, retrying with fallback model",
		zap.String("model", g.model),
		zap.String("fallback_model", g.fallbackModel),
		zap.Error(err),
	)

	output, ferr := g.call(ctx, g.fallbackModel, prompt)
	if ferr != nil {
		return "", fmt.Errorf("fallback model %s: %w", g.fallbackModel, ferr)
	}

	return output, nil
}

// Model returns the primary model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) call(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", model, err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// isModelNotFound reports whether the error is a not-found-class failure
// from the API, meaning the requested model does not exist for this key.
func isModelNotFound(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || strings.EqualFold(apiErr.Status, "NOT_FOUND")
}
