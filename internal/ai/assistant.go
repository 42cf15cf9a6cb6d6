package ai

import "context"

// Generator is the outbound boundary to a hosted text-generation endpoint.
// Implementations own the model-selection and fallback policy; callers only
// see a prompt in and text out.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
