package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeCaller struct {
	mu    sync.Mutex
	calls []callRecord
	queue map[string][]fakeResponse
}

type callRecord struct {
	model  string
	prompt string
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{queue: make(map[string][]fakeResponse)}
}

func (f *fakeCaller) enqueue(model, text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var resp *genai.GenerateContentResponse
	if err == nil {
		resp = &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
			}},
		}
	}
	f.queue[model] = append(f.queue[model], fakeResponse{resp: resp, err: err})
}

func (f *fakeCaller) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prompt := ""
	for _, content := range contents {
		for _, part := range content.Parts {
			prompt += part.Text
		}
	}
	f.calls = append(f.calls, callRecord{model: model, prompt: prompt})

	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	return res.resp, res.err
}

func newTestGenerator(caller contentCaller) *Generator {
	return &Generator{
		models:        caller,
		model:         "gemini-2.0-flash",
		fallbackModel: "gemini-flash-latest",
		logger:        zap.NewNop(),
	}
}

func TestGenerateContentUsesPrimaryModel(t *testing.T) {
	t.Parallel()

	caller := newFakeCaller()
	caller.enqueue("gemini-2.0-flash", `{"ok": true}`, nil)

	g := newTestGenerator(caller)

	output, err := g.GenerateContent(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != `{"ok": true}` {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(caller.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(caller.calls))
	}

	if caller.calls[0].prompt != "analyze this" {
		t.Fatalf("unexpected prompt: %q", caller.calls[0].prompt)
	}
}

func TestGenerateContentFallsBackWhenModelNotFound(t *testing.T) {
	t.Parallel()

	caller := newFakeCaller()
	caller.enqueue("gemini-2.0-flash", "", genai.APIError{Code: http.StatusNotFound, Status: "NOT_FOUND"})
	caller.enqueue("gemini-flash-latest", "fallback answer", nil)

	g := newTestGenerator(caller)

	output, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "fallback answer" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(caller.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(caller.calls))
	}

	if caller.calls[1].model != "gemini-flash-latest" {
		t.Fatalf("expected fallback model call, got %q", caller.calls[1].model)
	}
}

func TestGenerateContentDoesNotFallBackOnOtherErrors(t *testing.T) {
	t.Parallel()

	caller := newFakeCaller()
	caller.enqueue("gemini-2.0-flash", "", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"})

	g := newTestGenerator(caller)

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}

	if len(caller.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(caller.calls))
	}
}

func TestGenerateContentFallbackFailureIsReturned(t *testing.T) {
	t.Parallel()

	caller := newFakeCaller()
	caller.enqueue("gemini-2.0-flash", "", genai.APIError{Code: http.StatusNotFound, Status: "NOT_FOUND"})
	caller.enqueue("gemini-flash-latest", "", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})

	g := newTestGenerator(caller)

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when fallback also fails")
	}

	if len(caller.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(caller.calls))
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(newFakeCaller())

	if _, err := g.GenerateContent(context.Background(), "  \n"); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestGenerateContentJoinsCandidateParts(t *testing.T) {
	t.Parallel()

	caller := newFakeCaller()
	caller.queue["gemini-2.0-flash"] = []fakeResponse{{
		resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "first"},
					{Text: "  "},
					{Text: "second"},
				}},
			}},
		},
	}}

	g := newTestGenerator(caller)

	output, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "first\nsecond" {
		t.Fatalf("unexpected output: %q", output)
	}
}
