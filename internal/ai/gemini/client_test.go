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

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResponse
	calls   int
	configs []*genai.GenerateContentConfig
	prompts []string
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.configs = append(f.configs, config)
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.resp, next.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func newTestGenerator(models contentModels, retries int) *Generator {
	g := newGenerator(models, "gemini-test", retries, zap.NewNop())
	g.baseDelay = 0
	return g
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)

	output, err := newTestGenerator(models, 2).GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	models := &fakeModels{}
	for i := 0; i < 3; i++ {
		models.enqueue(nil, genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"})
	}

	_, err := newTestGenerator(models, 2).GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
	if models.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", models.calls)
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	if _, err := newTestGenerator(models, 3).GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error")
	}
	if models.calls != 1 {
		t.Fatalf("expected a single call, got %d", models.calls)
	}
}

func TestGeneratorJoinsPartsAndPinsJSON(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse(" first ", "", "second"), nil)

	output, err := newTestGenerator(models, 0).GenerateJSON(context.Background(), "  prompt  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "first\nsecond" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.configs[0] == nil || models.configs[0].ResponseMIMEType != jsonMIMEType {
		t.Fatalf("expected JSON mime type, got %+v", models.configs[0])
	}
	if models.prompts[0] != "prompt" {
		t.Fatalf("expected trimmed prompt, got %q", models.prompts[0])
	}
}

func TestGeneratorRejectsEmptyInputAndOutput(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse("  "), nil)
	g := newTestGenerator(models, 0)

	if _, err := g.GenerateContent(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{name: "nil", err: nil, expect: false},
		{name: "server error", err: genai.APIError{Code: http.StatusServiceUnavailable}, expect: true},
		{name: "throttled pointer", err: &genai.APIError{Code: http.StatusTooManyRequests}, expect: true},
		{name: "bad request", err: genai.APIError{Code: http.StatusBadRequest}, expect: false},
		{name: "deadline", err: context.DeadlineExceeded, expect: true},
		{name: "canceled", err: context.Canceled, expect: false},
		{name: "unavailable text", err: errors.New("service Unavailable"), expect: true},
		{name: "plain", err: errors.New("boom"), expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isRetryable(tt.err); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
