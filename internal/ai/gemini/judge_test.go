package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.GenerateContent(ctx, prompt)
}

func TestAnswerJudge(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": 88, \"is_relevant\": true, \"feedback_html\": \"<div class=\\\"feedback-card\\\">Nice</div>\"}\n```"}
	judge := NewAnswerJudge(stub, 0, zap.NewNop())

	verdict, err := judge.Judge(context.Background(), "What is a goroutine?", `A "lightweight" thread`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.Score != 88 || !verdict.Relevant {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if !strings.Contains(verdict.FeedbackHTML, "feedback-card") {
		t.Fatalf("unexpected feedback: %q", verdict.FeedbackHTML)
	}
	if verdict.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}
	if !strings.Contains(stub.lastPrompt, `Question: "What is a goroutine?"`) {
		t.Fatalf("expected question in prompt, got %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, `A \"lightweight\" thread`) {
		t.Fatalf("expected escaped answer in prompt, got %s", stub.lastPrompt)
	}
}

func TestParseVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		raw          string
		wantErr      bool
		wantScore    int
		wantRelevant bool
	}{
		{name: "plain json", raw: `{"score": 40, "is_relevant": true}`, wantScore: 40, wantRelevant: true},
		{name: "string values", raw: `{"score": "72.6", "is_relevant": "false"}`, wantScore: 73, wantRelevant: false},
		{name: "clamped", raw: `{"score": 140}`, wantScore: 100, wantRelevant: true},
		{name: "prose around json", raw: `Here you go: {"score": 0, "is_relevant": false} thanks`, wantScore: 0, wantRelevant: false},
		{name: "missing score", raw: `{"is_relevant": true}`, wantErr: true},
		{name: "not json", raw: `great answer`, wantErr: true},
		{name: "wrong type", raw: `{"score": [1]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := parseVerdict(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Score != tt.wantScore || v.Relevant != tt.wantRelevant {
				t.Fatalf("unexpected verdict: %+v", v)
			}
		})
	}
}

func TestAnswerJudgePropagatesErrors(t *testing.T) {
	judge := NewAnswerJudge(&stubGenerator{err: errors.New("boom")}, 10, nil)
	if _, err := judge.Judge(context.Background(), "q", "a"); err == nil {
		t.Fatalf("expected generator error")
	}
	if _, err := judge.Judge(context.Background(), " ", "a"); err == nil {
		t.Fatalf("expected error for empty question")
	}
}

func TestQuestionWriter(t *testing.T) {
	stub := &stubGenerator{response: `["one?", "two?"]`}
	writer := NewQuestionWriter(stub, 0, nil)

	raw, err := writer.WriteQuestions(context.Background(), "Go developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != stub.response {
		t.Fatalf("expected raw response, got %q", raw)
	}
	if !strings.Contains(stub.lastPrompt, "Go developer") {
		t.Fatalf("expected resume in prompt")
	}

	if _, err := writer.WriteQuestions(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty resume")
	}
}

func TestResumeAnalyst(t *testing.T) {
	stub := &stubGenerator{response: `{
		"skills": ["go", " "],
		"experience": ["5 years backend"],
		"questions": {
			"technical": [{"level": "beginner", "question": "What is a channel?"}, "Explain interfaces."],
			"hr": ["Why this role?"]
		}
	}`}
	analyst := NewResumeAnalyst(stub, 0, nil)

	analysis, err := analyst.Analyze(context.Background(), "Go developer", []string{"go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.Technical) != 2 || analysis.Technical[0] != "What is a channel?" {
		t.Fatalf("unexpected technical questions: %v", analysis.Technical)
	}
	if len(analysis.HR) != 1 || len(analysis.Skills) != 1 || len(analysis.Experience) != 1 {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	if !strings.Contains(stub.lastPrompt, "Skills already detected: go") {
		t.Fatalf("expected detected skills in prompt")
	}
}

func TestResumeAnalystRejectsEmptyQuestions(t *testing.T) {
	stub := &stubGenerator{response: `{"skills": [], "questions": {"technical": [], "hr": []}}`}
	analyst := NewResumeAnalyst(stub, 0, nil)

	if _, err := analyst.Analyze(context.Background(), "text", nil); err == nil {
		t.Fatalf("expected error when no questions are returned")
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect string
	}{
		{name: "fenced", raw: "```json\n{\"a\":1}\n```", expect: `{"a":1}`},
		{name: "bare fence", raw: "```\n[1,2]\n```", expect: `[1,2]`},
		{name: "leading prose", raw: "Sure! [\"q\"] done", expect: `["q"]`},
		{name: "untouched", raw: `{"a":1}`, expect: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.raw); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
