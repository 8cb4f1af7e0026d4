// Package ai holds provider-neutral contracts for the remote model calls.
package ai

import "context"

// Verdict is a remote judge's evaluation of one answer.
type Verdict struct {
	Score        int
	Relevant     bool
	FeedbackHTML string
	Raw          string
}

// Judge scores a candidate answer to a question.
type Judge interface {
	Judge(ctx context.Context, question, answer string) (*Verdict, error)
}

// QuestionWriter asks a model for interview questions and returns its raw
// reply. Callers are expected to parse the reply leniently.
type QuestionWriter interface {
	WriteQuestions(ctx context.Context, resumeText string) (string, error)
}

// Analysis is a structured résumé breakdown produced by a model.
type Analysis struct {
	Skills     []string
	Experience []string
	Technical  []string
	HR         []string
	Raw        string
}

// Analyst produces a structured analysis of a résumé.
type Analyst interface {
	Analyze(ctx context.Context, resumeText string, skills []string) (*Analysis, error)
}
