package gemini

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

//go:embed judge_prompt.md
var judgePrompt string

// AnswerJudge scores interview answers with Gemini.
type AnswerJudge struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Judge = (*AnswerJudge)(nil)

// NewAnswerJudge creates a judge on top of the generator.
func NewAnswerJudge(generator jsonGenerator, maxLogLength int, logger *zap.Logger) *AnswerJudge {
	if maxLogLength <= 0 {
		maxLogLength = utils.DefaultLogPreview
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnswerJudge{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Judge asks the model to evaluate answer against question.
func (j *AnswerJudge) Judge(ctx context.Context, question, answer string) (*ai.Verdict, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New("question is required")
	}

	prompt := strings.ReplaceAll(judgePrompt, "{{QUESTION}}", quote(question))
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", quote(answer))

	j.logger.Debug("gemini judge request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("answer_preview", utils.TruncateForLog(answer, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("gemini judge response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	verdict, err := parseVerdict(raw)
	if err != nil {
		return nil, err
	}
	verdict.Raw = raw
	return verdict, nil
}

type verdictPayload struct {
	Score        float64 `json:"score"`
	IsRelevant   *bool   `json:"is_relevant"`
	FeedbackHTML string  `json:"feedback_html"`
}

func parseVerdict(raw string) (*ai.Verdict, error) {
	data, err := decodeDocument(raw, verdictLoader)
	if err != nil {
		return nil, err
	}

	var payload verdictPayload
	if err := weakDecode(data, &payload); err != nil {
		return nil, fmt.Errorf("decode gemini verdict: %w", err)
	}
	if math.IsNaN(payload.Score) || math.IsInf(payload.Score, 0) {
		return nil, errors.New("gemini verdict score is not a number")
	}

	score := int(math.Round(payload.Score))
	score = max(0, min(100, score))

	relevant := score > 0
	if payload.IsRelevant != nil {
		relevant = *payload.IsRelevant
	}

	return &ai.Verdict{
		Score:        score,
		Relevant:     relevant,
		FeedbackHTML: strings.TrimSpace(payload.FeedbackHTML),
	}, nil
}

// quote keeps user text from closing the prompt's quoted block.
func quote(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, `\"`)
}
