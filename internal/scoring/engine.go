package scoring

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/questions"
)

// Source tells which evaluator produced a score.
type Source string

const (
	SourceJudge     Source = "judge"
	SourceHeuristic Source = "heuristic"
)

const (
	judgePositiveAbove  = 70
	heuristicPositiveAt = 85
	defaultJudgeTimeout = 30 * time.Second
)

// AnswerScore is the result of scoring one answer.
type AnswerScore struct {
	// Score is this answer's score, 0..100.
	Score int
	// Running is the session mean including this answer.
	Running int
	// Feedback is rendered HTML.
	Feedback   string
	IsPositive bool
	Source     Source
}

// Engine scores answers with a remote judge when one is configured and with
// the word-count heuristic otherwise.
type Engine struct {
	judge        ai.Judge
	judgeTimeout time.Duration
	logger       *zap.Logger

	mu  sync.Mutex
	rng questions.Rand
}

// Option customizes an Engine.
type Option func(*Engine)

// WithJudgeTimeout bounds each remote judge call.
func WithJudgeTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.judgeTimeout = d
		}
	}
}

// New creates an engine. A nil judge means no AI credential is configured.
func New(judge ai.Judge, rng questions.Rand, logger *zap.Logger, opts ...Option) *Engine {
	if rng == nil {
		rng = questions.NewRand(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		judge:        judge,
		judgeTimeout: defaultJudgeTimeout,
		logger:       logger,
		rng:          rng,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score evaluates answer to question asked at index, folding it into the
// running mean. Judge failures are logged and never returned.
func (e *Engine) Score(ctx context.Context, answer, question string, index, running int) AnswerScore {
	if e.judge != nil {
		if res, ok := e.fromJudge(ctx, answer, question); ok {
			res.Running = Running(running, index, res.Score)
			return res
		}
	}

	e.mu.Lock()
	score := Heuristic(answer, e.rng)
	feedback := Feedback(score, e.rng)
	e.mu.Unlock()

	return AnswerScore{
		Score:      score,
		Running:    Running(running, index, score),
		Feedback:   feedback,
		IsPositive: score >= heuristicPositiveAt,
		Source:     SourceHeuristic,
	}
}

func (e *Engine) fromJudge(ctx context.Context, answer, question string) (AnswerScore, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.judgeTimeout)
	defer cancel()

	verdict, err := e.judge.Judge(ctx, question, answer)
	if err != nil {
		e.logger.Warn("remote judge failed, using heuristic", zap.Error(err))
		return AnswerScore{}, false
	}

	score := verdict.Score
	if !verdict.Relevant {
		score = 0
	}

	feedback := verdict.FeedbackHTML
	if strings.TrimSpace(feedback) == "" {
		e.mu.Lock()
		feedback = Feedback(score, e.rng)
		e.mu.Unlock()
	}

	e.logger.Debug("answer judged", zap.Int("score", score), zap.Bool("relevant", verdict.Relevant))

	return AnswerScore{
		Score:      score,
		Feedback:   feedback,
		IsPositive: score > judgePositiveAbove,
		Source:     SourceJudge,
	}, true
}

// Heuristic scores an answer by its word count.
func Heuristic(answer string, rng questions.Rand) int {
	words := len(strings.Fields(answer))
	switch {
	case words == 0:
		return 0
	case words < 5:
		return 20
	case words < 20:
		return 50 + rng.IntN(10)
	case words < 50:
		return 70 + rng.IntN(10)
	default:
		return 85 + rng.IntN(10)
	}
}

// Running returns the mean after adding score as answer number index+1,
// truncating toward zero at every step.
func Running(prev, index, score int) int {
	if index <= 0 {
		return score
	}
	return (prev*index + score) / (index + 1)
}
