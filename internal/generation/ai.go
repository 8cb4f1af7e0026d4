package generation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
)

// AIName identifies the remote AI provider.
const AIName = "ai"

const (
	minAIQuestions  = 3
	minQuestionRune = 11
)

var (
	interrogativeCues = []string{"Tell me", "Describe", "How", "What"}
	listMarker        = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)
)

// AIProvider asks a QuestionWriter for questions and tolerates replies with
// code fences, surrounding prose, or plain-text lists.
type AIProvider struct {
	writer  ai.QuestionWriter
	timeout time.Duration
	logger  *zap.Logger
}

var _ Provider = (*AIProvider)(nil)

func NewAIProvider(writer ai.QuestionWriter, timeout time.Duration, logger *zap.Logger) *AIProvider {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIProvider{writer: writer, timeout: timeout, logger: logger}
}

func (p *AIProvider) Name() string { return AIName }

func (p *AIProvider) Applicable(Input) bool { return p.writer != nil }

func (p *AIProvider) Attempt(ctx context.Context, in Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.writer.WriteQuestions(ctx, in.ResumeText)
	if err != nil {
		return nil, asProviderError(AIName, err)
	}

	qs, err := parseAIQuestions(raw)
	if err != nil {
		salvaged := salvageQuestions(raw)
		if len(salvaged) < minAIQuestions {
			return nil, newProviderError(AIName, ErrProviderMalformed, err)
		}
		p.logger.Debug("salvaged questions from plain text", zap.Int("questions", len(salvaged)))
		qs = salvaged
	}

	return &Result{Questions: qs}, nil
}

// parseAIQuestions requires a JSON array with at least three usable strings.
func parseAIQuestions(raw string) ([]string, error) {
	payload := jsonArray(raw)
	if payload == "" || !gjson.Valid(payload) {
		return nil, errors.New("reply is not a JSON array")
	}

	var out []string
	gjson.Parse(payload).ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.String {
			return true
		}
		if q := strings.TrimSpace(v.String()); utf8.RuneCountInString(q) >= minQuestionRune {
			out = append(out, q)
		}
		return true
	})

	if len(out) < minAIQuestions {
		return nil, errors.New("reply has fewer than three usable questions")
	}
	return out, nil
}

// jsonArray strips code fences and surrounding prose, returning the outermost
// bracketed span or "".
func jsonArray(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start, end := strings.Index(s, "["), strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// salvageQuestions picks question-like lines out of free text.
func salvageQuestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, `",`)
		if utf8.RuneCountInString(line) < minQuestionRune || !questionLike(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func questionLike(line string) bool {
	if strings.Contains(line, "?") {
		return true
	}
	for _, cue := range interrogativeCues {
		if strings.HasPrefix(line, cue) {
			return true
		}
	}
	return false
}
