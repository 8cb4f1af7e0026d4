package gemini

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed questions_prompt.md
var questionsPrompt string

// QuestionWriter asks Gemini for personalized interview questions.
type QuestionWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.QuestionWriter = (*QuestionWriter)(nil)

func NewQuestionWriter(generator contentGenerator, maxLogLength int, logger *zap.Logger) *QuestionWriter {
	if maxLogLength <= 0 {
		maxLogLength = utils.DefaultLogPreview
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionWriter{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// WriteQuestions returns the model's raw reply. The reply is expected to be a
// JSON array of strings but is not validated here.
func (w *QuestionWriter) WriteQuestions(ctx context.Context, resumeText string) (string, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return "", errors.New("resume text is required")
	}

	prompt := strings.ReplaceAll(questionsPrompt, "{{RESUME}}", resumeText)

	w.logger.Debug("gemini questions request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	w.logger.Debug("gemini questions response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	return raw, nil
}
