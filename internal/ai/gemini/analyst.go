package gemini

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"
)

// analysisInputLimit bounds the résumé text sent for analysis.
const analysisInputLimit = 3000

//go:embed analysis_prompt.md
var analysisPrompt string

// ResumeAnalyst produces structured résumé breakdowns for the upload backend.
type ResumeAnalyst struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Analyst = (*ResumeAnalyst)(nil)

func NewResumeAnalyst(generator jsonGenerator, maxLogLength int, logger *zap.Logger) *ResumeAnalyst {
	if maxLogLength <= 0 {
		maxLogLength = utils.DefaultLogPreview
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResumeAnalyst{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// Analyze returns skills, experience and categorized questions. An analysis
// without any question is an error.
func (a *ResumeAnalyst) Analyze(ctx context.Context, resumeText string, skills []string) (*ai.Analysis, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, errors.New("resume text is required")
	}
	if runes := []rune(resumeText); len(runes) > analysisInputLimit {
		resumeText = string(runes[:analysisInputLimit])
	}

	detected := "general skills"
	if len(skills) > 0 {
		detected = strings.Join(skills, ", ")
	}

	prompt := strings.ReplaceAll(analysisPrompt, "{{SKILLS}}", detected)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", resumeText)

	a.logger.Debug("gemini analysis request", zap.Int("prompt_length", utf8.RuneCountInString(prompt)))

	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	if len(analysis.Skills) == 0 {
		analysis.Skills = append([]string(nil), skills...)
	}
	analysis.Raw = raw
	return analysis, nil
}

type analysisPayload struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Questions  struct {
		Technical []any `json:"technical"`
		HR        []any `json:"hr"`
	} `json:"questions"`
}

func parseAnalysis(raw string) (*ai.Analysis, error) {
	data, err := decodeDocument(raw, analysisLoader)
	if err != nil {
		return nil, err
	}

	var payload analysisPayload
	if err := weakDecode(data, &payload); err != nil {
		return nil, fmt.Errorf("decode gemini analysis: %w", err)
	}

	analysis := &ai.Analysis{
		Skills:     compact(payload.Skills),
		Experience: compact(payload.Experience),
		Technical:  questionTexts(payload.Questions.Technical),
		HR:         questionTexts(payload.Questions.HR),
	}
	if len(analysis.Technical) == 0 && len(analysis.HR) == 0 {
		return nil, errors.New("gemini analysis contains no questions")
	}
	return analysis, nil
}

// questionTexts accepts plain strings or {"question": ...} objects.
func questionTexts(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if q, ok := v["question"].(string); ok {
				out = append(out, q)
			}
		}
	}
	return compact(out)
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
