package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/generation"
	"github.com/spigell/interview-coach/internal/logger"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	uploadField   = "resume"
	maxSkills     = 15
	maxExperience = 5
)

var allowedExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

type uploadResponse struct {
	Status      string                 `json:"status"`
	Questions   []string               `json:"questions"`
	Skills      []string               `json:"skills"`
	Experience  []string               `json:"experience"`
	Categorized generation.Categorized `json:"questions_categorized"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func fail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(errorResponse{Status: statusError, Error: message})
}

func (s *Server) upload(c *fiber.Ctx) error {
	log := logger.WithFields(s.logger, logger.StringFields(
		logger.StringField{Key: logger.FieldRequest, Value: c.GetRespHeader(fiber.HeaderXRequestID)},
	)...)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		log.Warn("upload without file", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "No file part in request")
	}
	if fh.Filename == "" {
		return fail(c, fiber.StatusBadRequest, "No file selected")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		log.Warn("unsupported upload", zap.String("file", fh.Filename))
		return fail(c, fiber.StatusBadRequest,
			fmt.Sprintf("Unsupported file format: %s. Please upload PDF, DOCX, or TXT.", ext))
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	log.Info("processing upload", zap.String("file", fh.Filename), zap.Int("bytes", len(data)))

	text, err := s.parser.Extract(c.UserContext(), docparse.Document{Name: fh.Filename, Data: data})
	if err != nil {
		log.Error("text extraction failed", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to extract text from file: "+err.Error())
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < generation.MinResumeLength {
		return fail(c, fiber.StatusBadRequest,
			"Resume content appears to be empty or too short. Please check your file.")
	}

	skills := s.bank.MatchSkills(text)
	log.Debug("skills matched", zap.Strings("skills", skills))

	if resp, err := s.analyze(c.UserContext(), text, skills); err == nil {
		log.Info("questions generated", zap.String(logger.FieldProvider, "ai"), zap.Int("questions", len(resp.Questions)))
		return c.JSON(resp)
	} else if !errors.Is(err, errNoAnalyst) {
		log.Warn("analysis failed, using question bank", zap.Error(err))
	}

	resp := s.draft(skills)
	log.Info("questions generated", zap.String(logger.FieldProvider, "bank"), zap.Int("questions", len(resp.Questions)))
	return c.JSON(resp)
}

var errNoAnalyst = errors.New("no analyst configured")

func (s *Server) analyze(ctx context.Context, text string, skills []string) (*uploadResponse, error) {
	if s.analyst == nil {
		return nil, errNoAnalyst
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.AnalysisTimeout)
	defer cancel()

	analysis, err := s.analyst.Analyze(ctx, text, skills)
	if err != nil {
		return nil, err
	}

	qs := make([]string, 0, 1+len(analysis.Technical)+len(analysis.HR))
	qs = append(qs, s.bank.Intro)
	qs = append(qs, analysis.Technical...)
	qs = append(qs, analysis.HR...)

	return &uploadResponse{
		Status:     statusSuccess,
		Questions:  qs,
		Skills:     head(analysis.Skills, maxSkills),
		Experience: head(analysis.Experience, maxExperience),
		Categorized: generation.Categorized{
			Technical: nonNil(analysis.Technical),
			HR:        nonNil(analysis.HR),
		},
	}, nil
}

func (s *Server) draft(skills []string) *uploadResponse {
	s.mu.Lock()
	d := s.bank.Draft(skills, s.rng)
	s.mu.Unlock()

	experience := []string{"General experience"}
	if len(skills) > 0 {
		experience = []string{"Experience in " + skills[0]}
	}

	return &uploadResponse{
		Status:     statusSuccess,
		Questions:  d.Questions,
		Skills:     head(skills, maxSkills),
		Experience: experience,
		Categorized: generation.Categorized{
			Technical: d.Technical,
			HR:        d.HR,
		},
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return nonNil(items)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
