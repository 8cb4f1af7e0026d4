package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/questions"
)

// MinResumeLength is the shortest trimmed résumé text accepted.
const MinResumeLength = 10

const (
	DefaultBackendTimeout = 15 * time.Second
	DefaultAITimeout      = 30 * time.Second
)

// Input is one résumé submission. File is set when the original upload is
// available for the backend provider.
type Input struct {
	ResumeText string
	File       *docparse.Document
}

// Categorized splits questions into technical and behavioural lists.
type Categorized struct {
	Technical []string `json:"technical"`
	HR        []string `json:"hr"`
}

// Metadata is optional signal-derived data attached to a result.
type Metadata struct {
	Skills      []string     `json:"skills,omitempty"`
	Experience  []string     `json:"experience,omitempty"`
	Categorized *Categorized `json:"categorized,omitempty"`
}

// Result is a generated question set and the provider that produced it.
type Result struct {
	Questions questions.Set `json:"questions"`
	Metadata  *Metadata     `json:"metadata,omitempty"`
	Provider  string        `json:"provider"`
}

// Provider is one source of questions in the fallback chain.
type Provider interface {
	Name() string
	// Applicable reports whether the provider can be tried for in.
	Applicable(in Input) bool
	Attempt(ctx context.Context, in Input) (*Result, error)
}

// Config selects the providers of the chain. Empty BackendURL or nil Writer
// leave the corresponding provider out.
type Config struct {
	BackendURL     string
	BackendTimeout time.Duration
	Writer         ai.QuestionWriter
	AITimeout      time.Duration
	Synthesizer    *questions.Synthesizer
}

// Orchestrator runs providers in order until one succeeds.
type Orchestrator struct {
	providers []Provider
	synth     *questions.Synthesizer
	logger    *zap.Logger
}

// New builds the backend, AI and local chain described by cfg.
func New(cfg Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	synth := cfg.Synthesizer
	if synth == nil {
		synth = questions.NewSynthesizer(nil, nil)
	}

	var providers []Provider
	if strings.TrimSpace(cfg.BackendURL) != "" {
		providers = append(providers, NewBackendProvider(cfg.BackendURL, cfg.BackendTimeout, logger.ForProvider(log, BackendName)))
	}
	if cfg.Writer != nil {
		providers = append(providers, NewAIProvider(cfg.Writer, cfg.AITimeout, logger.ForProvider(log, AIName)))
	}
	providers = append(providers, NewLocalProvider(synth))

	return NewWithProviders(synth, log, providers...)
}

// NewWithProviders uses an explicit chain. synth normalizes every result to
// questions.Count entries.
func NewWithProviders(synth *questions.Synthesizer, log *zap.Logger, providers ...Provider) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if synth == nil {
		synth = questions.NewSynthesizer(nil, nil)
	}
	return &Orchestrator{providers: providers, synth: synth, logger: log}
}

// Providers lists the chain in order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, 0, len(o.providers))
	for _, p := range o.providers {
		names = append(names, p.Name())
	}
	return names
}

// Generate returns exactly questions.Count questions from the first provider
// that succeeds. It fails only on invalid input or when every provider
// failed.
func (o *Orchestrator) Generate(ctx context.Context, in Input) (*Result, error) {
	in.ResumeText = strings.TrimSpace(in.ResumeText)
	if utf8.RuneCountInString(in.ResumeText) < MinResumeLength {
		return nil, ErrInvalidInput
	}

	var errs []error
	for _, p := range o.providers {
		if !p.Applicable(in) {
			o.logger.Debug("provider skipped", zap.String(logger.FieldProvider, p.Name()))
			continue
		}

		start := time.Now()
		res, err := p.Attempt(ctx, in)
		if err == nil && (res == nil || len(res.Questions) == 0) {
			err = newProviderError(p.Name(), ErrProviderMalformed, errors.New("no questions"))
		}
		if err != nil {
			perr := asProviderError(p.Name(), err)
			o.logger.Warn("provider failed",
				zap.String(logger.FieldProvider, p.Name()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(perr),
			)
			errs = append(errs, perr)
			continue
		}

		received := len(res.Questions)
		res.Questions = o.synth.Fill(res.Questions)
		res.Provider = p.Name()

		o.logger.Info("questions generated",
			zap.String(logger.FieldProvider, p.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Int("received", received),
			zap.Int("questions", len(res.Questions)),
		)
		return res, nil
	}

	if len(errs) == 0 {
		return nil, ErrExhausted
	}
	return nil, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}
