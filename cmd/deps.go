package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/generation"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
	"github.com/spigell/interview-coach/internal/secrets"
)

// setup builds the logger and loads the config shared by every command.
func setup() (*zap.Logger, *Config) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Debug("starting", zap.String("app", app), zap.String("version", version))
	return zl, config
}

// newGenerator returns nil without error when no Gemini credential is
// configured, which selects the local-only paths.
func newGenerator(ctx context.Context, cfg GeminiConfig, zl *zap.Logger) (*gemini.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   []string{"GEMINI_API_KEY"},
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		zl.Info("gemini api key is not configured, using local question generation and scoring")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithFields(zl, logger.AIFields("gemini", cfg.Model)...).
		With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

	return gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
}

func newParser(cfg ParseConfig, zl *zap.Logger) *docparse.Parser {
	return docparse.NewParser(zl.Named("docparse"), cfg.DocumentTimeout, cfg.OverallTimeout)
}

func newOrchestrator(config *Config, generator *gemini.Generator, rng questions.Rand, zl *zap.Logger) *generation.Orchestrator {
	cfg := generation.Config{
		BackendURL:     config.Backend.URL,
		BackendTimeout: config.Backend.Timeout,
		AITimeout:      config.AI.Gemini.Timeout,
		Synthesizer:    questions.NewSynthesizer(nil, rng),
	}
	if generator != nil {
		cfg.Writer = gemini.NewQuestionWriter(generator, config.AI.Gemini.MaxLogLength, zl)
	}
	return generation.New(cfg, zl.Named("generation"))
}

func newScoringEngine(config *Config, generator *gemini.Generator, rng questions.Rand, zl *zap.Logger) *scoring.Engine {
	opts := []scoring.Option{scoring.WithJudgeTimeout(config.AI.Gemini.Timeout)}
	if generator == nil {
		return scoring.New(nil, rng, zl.Named("scoring"), opts...)
	}
	judge := gemini.NewAnswerJudge(generator, config.AI.Gemini.MaxLogLength, zl)
	return scoring.New(judge, rng, zl.Named("scoring"), opts...)
}
