package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/generation"
	"github.com/spigell/interview-coach/internal/questions"
)

const parallelFiles = 4

var questionsCmd = &cobra.Command{
	Use:   "questions <file>...",
	Short: "Generate interview questions for one or more résumé files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateQuestions(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().Uint64("seed", 0, "random seed for template selection")
}

type fileQuestions struct {
	File   string             `json:"file"`
	Result *generation.Result `json:"result"`
}

func generateQuestions(cmd *cobra.Command, files []string) error {
	logger, config := setup()

	seed := config.Interview.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallelFiles)

	generator, err := newGenerator(ctx, config.AI.Gemini, logger)
	if err != nil {
		logger.Warn("gemini is disabled", zap.Error(err))
		generator = nil
	}

	parser := newParser(config.Parse, logger)
	orchestrator := newOrchestrator(config, generator, questions.NewRand(seed), logger)

	results := make([]fileQuestions, len(files))
	for i, path := range files {
		g.Go(func() error {
			doc, err := docparse.Load(path)
			if err != nil {
				return err
			}

			res, err := orchestrator.Generate(ctx, generation.Input{
				ResumeText: parser.Parse(ctx, *doc),
				File:       doc,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = fileQuestions{File: path, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("generating questions", zap.Error(err))
		if errors.Is(err, generation.ErrInvalidInput) || errors.Is(err, generation.ErrExhausted) {
			return errors.New(generation.UserMessage(err))
		}
		return err
	}

	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		printResult(os.Stdout, r.File, r.Result)
	}
	return nil
}
