package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/audio"
	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/generation"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
	"github.com/spigell/interview-coach/internal/session"
)

const (
	PromptStart   = "Start interview"
	PromptAnswer  = "Answer"
	PromptNext    = "Next question"
	PromptFinish  = "Finish"
	PromptEnd     = "End interview"
	PromptRestart = "Restart"
	PromptExit    = "Exit"
)

var errExit = errors.New("exit")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a practice interview for a résumé",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "résumé file (pdf, docx or txt)")
	runCmd.Flags().BoolP("questions-only", "q", false, "print the generated questions and exit")
	runCmd.Flags().Uint64("seed", 0, "random seed for question and tip selection (default is interview.seed or the clock)")

	runCmd.MarkFlagRequired("resume")
}

// run is the interactive interview command.
func run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config := setup()

	seed := config.Interview.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}

	path, _ := cmd.Flags().GetString("resume")
	doc, err := docparse.Load(path)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	text := newParser(config.Parse, logger).Parse(ctx, *doc)

	generator, err := newGenerator(ctx, config.AI.Gemini, logger)
	if err != nil {
		logger.Warn("gemini is disabled", zap.Error(err))
		generator = nil
	}

	orchestrator := newOrchestrator(config, generator, questions.NewRand(seed), logger)
	logger.Info("generating questions", zap.Strings("providers", orchestrator.Providers()))

	result, err := orchestrator.Generate(ctx, generation.Input{ResumeText: text, File: doc})
	if err != nil {
		logger.Error("generating questions", zap.Error(err))
		return errors.New(generation.UserMessage(err))
	}

	printResult(os.Stdout, path, result)

	if only, _ := cmd.Flags().GetBool("questions-only"); only {
		return nil
	}

	asked := result.Questions
	if n := config.Interview.QuestionCount; n > 0 && n < len(asked) {
		asked = asked[:n]
	}

	scoreRand := questions.NewRand(0)
	if seed != 0 {
		scoreRand = questions.NewRand(seed + 1)
	}
	engine := newScoringEngine(config, generator, scoreRand, logger)

	sess, err := session.New(asked, audio.NewConsole(os.Stdout), engine, logger.Named("session"))
	if err != nil {
		return err
	}

	if err := interview(ctx, sess, os.Stdout); err != nil && !errors.Is(err, errExit) {
		return err
	}
	return nil
}

// interview drives the session from a menu until the user exits.
func interview(ctx context.Context, sess *session.Session, out io.Writer) error {
	for {
		snap := sess.Snapshot()

		var items []string
		switch snap.State {
		case session.Intro:
			items = []string{PromptStart, PromptExit}
		case session.Question:
			items = []string{PromptAnswer, PromptEnd}
		case session.Feedback:
			next := PromptNext
			if snap.Index+1 >= snap.Count {
				next = PromptFinish
			}
			items = []string{next, PromptEnd}
		case session.Finished:
			items = []string{PromptRestart, PromptExit}
		default:
			sess.Wait()
			continue
		}

		label := fmt.Sprintf("Question %d/%d", snap.Index+1, snap.Count)
		if snap.State == session.Intro || snap.State == session.Finished {
			label = "Practice interview"
		}

		menu := promptui.Select{Label: label, Items: items}
		_, action, err := menu.Run()
		if err != nil {
			sess.End(ctx)
			return errExit
		}

		if err := handleAction(ctx, action, sess, out); err != nil {
			return err
		}
	}
}

func handleAction(ctx context.Context, action string, sess *session.Session, out io.Writer) error {
	switch action {
	case PromptStart:
		return sess.Start(ctx)
	case PromptAnswer:
		if err := sess.BeginAnswer(ctx); err != nil {
			return err
		}
		if err := sess.EndAnswer(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Scoring your answer...")
		sess.Wait()
		printFeedback(out, sess.Snapshot())
		return nil
	case PromptNext, PromptFinish:
		if err := sess.Next(ctx); err != nil {
			return err
		}
		if snap := sess.Snapshot(); snap.State == session.Finished {
			fmt.Fprintf(out, "\nFinal score: %d/100\n%s\n\n", snap.Running, scoring.PlainText(snap.FinalFeedback))
		}
		return nil
	case PromptEnd:
		sess.End(ctx)
		fmt.Fprintln(out, "Interview ended.")
		return nil
	case PromptRestart:
		return sess.Restart(ctx)
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printFeedback(out io.Writer, snap session.Snapshot) {
	if snap.AudioError != "" {
		fmt.Fprintf(out, "Audio problem: %s\n", snap.AudioError)
	}
	if snap.LastScore == nil {
		return
	}
	fmt.Fprintf(out, "\nAnswer score: %d/100 (running %d/100)\n%s\n\n",
		snap.LastScore.Score, snap.Running, scoring.PlainText(snap.LastFeedback))
}

func printResult(out io.Writer, file string, res *generation.Result) {
	fmt.Fprintf(out, "%s (%s):\n", file, res.Provider)
	for i, q := range res.Questions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q)
	}
	if res.Metadata != nil && len(res.Metadata.Skills) > 0 {
		fmt.Fprintf(out, "  skills: %v\n", res.Metadata.Skills)
	}
}
