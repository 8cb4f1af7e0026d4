package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the résumé upload backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "", "listen address (default is server.listen)")
}

func serve(cmd *cobra.Command) error {
	logger, config := setup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listen := config.Server.Listen
	if flag, _ := cmd.Flags().GetString("listen"); flag != "" {
		listen = flag
	}

	var analyst ai.Analyst
	generator, err := newGenerator(ctx, config.AI.Gemini, logger)
	if err != nil {
		logger.Warn("gemini is disabled", zap.Error(err))
	}
	if generator != nil {
		analyst = gemini.NewResumeAnalyst(generator, config.AI.Gemini.MaxLogLength, logger)
	}

	srv, err := server.New(server.Options{
		Listen:          listen,
		RateLimitMax:    config.Server.RateLimit.Max,
		RateLimitWindow: config.Server.RateLimit.Window,
		MaxUploadBytes:  config.Server.MaxUploadBytes,
		AnalysisTimeout: config.AI.Gemini.Timeout,
	}, server.Deps{
		Parser:  newParser(config.Parse, logger),
		Bank:    questions.DefaultBank(),
		Analyst: analyst,
		Rand:    questions.NewRand(config.Interview.Seed),
		Logger:  logger.Named("server"),
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
