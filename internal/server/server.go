package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/questions"
)

const (
	DefaultListen          = ":5000"
	DefaultRateLimitMax    = 50
	DefaultRateLimitWindow = time.Minute
	DefaultMaxUploadBytes  = 5 * 1024 * 1024
	DefaultAnalysisTimeout = 30 * time.Second
)

// Options configures the HTTP backend.
type Options struct {
	Listen          string        `validate:"required"`
	RateLimitMax    int           `validate:"gte=0"`
	RateLimitWindow time.Duration `validate:"gte=0"`
	MaxUploadBytes  int           `validate:"gte=0"`
	AnalysisTimeout time.Duration `validate:"gte=0"`
}

func (o *Options) applyDefaults() {
	if o.Listen == "" {
		o.Listen = DefaultListen
	}
	if o.RateLimitMax == 0 {
		o.RateLimitMax = DefaultRateLimitMax
	}
	if o.RateLimitWindow == 0 {
		o.RateLimitWindow = DefaultRateLimitWindow
	}
	if o.MaxUploadBytes == 0 {
		o.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if o.AnalysisTimeout == 0 {
		o.AnalysisTimeout = DefaultAnalysisTimeout
	}
}

// Deps are the collaborators of the upload handler. Analyst is nil when no
// AI credential is configured.
type Deps struct {
	Parser  *docparse.Parser
	Bank    *questions.Bank
	Analyst ai.Analyst
	Rand    questions.Rand
	Logger  *zap.Logger
}

// Server is the résumé upload backend.
type Server struct {
	app     *fiber.App
	opts    Options
	parser  *docparse.Parser
	bank    *questions.Bank
	analyst ai.Analyst
	logger  *zap.Logger

	mu  sync.Mutex
	rng questions.Rand
}

// New validates opts and registers the routes.
func New(opts Options, deps Deps) (*Server, error) {
	opts.applyDefaults()
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Parser == nil {
		deps.Parser = docparse.NewParser(deps.Logger, 0, 0)
	}
	if deps.Bank == nil {
		deps.Bank = questions.DefaultBank()
	}
	if deps.Rand == nil {
		deps.Rand = questions.NewRand(0)
	}

	s := &Server{
		opts:    opts,
		parser:  deps.Parser,
		bank:    deps.Bank,
		analyst: deps.Analyst,
		logger:  deps.Logger,
		rng:     deps.Rand,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "interview-coach",
		BodyLimit:             opts.MaxUploadBytes,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(cors.New(cors.Config{AllowOrigins: "*"}))

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	limit := rateLimiter(opts.RateLimitMax, opts.RateLimitWindow)
	s.app.Post("/upload", limit, s.upload)
	s.app.Post("/api/upload", limit, s.upload)

	return s, nil
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("upload backend listening", zap.String("listen", s.opts.Listen))
		errCh <- s.app.Listen(s.opts.Listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func rateLimiter(maxRequests int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorResponse{
				Status: statusError,
				Error:  "Too many requests. Please wait a moment and try again.",
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}
	return c.Status(code).JSON(errorResponse{Status: statusError, Error: message})
}
