package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/generation"
	"github.com/spigell/interview-coach/internal/server"
)

const (
	app = "interview-coach"
)

type Config struct {
	AI        AIConfig        `mapstructure:"ai"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Parse     ParseConfig     `mapstructure:"parse"`
	Server    ServerConfig    `mapstructure:"server"`
	Interview InterviewConfig `mapstructure:"interview"`
}

type AIConfig struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string        `mapstructure:"api-key"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model" validate:"required"`
	MaxRetries   int           `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int           `mapstructure:"max-log-length" validate:"gte=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type BackendConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type ParseConfig struct {
	DocumentTimeout time.Duration `mapstructure:"document-timeout" validate:"gte=0"`
	OverallTimeout  time.Duration `mapstructure:"overall-timeout" validate:"gte=0"`
}

type ServerConfig struct {
	Listen         string          `mapstructure:"listen" validate:"required"`
	RateLimit      RateLimitConfig `mapstructure:"rate-limit"`
	MaxUploadBytes int             `mapstructure:"max-upload-bytes" validate:"gte=0"`
}

type RateLimitConfig struct {
	Max    int           `mapstructure:"max" validate:"gte=0"`
	Window time.Duration `mapstructure:"window" validate:"gte=0"`
}

type InterviewConfig struct {
	// QuestionCount limits how many generated questions are asked. Zero asks all.
	QuestionCount int    `mapstructure:"question-count" validate:"gte=0,lte=5"`
	Seed          uint64 `mapstructure:"seed"`
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "interview-coach turns a résumé into a personalized practice interview and scores your answers",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("backend.url", "INTERVIEW_BACKEND_URL"); err != nil {
		log.Fatalf("binding INTERVIEW_BACKEND_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-coach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging and output")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-retries", 2)
	v.SetDefault("ai.gemini.timeout", generation.DefaultAITimeout)
	v.SetDefault("backend.timeout", generation.DefaultBackendTimeout)
	v.SetDefault("parse.document-timeout", docparse.DefaultDocumentTimeout)
	v.SetDefault("parse.overall-timeout", docparse.DefaultOverallTimeout)
	v.SetDefault("server.listen", server.DefaultListen)
	v.SetDefault("server.rate-limit.max", server.DefaultRateLimitMax)
	v.SetDefault("server.rate-limit.window", server.DefaultRateLimitWindow)
	v.SetDefault("server.max-upload-bytes", server.DefaultMaxUploadBytes)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
