package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/swasthya-bot/server/internal/agent/llm"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/core"
	logx "github.com/swasthya-bot/server/pkg/logger"
	pkgredis "github.com/swasthya-bot/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the bot, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config
	Store model.StoreConfig
	HTTP  model.HTTPConfig

	// LLM provider
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`
	OpenAI        llm.OpenAIConfig

	// Bot configs
	Bot          model.BotConfig
	Response     model.ResponseModelConfig
	Conversation model.ConversationConfig
	Twilio       model.TwilioConfig
}

var (
	envFile string
	config  AppConfig
)

var rootCmd = &cobra.Command{
	Use:           "healthbot",
	Short:         "WhatsApp health information chatbot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", envFile, err)
		}
		if err := envconfig.Process("", &config); err != nil {
			return fmt.Errorf("failed to process environment config: %w", err)
		}
		logx.Init(logx.LoggerOpts{
			Environment: core.ParseEnvironment(config.Environment),
			Level:       config.LogLevel,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(broadcastCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
