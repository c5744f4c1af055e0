package config

import (
	"fmt"
	"os"
)

// Completion request parameters. These are fixed by the product, not
// user-controlled.
const (
	DefaultModel = "gpt-4o-mini"
	Temperature  = 0.7
	MaxTokens    = 500
)

const (
	defaultChannel = "p2p_LRN"
	defaultSources = "sources.json"
	defaultPort    = "3000"
)

// Config holds the application configuration.
type Config struct {
	BotToken  string
	OpenAIKey string

	// Channel is the username (without @) of the channel a user must be
	// subscribed to before the bot answers.
	Channel string

	// SourcesPath is the knowledge base document location.
	SourcesPath string

	Model       string
	Temperature float32
	MaxTokens   int

	// WebhookHost switches the bot to webhook mode when set
	// (e.g. https://bot.example.com). Empty means long polling.
	WebhookHost string
	Port        string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Channel:     defaultChannel,
		SourcesPath: defaultSources,
		Model:       DefaultModel,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		Port:        defaultPort,
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN env var is required")
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY env var is required")
	}

	if ch := os.Getenv("CHANNEL_USERNAME"); ch != "" {
		cfg.Channel = ch
	}
	if p := os.Getenv("SOURCES_PATH"); p != "" {
		cfg.SourcesPath = p
	}
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		cfg.Model = m
	}
	cfg.WebhookHost = os.Getenv("WEBHOOK_HOST")
	if p := os.Getenv("PORT"); p != "" {
		cfg.Port = p
	}

	return cfg, nil
}
