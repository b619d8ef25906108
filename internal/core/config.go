package core

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Session   SessionConfig   `mapstructure:"session"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LLMConfig holds OpenRouter settings.
type LLMConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds per-session dialogue settings.
type SessionConfig struct {
	// Window caps the transcript turns forwarded to collaborators.
	Window int `mapstructure:"window"`
	// TurnTimeout bounds each collaborator call within a turn.
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
}

// RetrievalConfig holds recommendation retrieval settings.
type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

// LoadConfig loads configuration from an optional bookdesk.yaml (working
// directory or ~/.config/bookdesk) and environment variables. Environment
// variables use the BOOKDESK_ prefix with underscores (BOOKDESK_LLM_MODEL);
// OPENROUTER_API_KEY is honored directly for the API key.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("bookdesk")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/bookdesk")
	}

	v.SetDefault("log_level", "info")
	v.SetDefault("database.path", "bookdesk.db")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "google/gemini-2.5-flash")
	v.SetDefault("llm.embedding_model", "openai/text-embedding-3-small")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("session.window", 40)
	v.SetDefault("session.turn_timeout", 60*time.Second)
	v.SetDefault("retrieval.top_k", 10)

	v.SetEnvPrefix("BOOKDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		cfg.LogLevel = "debug"
	}

	return &cfg, nil
}
