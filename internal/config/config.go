package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxRounds is the default number of completion rounds per chat turn.
	DefaultMaxRounds = 8

	// DefaultTurnTimeout bounds one whole chat turn.
	DefaultTurnTimeout = 90 * time.Second

	// DefaultTemperature is the sampling temperature sent to the model.
	DefaultTemperature = 0.7
)

// Config holds all configuration for campus-advisor.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Data     DataConfig     `mapstructure:"data"`
	Events   EventsConfig   `mapstructure:"events"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	API      APIConfig      `mapstructure:"api"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider"` // openai, anthropic or ollama
	Model           string        `mapstructure:"model"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int64         `mapstructure:"max_tokens"`
	MaxRounds       int           `mapstructure:"max_rounds"`
	TurnTimeout     time.Duration `mapstructure:"turn_timeout"`
}

// String returns a safe representation of LLMConfig with the API keys masked.
func (c LLMConfig) String() string {
	return fmt.Sprintf("LLMConfig{Provider:%s, Model:%s, OpenAIAPIKey:%s, AnthropicAPIKey:%s, BaseURL:%s}",
		c.Provider, c.Model, maskAPIKey(c.OpenAIAPIKey), maskAPIKey(c.AnthropicAPIKey), c.BaseURL)
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// DataConfig locates the JSON documents served by the store.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// EventsConfig holds campus events API settings.
type EventsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CalendarConfig holds settings for the Google Calendar MCP server.
type CalendarConfig struct {
	Credentials string        `mapstructure:"credentials"`
	Command     string        `mapstructure:"command"`
	Args        []string      `mapstructure:"args"`
	TimeZone    string        `mapstructure:"time_zone"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env files, the config file and environment
// variables.
func Load() (*Config, error) {
	loadDotEnv(".env.local", ".env")

	v := viper.New()

	// Defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "") // empty picks the provider's default model
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.max_rounds", DefaultMaxRounds)
	v.SetDefault("llm.turn_timeout", DefaultTurnTimeout)

	v.SetDefault("data.dir", "data")

	v.SetDefault("events.base_url", "https://calendar.byu.edu/api")
	v.SetDefault("events.timeout", 15*time.Second)

	v.SetDefault("calendar.command", "npx")
	v.SetDefault("calendar.args", []string{"@cocal/google-calendar-mcp"})
	v.SetDefault("calendar.time_zone", "America/Denver")
	v.SetDefault("calendar.timeout", 45*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".campus-advisor"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("CAMPUS_ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("llm.openai_api_key", "CAMPUS_ADVISOR_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.anthropic_api_key", "CAMPUS_ADVISOR_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("calendar.credentials", "CAMPUS_ADVISOR_CALENDAR_CREDENTIALS", "GOOGLE_OAUTH_CREDENTIALS", "GOOGLE_CALENDAR_CREDENTIALS")
	_ = v.BindEnv("api.listen_addr", "CAMPUS_ADVISOR_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "CAMPUS_ADVISOR_API_AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK: use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "anthropic", "claude", "ollama":
	default:
		return fmt.Errorf("llm.provider must be one of openai, anthropic, ollama (got %q)", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxRounds <= 0 {
		return fmt.Errorf("llm.max_rounds must be greater than 0")
	}
	if c.LLM.TurnTimeout <= 0 {
		return fmt.Errorf("llm.turn_timeout must be greater than 0")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must not be empty")
	}
	if c.Events.BaseURL == "" {
		return fmt.Errorf("events.base_url must not be empty")
	}
	if c.Events.Timeout <= 0 {
		return fmt.Errorf("events.timeout must be greater than 0")
	}
	if c.Calendar.Timeout <= 0 {
		return fmt.Errorf("calendar.timeout must be greater than 0")
	}
	if c.Calendar.Credentials != "" && c.Calendar.Command == "" {
		return fmt.Errorf("calendar.command must not be empty when calendar credentials are set")
	}
	return nil
}

// loadDotEnv loads the first files found; variables already in the
// environment win.
func loadDotEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
