// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port           int    `yaml:"port"`
	JWTSecret      string `yaml:"jwt_secret"`
	RateLimit      int    `yaml:"rate_limit"`       // trigger calls per user per window
	RateWindowSecs int    `yaml:"rate_window_secs"` // window length for the limiter
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // completed-job cache TTL
}

// ProviderConfig covers the external annotation provider. The poll interval
// and attempt ceiling are part of the pipeline contract; 5s x 60 gives the
// five-minute ceiling.
type ProviderConfig struct {
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	LanguageCode    string        `yaml:"language_code"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPollAttempts int           `yaml:"max_poll_attempts"`
}

type AIConfig struct {
	GeminiKey     string `yaml:"gemini_key"`
	GeminiURL     string `yaml:"gemini_url"`
	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	Model         string `yaml:"model"`
}

type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

type WorkerConfig struct {
	Workers         int           `yaml:"workers"`
	RequeueInterval time.Duration `yaml:"requeue_interval"` // scan period for stale queued jobs
	RequeueAfter    time.Duration `yaml:"requeue_after"`    // how long a queued job may sit untouched
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Provider ProviderConfig `yaml:"provider"`
	AI       AIConfig       `yaml:"ai"`
	Notify   NotifyConfig   `yaml:"notify"`
	Worker   WorkerConfig   `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RateLimit <= 0 {
		cfg.HTTP.RateLimit = 10
	}
	if cfg.HTTP.RateWindowSecs <= 0 {
		cfg.HTTP.RateWindowSecs = 60
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://videointelligence.googleapis.com/v1"
	}
	if cfg.Provider.LanguageCode == "" {
		cfg.Provider.LanguageCode = "en-US"
	}
	if cfg.Provider.PollInterval <= 0 {
		cfg.Provider.PollInterval = 5 * time.Second
	}
	if cfg.Provider.MaxPollAttempts <= 0 {
		cfg.Provider.MaxPollAttempts = 60
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 8
	}
	if cfg.Worker.RequeueInterval <= 0 {
		cfg.Worker.RequeueInterval = 30 * time.Second
	}
	if cfg.Worker.RequeueAfter <= 0 {
		cfg.Worker.RequeueAfter = time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.HTTP.JWTSecret == "" && !dev {
		return nil, errors.New("http.jwt_secret is required outside dev mode")
	}
	if cfg.Provider.APIKey == "" && !dev {
		return nil, errors.New("provider.api_key is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
