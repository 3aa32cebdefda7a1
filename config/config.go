package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// AIConfig points at an OpenAI-compatible chat completions endpoint.
type AIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotifyConfig holds the notification sink targets. The chat webhook is
// optional: when empty the chat sink is simply not registered. The event
// webhook has no built-in default and must be configured.
type NotifyConfig struct {
	ChatWebhookURL  string        `yaml:"chat_webhook_url"`
	EventWebhookURL string        `yaml:"event_webhook_url"`
	Timeout         time.Duration `yaml:"timeout"`
}

// SyncConfig controls the mailbox source and the per-account sync lock.
type SyncConfig struct {
	Source  string        `yaml:"source"` // "imap" or "fixture"
	LockTTL time.Duration `yaml:"lock_ttl"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	JWT    JWTConfig    `yaml:"jwt"`
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Notify NotifyConfig `yaml:"notify"`
	Sync   SyncConfig   `yaml:"sync"`
}

// Load reads the YAML config at path, applies environment variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 30 * time.Second
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 10 * time.Second
	}
	if c.Sync.Source == "" {
		c.Sync.Source = "imap"
	}
	if c.Sync.LockTTL == 0 {
		c.Sync.LockTTL = 5 * time.Minute
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
}

// Validate checks the required fields once at startup so components can
// treat their injected config as trusted.
func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Name == "" {
		return fmt.Errorf("db.host and db.name are required")
	}
	if c.MQ.URL == "" {
		return fmt.Errorf("mq.url is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.AI.BaseURL == "" || c.AI.APIKey == "" {
		return fmt.Errorf("ai.base_url and ai.api_key are required")
	}
	if c.Notify.EventWebhookURL == "" {
		return fmt.Errorf("notify.event_webhook_url is required")
	}
	if c.Sync.Source != "imap" && c.Sync.Source != "fixture" {
		return fmt.Errorf("sync.source must be imap or fixture, got %q", c.Sync.Source)
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	// DB
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	// Redis
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	// MQ
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	// JWT
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	// Server
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	// AI
	if url := os.Getenv("AI_BASE_URL"); url != "" {
		cfg.AI.BaseURL = url
	}
	if key := os.Getenv("AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if model := os.Getenv("AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	// Notify
	if url := os.Getenv("CHAT_WEBHOOK_URL"); url != "" {
		cfg.Notify.ChatWebhookURL = url
	}
	if url := os.Getenv("EVENT_WEBHOOK_URL"); url != "" {
		cfg.Notify.EventWebhookURL = url
	}
}
