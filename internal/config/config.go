package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort string        `yaml:"http_port"`
	LogLevel string        `yaml:"log_level"`
	BotName  string        `yaml:"bot_name"`
	CORS     CORSConfig    `yaml:"cors"`
	Session  SessionConfig `yaml:"session"`
	Redis    RedisConfig   `yaml:"redis"`
	Mongo    MongoConfig   `yaml:"mongo"`
	Kafka    KafkaConfig   `yaml:"kafka"`
	Zendesk  ZendeskConfig `yaml:"zendesk"`
	AI       *AIConfig     `yaml:"ai"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
	AllowedMethods string `yaml:"allowed_methods"`
	AllowedHeaders string `yaml:"allowed_headers"`
}

type SessionConfig struct {
	JWTSecret string        `yaml:"-"`
	TTL       time.Duration `yaml:"ttl"`
	LockTTL   time.Duration `yaml:"lock_ttl"` // busy flag expiry, never below MinLockTTL
}

type RedisConfig struct {
	Addr string `yaml:"addr"` // empty keeps sessions in memory
}

type MongoConfig struct {
	URI      string `yaml:"uri"` // empty disables persistence
	Database string `yaml:"database"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"` // empty discards events
	Topic   string   `yaml:"topic"`
}

// ZendeskConfig holds the helpdesk credentials. They are checked per
// submission, not at startup, so a missing value fails ticket creation only.
type ZendeskConfig struct {
	Subdomain         string `yaml:"subdomain"`
	Email             string `yaml:"email"`
	APIToken          string `yaml:"-"`
	TicketTypeFieldID string `yaml:"ticket_type_field_id"`
	BaseURL           string `yaml:"base_url"` // overrides https://{subdomain}.zendesk.com/api/v2
}

// Complete reports whether every required helpdesk credential is set
func (z ZendeskConfig) Complete() bool {
	return z.Subdomain != "" && z.Email != "" && z.APIToken != ""
}

// Load builds the configuration from defaults, an optional YAML file and the environment
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort: "8080",
		LogLevel: "info",
		BotName:  "Inkeep AI",
		CORS: CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Mongo: MongoConfig{Database: "supportform"},
		Kafka: KafkaConfig{Topic: "support-form-events"},
		Zendesk: ZendeskConfig{
			TicketTypeFieldID: "custom_field_123",
		},
		AI: DefaultAIConfig(),
	}

	path := getEnvOrDefault("SUPPORT_FORM_CONFIG", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTPPort, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.BotName, "BOT_NAME")
	setString(&c.CORS.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setString(&c.CORS.AllowedMethods, "CORS_ALLOWED_METHODS")
	setString(&c.CORS.AllowedHeaders, "CORS_ALLOWED_HEADERS")
	setString(&c.Session.JWTSecret, "JWT_SECRET")
	setString(&c.Redis.Addr, "REDIS_URI")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DB")
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")
	setString(&c.Zendesk.Subdomain, "ZENDESK_SUBDOMAIN")
	setString(&c.Zendesk.Email, "ZENDESK_EMAIL")
	setString(&c.Zendesk.APIToken, "ZENDESK_API_TOKEN")
	setString(&c.Zendesk.TicketTypeFieldID, "ZENDESK_TICKET_TYPE_FIELD_ID")
	setString(&c.Zendesk.BaseURL, "ZENDESK_BASE_URL")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if err := setDuration(&c.Session.TTL, "SESSION_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.Session.LockTTL, "SESSION_LOCK_TTL"); err != nil {
		return err
	}
	if err := c.AI.applyEnv(); err != nil {
		return err
	}

	// The busy flag must outlive the slowest arbitration it guards
	if floor := c.MinLockTTL(); c.Session.LockTTL < floor {
		c.Session.LockTTL = floor
	}

	// Remove redis:// prefix if present
	c.Redis.Addr = strings.TrimPrefix(c.Redis.Addr, "redis://")

	if c.Session.JWTSecret == "" {
		c.Session.JWTSecret = "super-secret-key-change-in-production"
	}
	return nil
}

// MinLockTTL is the shortest busy flag that still covers a responder call
// exhausting every retry, plus a margin for the surrounding session writes.
func (c *Config) MinLockTTL() time.Duration {
	return c.AI.WorstCaseCall() + lockMargin
}

const lockMargin = 30 * time.Second

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
