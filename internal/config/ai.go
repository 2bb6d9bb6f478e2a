package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// maxRetryAfter is the longest Retry-After the API client honours between attempts
const maxRetryAfter = time.Minute

// InkeepModels defines which models serve each responder
type InkeepModels struct {
	// QA answers the question and reports sources and confidence
	QA string `json:"qa" yaml:"qa"`

	// Context infers subject line, priority and ticket type
	Context string `json:"context" yaml:"context"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-" yaml:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl" yaml:"base_url"`
	Models    InkeepModels `json:"models" yaml:"models"`
	TimeoutMS int          `json:"timeoutMs" yaml:"timeout_ms"`

	// MaxRetries is passed to the API client; 0 means a single attempt
	MaxRetries int `json:"maxRetries" yaml:"max_retries"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		BaseURL: "https://api.inkeep.com/v1",
		Models: InkeepModels{
			QA:      "inkeep-qa-expert",
			Context: "inkeep-context-expert",
		},
		TimeoutMS:  60000,
		MaxRetries: 2,
	}
}

// applyEnv overrides file and default values with INKEEP_* and AI_* variables
func (c *AIConfig) applyEnv() error {
	setString(&c.APIKey, "INKEEP_API_KEY")
	setString(&c.BaseURL, "INKEEP_BASE_URL")
	setString(&c.Models.QA, "INKEEP_QA_MODEL")
	setString(&c.Models.Context, "INKEEP_CONTEXT_MODEL")
	if err := setInt(&c.TimeoutMS, "AI_TIMEOUT_MS"); err != nil {
		return err
	}
	return setInt(&c.MaxRetries, "AI_MAX_RETRIES")
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout is the per-call ceiling applied by the HTTP client
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// WorstCaseCall bounds one responder call: every attempt running to its
// timeout, with the longest Retry-After wait between attempts.
func (c *AIConfig) WorstCaseCall() time.Duration {
	attempts := time.Duration(c.MaxRetries + 1)
	return attempts*c.Timeout() + time.Duration(c.MaxRetries)*maxRetryAfter
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
