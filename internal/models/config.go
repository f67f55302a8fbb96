package models

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables holding the model-service credentials
const (
	EnvAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvDeployment = "AZURE_OPENAI_DEPLOYMENT_NAME"
	EnvAPIVersion = "AZURE_OPENAI_API_VERSION"
)

// Browser engines
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// ModelConfig holds the connection settings of the text-completion service
type ModelConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"api_key"`
	Deployment  string        `yaml:"deployment"`
	APIVersion  string        `yaml:"api_version"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// Configured reports whether key, endpoint and deployment are all present
func (m ModelConfig) Configured() bool {
	return len(m.Missing()) == 0
}

// Missing lists the environment variables whose values are absent
func (m ModelConfig) Missing() []string {
	var missing []string
	if m.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if m.Endpoint == "" {
		missing = append(missing, EnvEndpoint)
	}
	if m.Deployment == "" {
		missing = append(missing, EnvDeployment)
	}
	return missing
}

// ConfigStatus reports which model credentials are present
type ConfigStatus struct {
	HasAPIKey     bool `json:"hasApiKey"`
	HasEndpoint   bool `json:"hasEndpoint"`
	HasDeployment bool `json:"hasDeployment"`
	IsConfigured  bool `json:"isConfigured"`
}

// Status summarises the credentials without exposing them
func (m ModelConfig) Status() ConfigStatus {
	return ConfigStatus{
		HasAPIKey:     m.APIKey != "",
		HasEndpoint:   m.Endpoint != "",
		HasDeployment: m.Deployment != "",
		IsConfigured:  m.Configured(),
	}
}

// Config holds all configuration options for uxlens
type Config struct {
	NavigationTimeout   time.Duration `yaml:"navigation_timeout"`
	SettleDelay         time.Duration `yaml:"settle_delay"`
	MaxHTMLLength       int           `yaml:"max_html_length"`
	MaxTextLength       int           `yaml:"max_text_length"`
	UserAgent           string        `yaml:"user_agent"`
	Engine              string        `yaml:"engine"`
	RemoteURL           string        `yaml:"remote_url"`
	Stealth             bool          `yaml:"stealth"`
	TakeScreenshots     bool          `yaml:"screenshots"`
	ScreenshotProfiles  []string      `yaml:"screenshot_profiles"`
	ScreenshotDir       string        `yaml:"screenshot_dir"`
	OutputDir           string        `yaml:"output_dir"`
	OutputFormat        string        `yaml:"output_format"`
	MaxConcurrentChecks int           `yaml:"concurrency"`
	ListenAddr          string        `yaml:"listen_addr"`
	LogVerbose          bool          `yaml:"verbose"`
	NoColor             bool          `yaml:"no_color"`
	Quiet               bool          `yaml:"quiet"`
	NoProgress          bool          `yaml:"no_progress"`
	RefusalKeywords     []string      `yaml:"refusal_keywords"`
	Model               ModelConfig   `yaml:"model"`
}

// Validate checks if the configuration is valid and returns an error if not
func (c *Config) Validate() error {
	if c.NavigationTimeout < 1*time.Second {
		return fmt.Errorf("navigation timeout must be at least 1 second, got %v", c.NavigationTimeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative, got %v", c.SettleDelay)
	}
	if c.MaxHTMLLength < 1 {
		return fmt.Errorf("max html length must be positive, got %d", c.MaxHTMLLength)
	}
	if c.MaxTextLength < 1 {
		return fmt.Errorf("max text length must be positive, got %d", c.MaxTextLength)
	}
	if c.Engine != EngineChromedp && c.Engine != EngineRod {
		return fmt.Errorf("unknown browser engine %q (want %s or %s)", c.Engine, EngineChromedp, EngineRod)
	}
	if c.MaxConcurrentChecks < 1 {
		return fmt.Errorf("max concurrent checks must be at least 1, got %d", c.MaxConcurrentChecks)
	}
	if c.MaxConcurrentChecks > 100 {
		return fmt.Errorf("max concurrent checks cannot exceed 100, got %d", c.MaxConcurrentChecks)
	}
	if c.TakeScreenshots && len(c.ScreenshotProfiles) == 0 {
		return fmt.Errorf("must specify at least one screenshot profile")
	}
	if c.Model.MaxTokens < 1 {
		return fmt.Errorf("model max tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("model temperature must be within [0,2], got %v", c.Model.Temperature)
	}
	if c.Model.MaxRetries < 0 {
		return fmt.Errorf("model retry count cannot be negative, got %d", c.Model.MaxRetries)
	}
	return nil
}

// Clone creates a deep copy of the config to avoid race conditions
func (c *Config) Clone() *Config {
	clone := *c
	clone.ScreenshotProfiles = make([]string, len(c.ScreenshotProfiles))
	copy(clone.ScreenshotProfiles, c.ScreenshotProfiles)
	if c.RefusalKeywords != nil {
		clone.RefusalKeywords = append([]string(nil), c.RefusalKeywords...)
	}
	return &clone
}

// ApplyEnv overlays model credentials found through lookup, typically os.Getenv
func (c *Config) ApplyEnv(lookup func(string) string) {
	if v := strings.TrimSpace(lookup(EnvAPIKey)); v != "" {
		c.Model.APIKey = v
	}
	if v := strings.TrimSpace(lookup(EnvEndpoint)); v != "" {
		c.Model.Endpoint = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(lookup(EnvDeployment)); v != "" {
		c.Model.Deployment = v
	}
	if v := strings.TrimSpace(lookup(EnvAPIVersion)); v != "" {
		c.Model.APIVersion = v
	}
}

// LoadConfigFile overlays the YAML document at path onto c
func LoadConfigFile(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Model.Endpoint = strings.TrimRight(c.Model.Endpoint, "/")
	return nil
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		NavigationTimeout:   30 * time.Second,
		SettleDelay:         2 * time.Second,
		MaxHTMLLength:       200000,
		MaxTextLength:       50000,
		UserAgent:           "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Engine:              EngineChromedp,
		RemoteURL:           "",
		Stealth:             false,
		TakeScreenshots:     true,
		ScreenshotProfiles:  []string{"desktop", "mobile"},
		ScreenshotDir:       "",
		OutputDir:           "results",
		OutputFormat:        "json",
		MaxConcurrentChecks: 2,
		ListenAddr:          ":8080",
		LogVerbose:          false,
		NoColor:             false,
		Quiet:               false,
		NoProgress:          false,
		Model: ModelConfig{
			APIVersion:  "2024-02-15-preview",
			MaxTokens:   8000,
			Temperature: 0.2,
			Timeout:     2 * time.Minute,
			MaxRetries:  2,
		},
	}
}
