package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if config.NavigationTimeout != 30*time.Second {
		t.Errorf("Expected NavigationTimeout=30s, got %v", config.NavigationTimeout)
	}

	if config.SettleDelay != 2*time.Second {
		t.Errorf("Expected SettleDelay=2s, got %v", config.SettleDelay)
	}

	if config.MaxHTMLLength != 200000 || config.MaxTextLength != 50000 {
		t.Errorf("Unexpected caps html=%d text=%d", config.MaxHTMLLength, config.MaxTextLength)
	}

	if config.Model.Configured() {
		t.Error("Expected model to be unconfigured by default")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid concurrency (too low)",
			mutate:  func(c *Config) { c.MaxConcurrentChecks = 0 },
			wantErr: true,
		},
		{
			name:    "invalid concurrency (too high)",
			mutate:  func(c *Config) { c.MaxConcurrentChecks = 101 },
			wantErr: true,
		},
		{
			name:    "invalid navigation timeout",
			mutate:  func(c *Config) { c.NavigationTimeout = 500 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "negative settle delay",
			mutate:  func(c *Config) { c.SettleDelay = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero html cap",
			mutate:  func(c *Config) { c.MaxHTMLLength = 0 },
			wantErr: true,
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Engine = "webkit" },
			wantErr: true,
		},
		{
			name:    "rod engine",
			mutate:  func(c *Config) { c.Engine = EngineRod },
			wantErr: false,
		},
		{
			name:    "screenshots without profiles",
			mutate:  func(c *Config) { c.ScreenshotProfiles = nil },
			wantErr: true,
		},
		{
			name: "no profiles but screenshots disabled",
			mutate: func(c *Config) {
				c.ScreenshotProfiles = nil
				c.TakeScreenshots = false
			},
			wantErr: false,
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Model.Temperature = 3 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	original := DefaultConfig()
	original.ScreenshotProfiles = []string{"desktop", "mobile"}

	clone := original.Clone()

	// Modify clone
	clone.ScreenshotProfiles[0] = "tablet"
	clone.MaxConcurrentChecks = 100

	// Original should be unchanged
	if original.ScreenshotProfiles[0] != "desktop" {
		t.Errorf("Clone modified original ScreenshotProfiles")
	}
	if original.MaxConcurrentChecks != 2 {
		t.Errorf("Clone modified original MaxConcurrentChecks")
	}
}

func TestModelConfigured(t *testing.T) {
	env := map[string]string{
		EnvAPIKey:   "key",
		EnvEndpoint: "https://example.openai.azure.com/",
	}

	config := DefaultConfig()
	config.ApplyEnv(func(k string) string { return env[k] })

	if config.Model.Configured() {
		t.Fatal("Expected model to be unconfigured without a deployment")
	}
	missing := config.Model.Missing()
	if len(missing) != 1 || missing[0] != EnvDeployment {
		t.Errorf("Expected only %s missing, got %v", EnvDeployment, missing)
	}
	if config.Model.Endpoint != "https://example.openai.azure.com" {
		t.Errorf("Expected trailing slash trimmed, got %q", config.Model.Endpoint)
	}

	env[EnvDeployment] = "gpt-4o"
	config.ApplyEnv(func(k string) string { return env[k] })
	if !config.Model.Configured() {
		t.Error("Expected model to be configured")
	}
	if config.Model.APIVersion != "2024-02-15-preview" {
		t.Errorf("Expected default api version to survive, got %q", config.Model.APIVersion)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uxlens.yaml")
	doc := `
navigation_timeout: 45s
engine: rod
remote_url: ws://127.0.0.1:9222/devtools/browser/abc
screenshot_profiles: [desktop]
model:
  endpoint: https://example.openai.azure.com/
  deployment: gpt-4o
  max_tokens: 4000
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	if err := LoadConfigFile(path, config); err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	if config.NavigationTimeout != 45*time.Second {
		t.Errorf("Expected 45s navigation timeout, got %v", config.NavigationTimeout)
	}
	if config.Engine != EngineRod {
		t.Errorf("Expected rod engine, got %q", config.Engine)
	}
	if len(config.ScreenshotProfiles) != 1 {
		t.Errorf("Expected one profile, got %v", config.ScreenshotProfiles)
	}
	if config.Model.Endpoint != "https://example.openai.azure.com" || config.Model.MaxTokens != 4000 {
		t.Errorf("Unexpected model section %+v", config.Model)
	}
	if config.SettleDelay != 2*time.Second {
		t.Errorf("Expected untouched fields to keep defaults, got %v", config.SettleDelay)
	}

	if err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), config); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestModelConfigStatus(t *testing.T) {
	status := ModelConfig{APIKey: "key", Deployment: "gpt-4o"}.Status()
	if !status.HasAPIKey || status.HasEndpoint || !status.HasDeployment || status.IsConfigured {
		t.Errorf("Unexpected status %+v", status)
	}

	status = ModelConfig{APIKey: "key", Endpoint: "https://x", Deployment: "gpt-4o"}.Status()
	if !status.IsConfigured {
		t.Errorf("Expected configured status, got %+v", status)
	}
}
