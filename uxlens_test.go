package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sla0ui/uxlens/internal/models"
)

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# sites\nhttps://example.com\n\n  example.org  \nhttp://plain.example/path\nhttps://example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	urls, err := readURLsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com", "https://example.org", "http://plain.example/path"}, urls)

	_, err = readURLsFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestBuildConfig(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name     string
		command  []string
		args     []string
		file     string
		env      map[string]string
		wantErr  bool
		validate func(*testing.T, *models.Config)
	}{
		{
			name: "defaults",
			validate: func(t *testing.T, c *models.Config) {
				assert.Equal(t, models.EngineChromedp, c.Engine)
				assert.Equal(t, 30*time.Second, c.NavigationTimeout)
				assert.True(t, c.TakeScreenshots)
				assert.False(t, c.Model.Configured())
			},
		},
		{
			name: "file then env then flags",
			args: []string{"--concurrency", "9", "--no-screenshots", "-t", "45s"},
			file: "engine: rod\nconcurrency: 7\nmodel:\n  api_key: from-file\n  deployment: ux\n",
			env: map[string]string{
				models.EnvAPIKey:   "from-env",
				models.EnvEndpoint: "https://example.openai.azure.com/",
			},
			validate: func(t *testing.T, c *models.Config) {
				assert.Equal(t, models.EngineRod, c.Engine)
				assert.Equal(t, 9, c.MaxConcurrentChecks)
				assert.Equal(t, 45*time.Second, c.NavigationTimeout)
				assert.False(t, c.TakeScreenshots)
				assert.Equal(t, "from-env", c.Model.APIKey)
				assert.Equal(t, "https://example.openai.azure.com", c.Model.Endpoint)
				assert.Equal(t, "ux", c.Model.Deployment)
				assert.True(t, c.Model.Configured())
			},
		},
		{
			name:    "screenshot profiles",
			command: []string{"screenshot"},
			args:    []string{"--profiles", "desktop,tablet"},
			validate: func(t *testing.T, c *models.Config) {
				assert.Equal(t, []string{"desktop", "tablet"}, c.ScreenshotProfiles)
			},
		},
		{
			name:    "listen address",
			command: []string{"serve"},
			args:    []string{"--listen", "127.0.0.1:9000"},
			validate: func(t *testing.T, c *models.Config) {
				assert.Equal(t, "127.0.0.1:9000", c.ListenAddr)
			},
		},
		{
			name:    "invalid engine",
			args:    []string{"--engine", "gecko"},
			wantErr: true,
		},
		{
			name:    "missing config file",
			args:    []string{"--config", "does-not-exist.yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			cmd, _, err := root.Find(tt.command)
			require.NoError(t, err)

			args := tt.args
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "uxlens.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
				args = append(args, "--config", path)
			}
			require.NoError(t, cmd.ParseFlags(args))

			config, err := buildConfig(cmd.Flags(), env(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, config)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(&models.InvalidInputError{Input: "x", Reason: "scheme"}))
	assert.Equal(t, 3, exitCode(&models.UnreachableSiteError{URL: "https://x", Err: errors.New("dns")}))
	assert.Equal(t, 4, exitCode(&models.ContentPolicyError{Message: "refused"}))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestExitError(t *testing.T) {
	inner := &models.ContentPolicyError{Message: "refused"}
	err := &exitError{code: 4, err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, inner.Error(), err.Error())
	assert.Equal(t, "exit status 130", (&exitError{code: 130}).Error())
}
