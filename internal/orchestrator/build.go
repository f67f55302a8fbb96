package orchestrator

import (
	"fmt"
	"log/slog"

	"github.com/Sla0ui/uxlens/internal/browser"
	"github.com/Sla0ui/uxlens/internal/llm"
	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/Sla0ui/uxlens/internal/scanner"
)

// NewFromConfig wires the production collaborators: the configured browser
// engine, the screenshot capturer when enabled, and the Azure OpenAI client
// when credentials are present.
func NewFromConfig(config *models.Config, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	launcher, err := browser.NewLauncher(config, logger)
	if err != nil {
		return nil, err
	}
	return NewWithLauncher(config, launcher, logger)
}

// NewWithLauncher is NewFromConfig with an explicit browser engine
func NewWithLauncher(config *models.Config, launcher browser.Launcher, logger *slog.Logger) (*Orchestrator, error) {
	extractor, err := scanner.NewExtractor(launcher, config, logger)
	if err != nil {
		return nil, err
	}

	deps := Dependencies{Extractor: extractor, Logger: logger}

	if config.TakeScreenshots {
		capturer, err := scanner.NewCapturer(launcher, config, logger)
		if err != nil {
			return nil, fmt.Errorf("invalid screenshot settings: %w", err)
		}
		deps.Capturer = capturer
	}

	if config.Model.Configured() {
		client, err := llm.NewAzureClient(config.Model, logger)
		if err != nil {
			return nil, err
		}
		deps.Completer = client
	}

	return New(config, deps), nil
}
