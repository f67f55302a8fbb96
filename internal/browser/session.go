// Package browser is the narrow capability the analysis pipeline drives a
// headless browser through. Engines (chromedp, rod) hide their own control
// flow behind synchronous Launcher, Browser and Session calls.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
)

// NavigationOutcome is what the main document response told us
type NavigationOutcome struct {
	RequestedURL string
	FinalURL     string
	StatusCode   int
	StatusText   string
	Headers      map[string][]string
	Elapsed      time.Duration
}

// OK reports a 2xx main document response
func (o NavigationOutcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode <= 299
}

// Session is one isolated page with its own viewport and navigation state.
// Close is idempotent and safe to call after any failure.
type Session interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) (NavigationOutcome, error)
	Extract(ctx context.Context) (PageFacts, error)
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	Close() error
}

// Browser is one engine process able to host several sessions
type Browser interface {
	NewSession(ctx context.Context, vp Viewport) (Session, error)
	Close() error
}

// Launcher starts a Browser
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// NewLauncher picks the engine named by config
func NewLauncher(config *models.Config, logger *slog.Logger) (Launcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch config.Engine {
	case models.EngineChromedp, "":
		return &ChromeLauncher{UserAgent: config.UserAgent, RemoteURL: config.RemoteURL, Logger: logger}, nil
	case models.EngineRod:
		return &RodLauncher{UserAgent: config.UserAgent, RemoteURL: config.RemoteURL, Stealth: config.Stealth, Logger: logger}, nil
	}
	return nil, fmt.Errorf("unknown browser engine %q", config.Engine)
}
