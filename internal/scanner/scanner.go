// Package scanner drives browser sessions to read and photograph pages.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sla0ui/uxlens/internal/analyzer"
	"github.com/Sla0ui/uxlens/internal/browser"
	"github.com/Sla0ui/uxlens/internal/models"
)

// Extractor loads one page in a scoped browser and reads its facts
type Extractor struct {
	launcher browser.Launcher
	config   *models.Config
	logger   *slog.Logger
}

// NewExtractor creates an Extractor. The config is copied.
func NewExtractor(launcher browser.Launcher, config *models.Config, logger *slog.Logger) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{launcher: launcher, config: config.Clone(), logger: logger}, nil
}

// Extract navigates to url, waits for dynamic content to settle and returns
// the normalized snapshot. The browser is released on every return path.
func (e *Extractor) Extract(ctx context.Context, url string) (models.PageSnapshot, error) {
	start := time.Now()

	b, err := e.launcher.Launch(ctx)
	if err != nil {
		return models.PageSnapshot{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer b.Close()

	session, err := b.NewSession(ctx, browser.Desktop.Viewport)
	if err != nil {
		return models.PageSnapshot{}, fmt.Errorf("failed to open page: %w", err)
	}
	defer session.Close()

	e.logger.Debug("navigating", "url", url, "timeout", e.config.NavigationTimeout)
	outcome, err := session.Navigate(ctx, url, e.config.NavigationTimeout)
	if err != nil {
		return models.PageSnapshot{}, &models.NavigationError{
			URL:     url,
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
	}
	if !outcome.OK() {
		return models.PageSnapshot{}, &models.NavigationError{
			URL:        url,
			StatusCode: outcome.StatusCode,
			StatusText: outcome.StatusText,
		}
	}

	if err := settle(ctx, e.config.SettleDelay); err != nil {
		return models.PageSnapshot{}, fmt.Errorf("interrupted while page settled: %w", err)
	}

	facts, err := session.Extract(ctx)
	if err != nil {
		return models.PageSnapshot{}, fmt.Errorf("failed to read page facts: %w", err)
	}

	snapshot := analyzer.BuildSnapshot(url, outcome, facts, analyzer.LimitsFromConfig(e.config))
	e.logger.Info("page extracted",
		"url", url,
		"status", outcome.StatusCode,
		"html_chars", len(snapshot.HTML),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return snapshot, nil
}

// settle blocks for d unless ctx ends first
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
