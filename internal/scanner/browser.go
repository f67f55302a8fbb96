package scanner

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Sla0ui/uxlens/internal/browser"
	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Capturer photographs a page once per viewport profile. Captures are best
// effort: a failed profile is logged and left out of the set.
type Capturer struct {
	launcher browser.Launcher
	profiles []browser.Profile
	config   *models.Config
	logger   *slog.Logger
}

// NewCapturer creates a Capturer for the configured screenshot profiles
func NewCapturer(launcher browser.Launcher, config *models.Config, logger *slog.Logger) (*Capturer, error) {
	profiles, err := browser.ProfilesByName(config.ScreenshotProfiles)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{launcher: launcher, profiles: profiles, config: config.Clone(), logger: logger}, nil
}

// Profiles returns the profile names in capture order
func (c *Capturer) Profiles() []string {
	names := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		names[i] = p.Name
	}
	return names
}

// Capture shares one browser between all profiles, each in its own page.
// The returned set is never nil.
func (c *Capturer) Capture(ctx context.Context, url, runID string) models.ScreenshotSet {
	set := models.NewScreenshotSet()
	if len(c.profiles) == 0 {
		return set
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	b, err := c.launcher.Launch(ctx)
	if err != nil {
		c.logger.Warn("screenshot browser failed to launch", "url", url, "error", err)
		return set
	}
	defer b.Close()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, profile := range c.profiles {
		g.Go(func() error {
			img, err := c.captureProfile(ctx, b, url, profile)
			if err != nil {
				c.logger.Warn("screenshot skipped",
					"url", url,
					"error", &models.ScreenshotCaptureError{Profile: profile.Name, Err: err})
				return nil
			}

			ref := c.store(profile.Name, runID, img)
			mu.Lock()
			set[profile.Name] = ref
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Debug("screenshots captured", "url", url, "profiles", set.Profiles())
	return set
}

func (c *Capturer) captureProfile(ctx context.Context, b browser.Browser, url string, profile browser.Profile) ([]byte, error) {
	session, err := b.NewSession(ctx, profile.Viewport)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer session.Close()

	outcome, err := session.Navigate(ctx, url, c.config.NavigationTimeout)
	if err != nil {
		return nil, err
	}
	if !outcome.OK() {
		return nil, &models.NavigationError{URL: url, StatusCode: outcome.StatusCode, StatusText: outcome.StatusText}
	}

	img, err := session.Screenshot(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return img, nil
}

// store writes the image to the screenshot directory when one is set and
// returns its path, otherwise it returns a data URI
func (c *Capturer) store(profile, runID string, img []byte) string {
	if c.config.ScreenshotDir != "" {
		path := filepath.Join(c.config.ScreenshotDir, fmt.Sprintf("%s-%s.png", profile, runID))
		err := os.MkdirAll(c.config.ScreenshotDir, 0755)
		if err == nil {
			err = os.WriteFile(path, img, 0644)
		}
		if err == nil {
			return path
		}
		c.logger.Warn("failed to save screenshot, embedding it instead", "profile", profile, "error", err)
	}
	return DataURI(img)
}

// DataURI encodes a PNG image inline
func DataURI(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}
