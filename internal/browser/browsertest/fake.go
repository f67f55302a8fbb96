// Package browsertest provides a scriptable in-memory browser engine.
package browsertest

import (
	"context"
	"sync"
	"time"

	"github.com/Sla0ui/uxlens/internal/browser"
)

// Page scripts what a session does
type Page struct {
	Outcome       browser.NavigationOutcome
	NavigateErr   error
	NavigateDelay time.Duration
	Facts         browser.PageFacts
	ExtractErr    error
	Image         []byte
	ScreenshotErr error
}

// Engine is a browser.Launcher whose sessions replay scripted pages.
// Sessions opened with a viewport width found in ByWidth use that page,
// the others use Default.
type Engine struct {
	Default   Page
	ByWidth   map[int]Page
	LaunchErr error

	mu             sync.Mutex
	launches       int
	browsersClosed int
	sessions       int
	sessionsClosed int
	navigated      []string
}

// OK returns a page answering 200 with the given facts and a one-byte image
func OK(facts browser.PageFacts) Page {
	return Page{
		Outcome: browser.NavigationOutcome{StatusCode: 200, StatusText: "OK"},
		Facts:   facts,
		Image:   []byte{0x89},
	}
}

func (e *Engine) Launch(ctx context.Context) (browser.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	e.mu.Lock()
	e.launches++
	e.mu.Unlock()
	return &fakeBrowser{engine: e}, nil
}

// Launches counts successful launches
func (e *Engine) Launches() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.launches
}

// OpenBrowsers counts launched browsers that were never closed
func (e *Engine) OpenBrowsers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.launches - e.browsersClosed
}

// OpenSessions counts sessions that were never closed
func (e *Engine) OpenSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions - e.sessionsClosed
}

// Sessions counts every session opened
func (e *Engine) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions
}

// Navigated lists every URL handed to Navigate
func (e *Engine) Navigated() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.navigated...)
}

func (e *Engine) pageFor(vp browser.Viewport) Page {
	if p, ok := e.ByWidth[vp.Width]; ok {
		return p
	}
	return e.Default
}

type fakeBrowser struct {
	engine *Engine
	once   sync.Once
}

func (b *fakeBrowser) NewSession(ctx context.Context, vp browser.Viewport) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.engine.mu.Lock()
	b.engine.sessions++
	b.engine.mu.Unlock()
	return &fakeSession{engine: b.engine, page: b.engine.pageFor(vp)}, nil
}

func (b *fakeBrowser) Close() error {
	b.once.Do(func() {
		b.engine.mu.Lock()
		b.engine.browsersClosed++
		b.engine.mu.Unlock()
	})
	return nil
}

type fakeSession struct {
	engine *Engine
	page   Page
	once   sync.Once
}

func (s *fakeSession) Navigate(ctx context.Context, url string, timeout time.Duration) (browser.NavigationOutcome, error) {
	s.engine.mu.Lock()
	s.engine.navigated = append(s.engine.navigated, url)
	s.engine.mu.Unlock()

	if s.page.NavigateDelay > 0 {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		select {
		case <-time.After(s.page.NavigateDelay):
		case <-ctx.Done():
			return browser.NavigationOutcome{RequestedURL: url}, ctx.Err()
		}
	}
	if s.page.NavigateErr != nil {
		return browser.NavigationOutcome{RequestedURL: url}, s.page.NavigateErr
	}

	outcome := s.page.Outcome
	outcome.RequestedURL = url
	if outcome.FinalURL == "" {
		outcome.FinalURL = url
	}
	return outcome, nil
}

func (s *fakeSession) Extract(ctx context.Context) (browser.PageFacts, error) {
	if err := ctx.Err(); err != nil {
		return browser.PageFacts{}, err
	}
	return s.page.Facts, s.page.ExtractErr
}

func (s *fakeSession) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.page.ScreenshotErr != nil {
		return nil, s.page.ScreenshotErr
	}
	return s.page.Image, nil
}

func (s *fakeSession) Close() error {
	s.once.Do(func() {
		s.engine.mu.Lock()
		s.engine.sessionsClosed++
		s.engine.mu.Unlock()
	})
	return nil
}
