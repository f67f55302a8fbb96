package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodLauncher drives Chrome through go-rod. With RemoteURL set it connects to
// an existing DevTools endpoint instead of launching a local process.
// Stealth pages hide the usual headless automation markers.
type RodLauncher struct {
	UserAgent string
	RemoteURL string
	Stealth   bool
	Logger    *slog.Logger
}

func (l *RodLauncher) Launch(ctx context.Context) (Browser, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lnch *launcher.Launcher
	controlURL := l.RemoteURL
	if controlURL == "" {
		lnch = launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch chrome: %w", err)
		}
		controlURL = u
		logger.Debug("rod launched local chrome", "url", controlURL)
	} else {
		logger.Debug("rod connecting to remote chrome", "url", controlURL)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	// Detach from the launch context; sessions bind their own contexts per call.
	return &rodBrowser{browser: b.Context(context.Background()), lnch: lnch, userAgent: l.UserAgent, stealth: l.Stealth}, nil
}

type rodBrowser struct {
	browser   *rod.Browser
	lnch      *launcher.Launcher
	userAgent string
	stealth   bool
	closeOnce sync.Once
	closeErr  error
}

func (b *rodBrowser) NewSession(ctx context.Context, vp Viewport) (Session, error) {
	var page *rod.Page
	var err error
	if b.stealth {
		page, err = stealth.Page(b.browser.Context(ctx))
	} else {
		page, err = b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	s := &rodSession{page: page.Context(context.Background())}

	scale := vp.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	if err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: scale,
		Mobile:            vp.Mobile,
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	if b.userAgent != "" {
		if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}
	if err := (proto.NetworkEnable{}).Call(s.page); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to enable network events: %w", err)
	}
	return s, nil
}

func (b *rodBrowser) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.browser.Close()
		if b.lnch != nil {
			b.lnch.Cleanup()
		}
	})
	return b.closeErr
}

type rodSession struct {
	page      *rod.Page
	closeOnce sync.Once
	closeErr  error
}

func (s *rodSession) Navigate(ctx context.Context, url string, timeout time.Duration) (NavigationOutcome, error) {
	outcome := NavigationOutcome{RequestedURL: url}
	start := time.Now()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	p := s.page.Context(ctx)

	var doc *proto.NetworkResponseReceived
	wait := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			doc = e
			return true
		}
		return false
	})

	if err := p.Navigate(url); err != nil {
		return outcome, withDeadline(ctx, err)
	}
	wait()
	if err := p.WaitLoad(); err != nil {
		return outcome, withDeadline(ctx, err)
	}

	if doc != nil && doc.Response != nil {
		outcome.StatusCode = doc.Response.Status
		outcome.StatusText = doc.Response.StatusText
		outcome.Headers = make(map[string][]string, len(doc.Response.Headers))
		for k, v := range doc.Response.Headers {
			outcome.Headers[http.CanonicalHeaderKey(k)] = []string{v.Str()}
		}
	}
	if info, err := p.Info(); err == nil {
		outcome.FinalURL = info.URL
	}

	outcome.Elapsed = time.Since(start)
	return outcome, nil
}

func (s *rodSession) Extract(ctx context.Context) (PageFacts, error) {
	p := s.page.Context(ctx)

	html, err := p.HTML()
	if err != nil {
		return PageFacts{}, fmt.Errorf("failed to read html: %w", err)
	}
	res, err := p.Eval(FactsFunction)
	if err != nil {
		return PageFacts{}, fmt.Errorf("dom evaluation failed: %w", err)
	}

	facts, err := DecodeFacts(res.Value.Str())
	if err != nil {
		return PageFacts{}, err
	}
	facts.HTML = html
	return facts, nil
}

func (s *rodSession) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	buf, err := s.page.Context(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.page.Close()
	})
	return s.closeErr
}
