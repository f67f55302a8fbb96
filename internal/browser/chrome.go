package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromeLauncher starts a local headless Chrome through chromedp, or attaches
// to a running one when RemoteURL is set.
type ChromeLauncher struct {
	UserAgent string
	RemoteURL string
	Logger    *slog.Logger
}

// Launch starts the browser process and returns once it accepts commands
func (l *ChromeLauncher) Launch(ctx context.Context) (Browser, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if l.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), l.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.DisableGPU,
			chromedp.WindowSize(Desktop.Viewport.Width, Desktop.Viewport.Height),
		)
		if l.UserAgent != "" {
			opts = append(opts, chromedp.UserAgent(l.UserAgent))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	stop := context.AfterFunc(ctx, browserCancel)
	err := chromedp.Run(browserCtx)
	stop()
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("chrome launched", "remote", l.RemoteURL != "")

	return &chromeBrowser{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

type chromeBrowser struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	closeOnce     sync.Once
	closeErr      error
}

// NewSession opens a new tab in the shared browser with its own metrics override
func (b *chromeBrowser) NewSession(ctx context.Context, vp Viewport) (Session, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	s := &chromeSession{tabCtx: tabCtx, tabCancel: tabCancel}

	scale := vp.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	// The first run on a tab context attaches the target and binds its event
	// loop to that context, so it must be tabCtx itself and not a child.
	stop := context.AfterFunc(ctx, tabCancel)
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return emulation.SetDeviceMetricsOverride(int64(vp.Width), int64(vp.Height), scale, vp.Mobile).Do(ctx)
	}))
	stop()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return s, nil
}

func (b *chromeBrowser) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = chromedp.Cancel(b.browserCtx)
		b.browserCancel()
		b.allocCancel()
	})
	return b.closeErr
}

type chromeSession struct {
	tabCtx    context.Context
	tabCancel context.CancelFunc
	closeOnce sync.Once
}

// derive binds a tab-scoped context to the caller's cancellation and an optional timeout
func (s *chromeSession) derive(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.tabCtx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.tabCtx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := s.derive(ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) (NavigationOutcome, error) {
	outcome := NavigationOutcome{RequestedURL: url}
	start := time.Now()

	runCtx, cancel := s.derive(ctx, timeout)
	defer cancel()

	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(url))
	if err != nil {
		return outcome, withDeadline(runCtx, err)
	}
	if resp != nil {
		outcome.StatusCode = int(resp.Status)
		outcome.StatusText = resp.StatusText
		outcome.Headers = convertHeaders(resp.Headers)
	}

	if err := chromedp.Run(runCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&outcome.FinalURL),
	); err != nil {
		return outcome, withDeadline(runCtx, err)
	}

	outcome.Elapsed = time.Since(start)
	return outcome, nil
}

func (s *chromeSession) Extract(ctx context.Context) (PageFacts, error) {
	var html, raw string
	err := s.run(ctx, 0,
		chromedp.Evaluate("document.documentElement.outerHTML", &html),
		chromedp.Evaluate(FactsExpression, &raw),
	)
	if err != nil {
		return PageFacts{}, fmt.Errorf("dom evaluation failed: %w", err)
	}

	facts, err := DecodeFacts(raw)
	if err != nil {
		return PageFacts{}, err
	}
	facts.HTML = html
	return facts, nil
}

func (s *chromeSession) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	var buf []byte
	action := chromedp.CaptureScreenshot(&buf)
	if fullPage {
		// quality 100 keeps PNG encoding
		action = chromedp.FullScreenshot(&buf, 100)
	}
	if err := s.run(ctx, 0, action); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(s.tabCancel)
	return nil
}

func convertHeaders(h network.Headers) map[string][]string {
	headers := make(map[string][]string, len(h))
	for k, v := range h {
		headers[http.CanonicalHeaderKey(k)] = []string{fmt.Sprint(v)}
	}
	return headers
}

// withDeadline makes a timed-out run recognisable through errors.Is
func withDeadline(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}
