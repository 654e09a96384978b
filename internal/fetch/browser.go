// Package fetch - browser.go provides headless browser rendering for job pages.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/resume-fit/internal/logging"
	"go.uber.org/zap"
)

// DefaultSettleDelay is how long a rendered page is given for client-side scripts to finish.
const DefaultSettleDelay = 5 * time.Second

// Launcher acquires a page-fetching session. Each call returns an independent session
// that the caller must Close on every exit path.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Session loads pages and returns their rendered HTML.
type Session interface {
	// Render navigates to url and returns the page source.
	Render(ctx context.Context, url string) (string, error)
	// Close releases the session's resources. It is safe to call more than once.
	Close() error
}

// ChromeLauncher starts one headless Chrome process per session.
// Requires Chrome/Chromium to be installed on the system.
type ChromeLauncher struct {
	// SettleDelay is waited after navigation before the HTML is captured.
	SettleDelay time.Duration
	// Timeout bounds a single Render call. Zero means no limit beyond the caller's context.
	Timeout time.Duration
	// UserAgent overrides the browser's user agent when set.
	UserAgent string
	// ExecPath points at a specific Chrome binary when set.
	ExecPath string

	Logger *zap.Logger
}

// NewChromeLauncher returns a launcher with the default settle delay.
func NewChromeLauncher(logger *zap.Logger) *ChromeLauncher {
	return &ChromeLauncher{
		SettleDelay: DefaultSettleDelay,
		UserAgent:   BrowserUserAgent,
		Logger:      logger,
	}
}

// BrowserUserAgent is the desktop user agent presented by the headless browser.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// Launch starts a browser process bound to ctx.
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if l.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.UserAgent))
	}
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &chromeSession{
		ctx:         browserCtx,
		settleDelay: l.SettleDelay,
		timeout:     l.Timeout,
		logger:      logging.OrNop(l.Logger).Named("browser"),
		release: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}

	// Running with no actions starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return s, nil
}

type chromeSession struct {
	ctx         context.Context
	settleDelay time.Duration
	timeout     time.Duration
	logger      *zap.Logger

	release   func()
	closeOnce sync.Once
}

func (s *chromeSession) Render(ctx context.Context, url string) (string, error) {
	s.logger.Debug("rendering page", zap.String("url", url))

	runCtx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}

	// The caller's context can be cancelled independently of the session's.
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	s.logger.Debug("rendered page", zap.String("url", url), zap.Int("html_bytes", len(html)))
	return html, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(s.release)
	return nil
}
