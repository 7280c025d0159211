package etoro

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"etoro-extractor/config"
	"etoro-extractor/utils"
)

// ErrBrowserUnavailable means no browser could be started under any fallback
// configuration. Not retryable without environment changes.
var ErrBrowserUnavailable = errors.New("browser unavailable")

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// chromeFallbackPaths are alternate browser binary locations tried in order
// when the primary startup attempt fails.
var chromeFallbackPaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
}

// Session owns one running browser process. It is acquired with NewSession
// and must be released with Close on every exit path.
type Session struct {
	logger zerolog.Logger

	ctx          context.Context
	cancelCtx    context.CancelFunc
	cancelAlloc  context.CancelFunc
	cancelSilent context.CancelFunc
}

// NewSession starts a browser, falling back through alternate binary
// locations and finally a minimal option set. The first successful attempt
// wins; if every attempt fails the aggregated reasons are wrapped in
// ErrBrowserUnavailable.
func NewSession(cfg *config.Config, logger zerolog.Logger) (*Session, error) {
	s := &Session{logger: logger}

	attempts := []utils.Attempt{{
		Name: "primary",
		Run:  func() error { return s.start(fullOptions(cfg, findChromeBinary(cfg))) },
	}}

	for _, path := range chromeFallbackPaths {
		p := path
		attempts = append(attempts, utils.Attempt{
			Name:  "binary " + p,
			Check: func() bool { _, err := os.Stat(p); return err == nil },
			Run:   func() error { return s.start(fullOptions(cfg, p)) },
		})
	}

	attempts = append(attempts, utils.Attempt{
		Name: "minimal",
		Run:  func() error { return s.start(minimalOptions()) },
	})

	chain := &utils.Chain{Logger: logger}
	if err := chain.Do("start-browser", attempts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrowserUnavailable, err)
	}

	return s, nil
}

// start builds allocator and browser contexts from opts and verifies the
// browser answers a trivial navigation. On failure everything built so far
// is torn down again.
func (s *Session) start(opts []chromedp.ExecAllocatorOption) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	ctx, cancelCtx := chromedp.NewContext(silentCtx)

	probe, cancelProbe := context.WithTimeout(ctx, 30*time.Second)
	defer cancelProbe()

	if err := chromedp.Run(probe, chromedp.Navigate("about:blank")); err != nil {
		cancelCtx()
		cancelSilent()
		cancelAlloc()
		return fmt.Errorf("browser probe: %w", err)
	}

	s.ctx = ctx
	s.cancelCtx = cancelCtx
	s.cancelSilent = cancelSilent
	s.cancelAlloc = cancelAlloc
	return nil
}

// Context returns the live browser context, or nil if the session is closed
// or was never started.
func (s *Session) Context() context.Context {
	if s == nil {
		return nil
	}
	return s.ctx
}

// Close terminates the browser process. Safe to call multiple times and on a
// session that never started.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.cancelCtx != nil {
		s.cancelCtx()
		s.cancelCtx = nil
	}
	if s.cancelSilent != nil {
		s.cancelSilent()
		s.cancelSilent = nil
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
		s.cancelAlloc = nil
		s.logger.Debug().Msg("Browser session released")
	}
	s.ctx = nil
}

// fullOptions is the normal option set: unattended operation with a desktop
// fingerprint. binary may be "" to let chromedp pick one.
func fullOptions(cfg *config.Config, binary string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if binary != "" {
		opts = append(opts, chromedp.ExecPath(binary))
	}
	return opts
}

// minimalOptions is the last-resort configuration.
func minimalOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
}

// findChromeBinary locates a Chrome/Chromium binary for the primary attempt.
func findChromeBinary(cfg *config.Config) string {
	if cfg.ChromeBin != "" {
		return cfg.ChromeBin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
