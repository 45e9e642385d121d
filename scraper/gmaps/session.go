package gmaps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jgl02/sharedlist-scraper/config"
	"github.com/jgl02/sharedlist-scraper/utils"
)

const (
	// pageSettleWait gives the panel's first render a moment after navigation.
	pageSettleWait = 3 * time.Second

	// contentWait bounds how long Open waits for the first place name. An
	// empty list never shows one, so expiry is a warning, not a failure.
	contentWait = 10 * time.Second

	// opTimeout bounds each single browser call after the page is open.
	opTimeout = 15 * time.Second
)

// countItemsScript reports how many place containers are currently queryable.
var countItemsScript = fmt.Sprintf("document.querySelectorAll(%q).length", itemSelector)

// Session owns one headless browser bound to one list page for the lifetime
// of a harvest. It is the only component that talks to the live page; the
// rest of the pipeline works on snapshots it captures.
type Session struct {
	cfg    *config.Config
	logger *utils.Logger

	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession launches a browser context under parent. Cancelling parent
// tears the browser down; Close does the same thing gracefully.
func NewSession(parent context.Context, cfg *config.Config, logger *utils.Logger) *Session {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	if chromeBin != "" {
		logger.Info("[session] Using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Session{
		cfg:         cfg,
		logger:      logger,
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}
}

// Open navigates to the list URL and waits for it to become interactive.
// A page that cannot be reached within the navigation timeout is fatal; a
// page that loads but shows no places yet is not.
func (s *Session) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return &NavigationError{URL: url, Err: err}
	}

	navCtx, cancel := context.WithTimeout(s.ctx, s.cfg.NavTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(pageSettleWait),
		chromedp.Evaluate(consentScript, nil),
	)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}

	waitCtx, cancelWait := context.WithTimeout(s.ctx, contentWait)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(nameWaitSelector, chromedp.ByQuery)); err != nil {
		s.logger.Warn("[session] No place entries visible after %s - proceeding, list may be empty", contentWait)
	}

	return nil
}

// ItemCount reports how many place containers are currently queryable. A
// virtualized panel may report fewer than the list holds; the scroll loop
// only ever reads the count as a growth signal, never as a total.
func (s *Session) ItemCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	opCtx, cancel := context.WithTimeout(s.ctx, opTimeout)
	defer cancel()

	var count int
	if err := chromedp.Run(opCtx, chromedp.Evaluate(countItemsScript, &count)); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// ScrollList issues one scroll of the results panel. Loading happens
// asynchronously on the page; the caller owns the pause that lets new
// content arrive.
func (s *Session) ScrollList(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(s.ctx, opTimeout)
	defer cancel()

	var panelFound bool
	if err := chromedp.Run(opCtx, chromedp.Evaluate(scrollPanelScript, &panelFound)); err != nil {
		return fmt.Errorf("scroll list: %w", err)
	}
	if !panelFound {
		s.logger.Debug("[session] Results panel not found, scrolled window instead")
	}
	return nil
}

// CaptureHTML snapshots the full document for the extractor.
func (s *Session) CaptureHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	opCtx, cancel := context.WithTimeout(s.ctx, opTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("capture html: %w", err)
	}
	return html, nil
}

// CollectNotes reads the live value of every note textarea on the page,
// keyed by the owning place name.
func (s *Session) CollectNotes(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(s.ctx, opTimeout)
	defer cancel()

	notes := make(map[string]string)
	if err := chromedp.Run(opCtx, chromedp.Evaluate(collectNotesScript, &notes)); err != nil {
		return nil, fmt.Errorf("collect notes: %w", err)
	}
	return notes, nil
}

// Close shuts the browser down gracefully. Safe to call after the parent
// context was cancelled; at that point there is nothing left to close.
func (s *Session) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelCtx()
	s.cancelAlloc()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("session teardown: %w", err)
	}
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary, preferring an explicit
// override from configuration.
func findChromeBinary(override string) string {
	if override != "" {
		return override
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
