package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/domain"
)

// RenderedFetcher retrieves pages through a headless browser so that
// JavaScript-built markup and a screenshot are available. Asset downloads
// are delegated to a plain HTTP fetcher.
type RenderedFetcher struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	cfg      config.FetchConfig
	fallback *HTTPFetcher
	logger   *zap.Logger
}

// NewRenderedFetcher launches a headless Chromium instance
func NewRenderedFetcher(cfg config.FetchConfig, fallback *HTTPFetcher, logger *zap.Logger) (*RenderedFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &RenderedFetcher{
		pw:       pw,
		browser:  browser,
		cfg:      cfg,
		fallback: fallback,
		logger:   logger,
	}, nil
}

// Close cleans up browser resources
func (f *RenderedFetcher) Close() error {
	if f.browser != nil {
		f.browser.Close()
	}
	if f.pw != nil {
		return f.pw.Stop()
	}
	return nil
}

// Fetch renders the page at url and captures its markup and a screenshot
func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	start := time.Now()

	browserCtx, err := f.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  f.cfg.ScreenshotWide,
			Height: f.cfg.ScreenshotTall,
		},
		UserAgent: playwright.String(f.cfg.UserAgent),
	})
	if err != nil {
		return nil, domain.ErrFetchFailed(url, fmt.Errorf("creating browser context: %w", err))
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, domain.ErrFetchFailed(url, fmt.Errorf("creating page: %w", err))
	}

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(f.cfg.RenderTimeout.Milliseconds())),
	})
	if err != nil {
		return nil, domain.ErrFetchFailed(url, fmt.Errorf("navigating: %w", err))
	}

	status := 0
	if resp != nil {
		status = resp.Status()
		if status < 200 || status > 299 {
			return nil, domain.ErrFetchFailed(url, fmt.Errorf("status %d", status))
		}
	}

	html, err := page.Content()
	if err != nil {
		return nil, domain.ErrFetchFailed(url, fmt.Errorf("reading content: %w", err))
	}

	// Screenshot failure is tolerable, the markup alone is still usable
	screenshot, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		f.logger.Warn("screenshot failed", zap.String("url", url), zap.Error(err))
		screenshot = nil
	}

	f.logger.Debug("rendered page",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Bool("screenshot", screenshot != nil),
		zap.Duration("duration", time.Since(start)))

	return &Page{
		URL:        url,
		FinalURL:   page.URL(),
		StatusCode: status,
		HTML:       html,
		Screenshot: screenshot,
		Method:     MethodRendered,
		FetchedAt:  start.UTC(),
		Duration:   time.Since(start),
	}, nil
}

// Download delegates asset downloads to the plain HTTP fetcher
func (f *RenderedFetcher) Download(ctx context.Context, url string) ([]byte, string, error) {
	return f.fallback.Download(ctx, url)
}
