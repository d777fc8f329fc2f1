package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/enrich"
	"github.com/brandlens/brandlens/internal/extract"
	"github.com/brandlens/brandlens/internal/fetch"
	"github.com/brandlens/brandlens/internal/observability"
	"github.com/brandlens/brandlens/internal/profile"
	"github.com/brandlens/brandlens/internal/report"
)

// Enricher produces AI enrichment for a fetched page
type Enricher interface {
	Enrich(ctx context.Context, url string, pageCtx extract.PageContext, heroText []string) enrich.Result
}

// LogoStore persists downloaded logo binaries
type LogoStore interface {
	UploadLogo(ctx context.Context, siteDomain string, data []byte, contentType string) (string, error)
}

// PageCache caches fetched pages and assembled profiles. All methods
// return nil on a miss.
type PageCache interface {
	GetPageHTML(ctx context.Context, url string) ([]byte, error)
	SetPageHTML(ctx context.Context, url string, html []byte) error
	GetProfile(ctx context.Context, url string) (*domain.BrandProfile, error)
	SetProfile(ctx context.Context, profile *domain.BrandProfile) error
}

// Pipeline runs the per-site extraction fan-out and the final aggregation
type Pipeline struct {
	cfg       config.PipelineConfig
	fetcher   fetch.Fetcher
	logos     *extract.LogoLocator
	enricher  Enricher
	store     LogoStore
	cache     PageCache
	generator *report.Generator
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// Option configures optional pipeline dependencies
type Option func(*Pipeline)

// WithLogoStore enables logo persistence
func WithLogoStore(store LogoStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithCache enables page and profile caching
func WithCache(cache PageCache) Option {
	return func(p *Pipeline) { p.cache = cache }
}

// WithMetrics enables metric recording
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline. The fetcher and enricher are required, storage
// and caching are optional and skipped when absent.
func New(cfg config.PipelineConfig, fetcher fetch.Fetcher, enricher Enricher, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		fetcher:   fetcher,
		logos:     extract.NewLogoLocator(fetcher, logger),
		enricher:  enricher,
		generator: report.NewGenerator(logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type siteResult struct {
	profile *domain.BrandProfile
	failure *domain.ExtractionFailure
}

// Analyze extracts a brand profile from every URL and aggregates the
// surviving profiles into a landscape report. Individual site failures
// never abort the run, they are collected into the report instead.
func (p *Pipeline) Analyze(ctx context.Context, title string, urls []string) (*report.LandscapeReport, error) {
	urls = normalizeURLs(urls)
	if len(urls) == 0 {
		return nil, domain.ErrEmptyInput()
	}
	if p.cfg.MaxURLs > 0 && len(urls) > p.cfg.MaxURLs {
		urls = urls[:p.cfg.MaxURLs]
	}

	if p.cfg.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TotalTimeout)
		defer cancel()
	}

	p.logger.Info("starting landscape analysis",
		zap.String("title", title),
		zap.Int("urls", len(urls)),
		zap.Int("concurrency", p.cfg.Concurrency))

	tasks := make(chan string)
	results := make(chan siteResult, len(urls))

	var wg sync.WaitGroup
	workers := p.cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range tasks {
				results <- p.processSite(ctx, url)
			}
		}()
	}

	for _, url := range urls {
		tasks <- url
	}
	close(tasks)
	wg.Wait()
	close(results)

	var profiles []*domain.BrandProfile
	var failures []domain.ExtractionFailure
	for r := range results {
		if r.profile != nil {
			profiles = append(profiles, r.profile)
		}
		if r.failure != nil {
			failures = append(failures, *r.failure)
		}
	}

	survivors, dropped := profile.Dedupe(profiles, p.logger)

	rep := p.generator.Generate(title, len(urls), survivors, failures, dropped)
	if p.metrics != nil {
		p.metrics.RecordAnalysis(rep.Status, rep.ProfileCount, dropped)
	}

	return rep, nil
}

// processSite runs the full extraction sequence for one URL. Every error
// is converted into an ExtractionFailure so the caller's fan-in never
// has to distinguish error shapes.
func (p *Pipeline) processSite(ctx context.Context, url string) siteResult {
	if p.cfg.PerURLTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.PerURLTimeout)
		defer cancel()
	}

	start := time.Now()
	log := p.logger.With(zap.String("url", url))

	if p.cache != nil {
		if cached, err := p.cache.GetProfile(ctx, url); err == nil && cached != nil {
			log.Debug("profile cache hit")
			return siteResult{profile: cached}
		}
	}

	page, err := p.fetchPage(ctx, url)
	if err != nil {
		log.Warn("fetch failed", zap.Error(err))
		return p.failSite(url, err, start, nil)
	}

	doc, err := extract.ParseDocument(page.HTML)
	if err != nil {
		log.Warn("parse failed", zap.Error(err))
		return p.failSite(url, domain.ErrParseFailed(url, err), start, nil)
	}

	colors := extract.SampleColors(doc)
	colorsAreFallback := extract.IsNeutralPalette(colors)
	colorMethod := domain.MethodHeuristicCSS

	// A rendered screenshot can recover a palette the markup hides
	// behind external stylesheets
	if colorsAreFallback && len(page.Screenshot) > 0 {
		if sampled := extract.SampleScreenshot(page.Screenshot); len(sampled) > 0 {
			colors = sampled
			colorsAreFallback = false
			colorMethod = domain.MethodScreenshotSampling
		}
	}

	logo, logoData := p.logos.Locate(ctx, doc, page.FinalURL)
	heroText := extract.HeroText(doc)
	pageCtx := extract.BuildContext(doc)

	enrichStart := time.Now()
	enrichment := p.enricher.Enrich(ctx, url, pageCtx, heroText)
	if enrichment.Status == domain.EnrichmentStatusFailed {
		log.Warn("enrichment failed, falling back to heuristics",
			zap.String("reason", enrichment.Reason))
	}
	if p.metrics != nil {
		model, in, out := "unknown", 0, 0
		if enrichment.Usage != nil {
			if enrichment.Usage.Model != "" {
				model = enrichment.Usage.Model
			}
			in, out = enrichment.Usage.InputTokens, enrichment.Usage.OutputTokens
		}
		p.metrics.RecordClaudeRequest(model, "brand-enrichment", string(enrichment.Status), time.Since(enrichStart), in, out)
	}

	prof, err := profile.Assemble(profile.Input{
		URL:               url,
		Colors:            colors,
		ColorMethod:       colorMethod,
		ColorsAreFallback: colorsAreFallback,
		Logo:              logo,
		HeroText:          heroText,
		Context:           pageCtx,
		Enrichment:        enrichment,
		FetchedAt:         page.FetchedAt,
		Duration:          time.Since(start),
	})
	if err != nil {
		log.Warn("no usable brand signal", zap.Error(err))
		return p.failSite(url, err, start, usedMethods(colorsAreFallback, logo, heroText, enrichment))
	}

	if p.store != nil && p.cfg.StoreLogos && logo != nil && len(logoData) > 0 {
		uri, err := p.store.UploadLogo(ctx, prof.Domain, logoData, logo.ContentType)
		if err != nil {
			log.Warn("logo upload failed", zap.Error(err))
		} else {
			prof.Logo.StorageURI = uri
		}
	}

	if p.cache != nil {
		if err := p.cache.SetProfile(ctx, prof); err != nil {
			log.Debug("profile cache write failed", zap.Error(err))
		}
	}

	if p.metrics != nil {
		p.metrics.RecordExtraction("ok", string(colorMethod), time.Since(start))
	}

	log.Info("profile extracted",
		zap.String("company", prof.CompanyName),
		zap.Float64("confidence", prof.Confidence),
		zap.Duration("duration", time.Since(start)))

	return siteResult{profile: prof}
}

// fetchPage consults the page cache before hitting the network
func (p *Pipeline) fetchPage(ctx context.Context, url string) (*fetch.Page, error) {
	if p.cache != nil {
		if html, err := p.cache.GetPageHTML(ctx, url); err == nil && len(html) > 0 {
			return &fetch.Page{
				URL:       url,
				FinalURL:  url,
				HTML:      string(html),
				Method:    fetch.MethodStatic,
				FetchedAt: time.Now().UTC(),
			}, nil
		}
	}

	fetchStart := time.Now()
	page, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordFetch("unknown", "error", time.Since(fetchStart))
		}
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordFetch(string(page.Method), "ok", time.Since(fetchStart))
	}

	if p.cache != nil {
		if err := p.cache.SetPageHTML(ctx, url, []byte(page.HTML)); err != nil {
			p.logger.Debug("page cache write failed", zap.String("url", url), zap.Error(err))
		}
	}

	return page, nil
}

func (p *Pipeline) failSite(url string, err error, start time.Time, methods []domain.ExtractionMethod) siteResult {
	code := domain.GetErrorCode(err)
	if p.metrics != nil {
		p.metrics.RecordExtractionFailure(code)
		p.metrics.RecordExtraction("failed", "", time.Since(start))
	}
	return siteResult{failure: &domain.ExtractionFailure{
		URL:              url,
		Reason:           err.Error(),
		Code:             code,
		AttemptedMethods: methods,
		Timestamp:        time.Now().UTC(),
	}}
}

// usedMethods reconstructs the attempted methods for a failure record
func usedMethods(colorsAreFallback bool, logo *domain.Logo, heroText []string, enrichment enrich.Result) []domain.ExtractionMethod {
	var methods []domain.ExtractionMethod
	if !colorsAreFallback {
		methods = append(methods, domain.MethodHeuristicCSS)
	}
	if logo != nil || len(heroText) > 0 {
		methods = append(methods, domain.MethodHeuristicDOM)
	}
	if enrichment.Status == domain.EnrichmentStatusEnriched {
		methods = append(methods, domain.MethodAIEnrichment)
	}
	return methods
}

// normalizeURLs trims whitespace and drops empty and duplicate entries
// while preserving order
func normalizeURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := urls[:0:0]
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
