package extract

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/brandlens/brandlens/internal/domain"
)

// requiredLogoIndicators must appear in the image src or alt text for it
// to be considered a logo at all
var requiredLogoIndicators = []string{"logo", "brand"}

// forbiddenLogoPatterns disqualify an image regardless of other hints
var forbiddenLogoPatterns = []string{
	"banner", "hero", "background", "icon", "social", "favicon", "sprite",
}

// Downloader retrieves a remote asset and reports its content type
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// LogoLocator finds and validates a brand logo on a page
type LogoLocator struct {
	downloader Downloader
	logger     *zap.Logger
}

// NewLogoLocator creates a logo locator
func NewLogoLocator(downloader Downloader, logger *zap.Logger) *LogoLocator {
	return &LogoLocator{downloader: downloader, logger: logger}
}

type logoCandidate struct {
	src      string
	alt      string
	inHeader bool
}

// Locate scans the document for a logo image, downloads the best candidate
// and validates that the response really is an image. It returns nil when
// no acceptable logo exists; there is no placeholder fallback.
func (l *LogoLocator) Locate(ctx context.Context, doc *html.Node, baseURL string) (*domain.Logo, []byte) {
	for _, cand := range logoCandidates(doc) {
		resolved, err := resolveURL(baseURL, cand.src)
		if err != nil {
			continue
		}

		data, contentType, err := l.downloader.Download(ctx, resolved)
		if err != nil {
			l.logger.Debug("logo download failed", zap.String("src", resolved), zap.Error(err))
			continue
		}
		if !strings.HasPrefix(contentType, "image/") {
			l.logger.Debug("logo candidate is not an image",
				zap.String("src", resolved), zap.String("content_type", contentType))
			continue
		}

		return &domain.Logo{
			SourceURL:   resolved,
			ContentType: contentType,
			Size:        int64(len(data)),
		}, data
	}

	return nil, nil
}

// logoCandidates returns accepted img elements, header/nav images first,
// otherwise in document order
func logoCandidates(doc *html.Node) []logoCandidate {
	var header, rest []logoCandidate

	walk(doc, func(n *html.Node) bool {
		if !isElement(n, "img") {
			return true
		}
		cand := logoCandidate{
			src: attr(n, "src"),
			alt: attr(n, "alt"),
			inHeader: hasAncestor(n, func(p *html.Node) bool {
				return p.Data == "header" || p.Data == "nav" || classContains(p, "header", "navbar", "brand")
			}),
		}
		if cand.src == "" || !IsLogoCandidate(cand.src, cand.alt) {
			return true
		}
		if cand.inHeader {
			header = append(header, cand)
		} else {
			rest = append(rest, cand)
		}
		return true
	})

	return append(header, rest...)
}

// IsLogoCandidate applies the conjunctive logo filter: a required indicator
// must be present in src or alt AND no forbidden pattern may appear in src.
func IsLogoCandidate(src, alt string) bool {
	lowSrc := strings.ToLower(src)
	lowAlt := strings.ToLower(alt)

	required := false
	for _, ind := range requiredLogoIndicators {
		if strings.Contains(lowSrc, ind) || strings.Contains(lowAlt, ind) {
			required = true
			break
		}
	}
	if !required {
		return false
	}

	for _, pat := range forbiddenLogoPatterns {
		if strings.Contains(lowSrc, pat) {
			return false
		}
	}
	return true
}

// resolveURL resolves a possibly relative src against the page URL
func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
