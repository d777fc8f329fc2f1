// Package fetch retrieves target pages for signal extraction. It offers a
// plain HTTP fetcher and a browser-rendered fetcher that also captures a
// screenshot for color sampling.
package fetch

import (
	"context"
	"time"
)

// PageMethod identifies how a page was retrieved
type PageMethod string

const (
	MethodStatic   PageMethod = "static"
	MethodRendered PageMethod = "rendered"
)

// Page is one fetched target page
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	HTML        string
	Screenshot  []byte
	Method      PageMethod
	FetchedAt   time.Time
	Duration    time.Duration
}

// Fetcher retrieves pages and auxiliary assets
type Fetcher interface {
	// Fetch retrieves the page at url. Non-2xx responses and transport
	// failures return a domain fetch error.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Download retrieves a raw asset (logo images) and reports its
	// content type.
	Download(ctx context.Context, url string) ([]byte, string, error)
}
