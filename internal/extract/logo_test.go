package extract

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeDownloader struct {
	responses map[string]fakeAsset
	requested []string
}

type fakeAsset struct {
	data        []byte
	contentType string
	err         error
}

func (f *fakeDownloader) Download(_ context.Context, url string) ([]byte, string, error) {
	f.requested = append(f.requested, url)
	asset, ok := f.responses[url]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return asset.data, asset.contentType, asset.err
}

func TestIsLogoCandidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		alt  string
		want bool
	}{
		{"logo in src", "/static/logo.png", "", true},
		{"logo in alt only", "/assets/mark.png", "Acme logo", true},
		{"brand in src", "/img/brand-mark.svg", "", true},
		{"no indicator", "/img/photo.jpg", "team photo", false},
		{"logo but banner", "/img/logo-banner.png", "", false},
		{"logo but hero", "/img/hero-logo.jpg", "", false},
		{"logo but sprite", "/img/logo-sprite.png", "company logo", false},
		{"logo but favicon", "/favicon-logo.ico", "", false},
		{"logo but social", "/social/logo-twitter.png", "", false},
		{"case insensitive", "/static/LOGO.PNG", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLogoCandidate(tt.src, tt.alt); got != tt.want {
				t.Errorf("IsLogoCandidate(%q, %q) = %v, want %v", tt.src, tt.alt, got, tt.want)
			}
		})
	}
}

func TestLogoLocator_Locate(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<header><img src="/static/logo.png" alt="Acme logo"></header>
		<img src="/img/photo.jpg" alt="office">
	</body></html>`)

	dl := &fakeDownloader{responses: map[string]fakeAsset{
		"https://acme.example/static/logo.png": {
			data:        []byte{0x89, 0x50, 0x4E, 0x47},
			contentType: "image/png",
		},
	}}

	locator := NewLogoLocator(dl, zap.NewNop())
	logo, data := locator.Locate(context.Background(), doc, "https://acme.example/")
	if logo == nil {
		t.Fatal("expected a logo")
	}
	if logo.SourceURL != "https://acme.example/static/logo.png" {
		t.Errorf("SourceURL = %q", logo.SourceURL)
	}
	if logo.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", logo.ContentType)
	}
	if logo.Size != 4 || len(data) != 4 {
		t.Errorf("Size = %d, len(data) = %d, want 4", logo.Size, len(data))
	}
}

func TestLogoLocator_RejectsNonImageContentType(t *testing.T) {
	doc := mustParse(t, `<img src="/logo" alt="logo">`)

	dl := &fakeDownloader{responses: map[string]fakeAsset{
		"https://acme.example/logo": {
			data:        []byte("<html>not found</html>"),
			contentType: "text/html",
		},
	}}

	locator := NewLogoLocator(dl, zap.NewNop())
	logo, _ := locator.Locate(context.Background(), doc, "https://acme.example/")
	if logo != nil {
		t.Errorf("expected nil logo for non-image content type, got %+v", logo)
	}
}

func TestLogoLocator_NoCandidates(t *testing.T) {
	doc := mustParse(t, `<img src="/img/photo.jpg" alt="office photo">`)

	dl := &fakeDownloader{responses: map[string]fakeAsset{}}
	locator := NewLogoLocator(dl, zap.NewNop())

	logo, _ := locator.Locate(context.Background(), doc, "https://acme.example/")
	if logo != nil {
		t.Errorf("expected nil logo, got %+v", logo)
	}
	if len(dl.requested) != 0 {
		t.Errorf("no downloads should have happened, got %v", dl.requested)
	}
}

func TestLogoLocator_HeaderCandidatePreferred(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<img src="/footer/logo-small.png" alt="logo">
		<header><img src="/static/logo.svg" alt="Acme logo"></header>
	</body></html>`)

	dl := &fakeDownloader{responses: map[string]fakeAsset{
		"https://acme.example/static/logo.svg": {
			data:        []byte("<svg/>"),
			contentType: "image/svg+xml",
		},
		"https://acme.example/footer/logo-small.png": {
			data:        []byte{1, 2, 3},
			contentType: "image/png",
		},
	}}

	locator := NewLogoLocator(dl, zap.NewNop())
	logo, _ := locator.Locate(context.Background(), doc, "https://acme.example/")
	if logo == nil {
		t.Fatal("expected a logo")
	}
	if logo.SourceURL != "https://acme.example/static/logo.svg" {
		t.Errorf("expected the header candidate first, got %q", logo.SourceURL)
	}
}

func TestLogoLocator_DownloadFailureFallsThrough(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<header><img src="/broken/logo.png" alt="logo"></header>
		<img src="/static/logo.png" alt="logo">
	</body></html>`)

	dl := &fakeDownloader{responses: map[string]fakeAsset{
		"https://acme.example/static/logo.png": {
			data:        []byte{1, 2, 3, 4, 5},
			contentType: "image/png",
		},
	}}

	locator := NewLogoLocator(dl, zap.NewNop())
	logo, _ := locator.Locate(context.Background(), doc, "https://acme.example/")
	if logo == nil {
		t.Fatal("expected fallback to the next candidate")
	}
	if logo.SourceURL != "https://acme.example/static/logo.png" {
		t.Errorf("SourceURL = %q", logo.SourceURL)
	}
}
