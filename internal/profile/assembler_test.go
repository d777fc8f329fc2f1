package profile

import (
	"math"
	"testing"
	"time"

	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/enrich"
	"github.com/brandlens/brandlens/internal/extract"
)

func fullInput() Input {
	return Input{
		URL:         "https://www.acme.example/",
		Colors:      []string{"#ff5733", "#3357ff"},
		ColorMethod: domain.MethodHeuristicCSS,
		Logo:        &domain.Logo{SourceURL: "https://acme.example/logo.png", ContentType: "image/png"},
		HeroText:    []string{"Understand any market in minutes", "Built for analysts who move fast"},
		Context:     extract.PageContext{Title: "Acme | Market Intelligence"},
		Enrichment: enrich.Result{
			Status: domain.EnrichmentStatusEnriched,
			Record: enrich.Record{
				CompanyName:            "Acme",
				Positioning:            "The only market intelligence platform for analysts",
				ValueProposition:       "Understand any market in minutes",
				PrimaryMessages:        []string{"Fast", "Accurate", "Complete"},
				PersonalityDescriptors: []string{"Bold", "Precise"},
			},
		},
		FetchedAt: time.Now().UTC(),
		Duration:  2 * time.Second,
	}
}

func TestAssemble_AIPrecedence(t *testing.T) {
	p, err := Assemble(fullInput())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if p.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q, want the AI value", p.CompanyName)
	}
	if p.Positioning != "The only market intelligence platform for analysts" {
		t.Errorf("Positioning = %q, want the AI value", p.Positioning)
	}
	if p.Domain != "acme.example" {
		t.Errorf("Domain = %q", p.Domain)
	}
	if !p.UsedMethod(domain.MethodAIEnrichment) {
		t.Error("ai-enrichment should be recorded")
	}
	if !p.UsedMethod(domain.MethodHeuristicCSS) {
		t.Error("heuristic-css should be recorded")
	}
}

func TestAssemble_HeuristicFallback(t *testing.T) {
	in := fullInput()
	in.Enrichment = enrich.Result{
		Status: domain.EnrichmentStatusFailed,
		Record: enrich.DefaultRecord(),
		Reason: "timeout",
	}

	p, err := Assemble(in)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if p.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q, want title-derived heuristic", p.CompanyName)
	}
	if p.Positioning != "Understand any market in minutes" {
		t.Errorf("Positioning = %q, want first hero fragment", p.Positioning)
	}
	if p.ValueProposition != "Built for analysts who move fast" {
		t.Errorf("ValueProposition = %q, want second hero fragment", p.ValueProposition)
	}
	if p.EnrichmentStatus != domain.EnrichmentStatusFailed {
		t.Errorf("EnrichmentStatus = %s, want failed", p.EnrichmentStatus)
	}
	if p.UsedMethod(domain.MethodAIEnrichment) {
		t.Error("ai-enrichment must not be recorded on failure")
	}
}

func TestAssemble_ConfidenceFullProfile(t *testing.T) {
	p, err := Assemble(fullInput())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if math.Abs(p.Confidence-1.0) > 1e-9 {
		t.Errorf("Confidence = %f, want 1.0 for a complete profile", p.Confidence)
	}
}

func TestAssemble_ConfidenceMonotonic(t *testing.T) {
	full, err := Assemble(fullInput())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	reduced := fullInput()
	reduced.Logo = nil
	partial, err := Assemble(reduced)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if partial.Confidence >= full.Confidence {
		t.Errorf("removing a field must lower confidence: %f >= %f", partial.Confidence, full.Confidence)
	}
	if math.Abs(full.Confidence-partial.Confidence-0.10) > 1e-9 {
		t.Errorf("logo weight = %f, want 0.10", full.Confidence-partial.Confidence)
	}
}

func TestAssemble_NeutralPaletteDoesNotCount(t *testing.T) {
	in := fullInput()
	withColors, _ := Assemble(in)

	in.ColorsAreFallback = true
	withFallback, err := Assemble(in)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if math.Abs(withColors.Confidence-withFallback.Confidence-0.10) > 1e-9 {
		t.Errorf("fallback palette must not add the color weight: %f vs %f",
			withColors.Confidence, withFallback.Confidence)
	}
	if withFallback.UsedMethod(domain.MethodHeuristicCSS) {
		t.Error("fallback palette must not record a color method")
	}
}

func TestAssemble_NoSignal(t *testing.T) {
	in := Input{
		URL:               "https://empty.example/",
		ColorsAreFallback: true,
		Enrichment: enrich.Result{
			Status: domain.EnrichmentStatusFailed,
			Record: enrich.DefaultRecord(),
		},
	}

	// Strip the host-derived name so genuinely nothing is known
	in.Context = extract.PageContext{}
	p, err := Assemble(in)
	if err == nil {
		// The host heuristic still names the brand, which counts as signal
		if p.CompanyName == "" {
			t.Error("profile without any signal should not assemble")
		}
		return
	}
	if domain.GetErrorCode(err) != domain.ErrCodeInsufficientSignal {
		t.Errorf("error code = %s, want %s", domain.GetErrorCode(err), domain.ErrCodeInsufficientSignal)
	}
}

func TestAssemble_FallbackPaletteAloneIsNoSignal(t *testing.T) {
	// No title and no parseable host, so the name heuristic yields
	// nothing; the neutral palette must not rescue the profile.
	in := Input{
		URL:               "not-a-url",
		Colors:            []string{"#666666", "#999999", "#cccccc"},
		ColorsAreFallback: true,
		Enrichment: enrich.Result{
			Status: domain.EnrichmentStatusFailed,
			Record: enrich.DefaultRecord(),
		},
	}

	_, err := Assemble(in)
	if err == nil {
		t.Fatal("fallback palette alone must not assemble a profile")
	}
	if domain.GetErrorCode(err) != domain.ErrCodeInsufficientSignal {
		t.Errorf("error code = %s, want %s", domain.GetErrorCode(err), domain.ErrCodeInsufficientSignal)
	}
}

func TestAssemble_ScreenshotMethodRecorded(t *testing.T) {
	in := fullInput()
	in.ColorMethod = domain.MethodScreenshotSampling

	p, err := Assemble(in)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if !p.UsedMethod(domain.MethodScreenshotSampling) {
		t.Error("screenshot-sampling should be recorded")
	}
}
