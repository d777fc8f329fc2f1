package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/extract"
	"github.com/brandlens/brandlens/internal/llm"
)

type fakeCompleter struct {
	record     *Record
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, system, user string, result interface{}) (*llm.Usage, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return nil, f.err
	}
	*result.(*Record) = *f.record
	return &llm.Usage{InputTokens: 100, OutputTokens: 50}, nil
}

func TestEnrich_Success(t *testing.T) {
	completer := &fakeCompleter{record: &Record{
		CompanyName:            "Acme",
		Positioning:            "The only platform built for market analysts",
		ValueProposition:       "Understand any market in minutes",
		PrimaryMessages:        []string{"Fast", "Accurate"},
		PersonalityDescriptors: []string{"Bold", "Precise"},
		TargetAudience:         "Marketing analysts",
	}}

	e := NewEnricher(completer, zap.NewNop())
	result := e.Enrich(context.Background(), "https://acme.example", extract.PageContext{
		Title: "Acme | Market Intelligence",
	}, []string{"Understand any market in minutes"})

	if result.Status != domain.EnrichmentStatusEnriched {
		t.Fatalf("Status = %s, want enriched", result.Status)
	}
	if result.Record.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q", result.Record.CompanyName)
	}
	if result.Usage == nil || result.Usage.InputTokens != 100 {
		t.Errorf("Usage = %+v", result.Usage)
	}
	if !strings.Contains(completer.lastUser, "https://acme.example") {
		t.Error("prompt should contain the target URL")
	}
	if !strings.Contains(completer.lastUser, "Understand any market in minutes") {
		t.Error("prompt should contain the headline copy")
	}
}

func TestEnrich_FailureIsTaggedNotFabricated(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("API error (status 500)")}

	e := NewEnricher(completer, zap.NewNop())
	result := e.Enrich(context.Background(), "https://acme.example", extract.PageContext{}, nil)

	if result.Status != domain.EnrichmentStatusFailed {
		t.Fatalf("Status = %s, want failed", result.Status)
	}
	if result.Reason == "" {
		t.Error("failed result must carry a reason")
	}
	if result.Record.CompanyName != "" {
		t.Errorf("failed record must not invent a company name, got %q", result.Record.CompanyName)
	}
	if !strings.Contains(result.Record.Positioning, "unavailable") {
		t.Errorf("failed record positioning must be labeled generic, got %q", result.Record.Positioning)
	}
}

func TestEnrich_ClampsListFields(t *testing.T) {
	completer := &fakeCompleter{record: &Record{
		CompanyName:            "Acme",
		PrimaryMessages:        []string{"a", "b", "c", "d", "e"},
		PersonalityDescriptors: []string{"1", "2", "3", "4", "5", "6", "7", "8"},
	}}

	e := NewEnricher(completer, zap.NewNop())
	result := e.Enrich(context.Background(), "https://acme.example", extract.PageContext{}, nil)

	if len(result.Record.PrimaryMessages) != 3 {
		t.Errorf("PrimaryMessages len = %d, want 3", len(result.Record.PrimaryMessages))
	}
	if len(result.Record.PersonalityDescriptors) != 6 {
		t.Errorf("PersonalityDescriptors len = %d, want 6", len(result.Record.PersonalityDescriptors))
	}
}

func TestBuildUserPrompt_IncludesContext(t *testing.T) {
	prompt := buildUserPrompt("https://acme.example", extract.PageContext{
		Title:           "Acme",
		MetaDescription: "Market intelligence platform",
		Headings:        []string{"Why Acme"},
		NavLabels:       []string{"Pricing", "Docs"},
		Paragraphs:      []string{"Acme aggregates signals."},
	}, []string{"Know your market"})

	for _, want := range []string{
		"Acme", "Market intelligence platform", "Why Acme",
		"Pricing, Docs", "Acme aggregates signals.", "Know your market",
		"company_name", "personality_descriptors",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
