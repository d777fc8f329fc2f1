// Package enrich turns extracted page content into structured brand
// attributes using the Claude API. Failures never produce fabricated
// specifics: the result is tagged and carries a clearly generic record.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/extract"
	"github.com/brandlens/brandlens/internal/llm"
)

const systemPrompt = `You are a brand strategist analyzing a company website.
Given extracted page content, identify the brand's identity and positioning.
Base every field strictly on the provided content. If the content does not
support a field, use an empty string or empty list rather than guessing.`

// Record is the structured enrichment output
type Record struct {
	CompanyName            string   `json:"company_name"`
	Positioning            string   `json:"positioning"`
	ValueProposition       string   `json:"value_proposition"`
	PrimaryMessages        []string `json:"primary_messages"`
	PersonalityDescriptors []string `json:"personality_descriptors"`
	TargetAudience         string   `json:"target_audience"`
	BrandVoice             string   `json:"brand_voice"`
	VisualStyle            string   `json:"visual_style"`
	DifferentiationFactors []string `json:"differentiation_factors"`
}

// Result tags how enrichment ended. A failed result still carries the
// generic default record so downstream assembly has something labeled to
// work with, and the status travels with the profile.
type Result struct {
	Status domain.EnrichmentStatus
	Record Record
	Reason string
	Usage  *llm.Usage
}

// Completer is the LLM surface the enricher needs
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, result interface{}) (*llm.Usage, error)
}

// Enricher runs AI enrichment over extracted page content
type Enricher struct {
	client Completer
	logger *zap.Logger
}

// NewEnricher creates an enricher
func NewEnricher(client Completer, logger *zap.Logger) *Enricher {
	return &Enricher{client: client, logger: logger}
}

// DefaultRecord is the labeled generic record attached to failed
// enrichments. Every value is recognizably non-specific.
func DefaultRecord() Record {
	return Record{
		CompanyName:            "",
		Positioning:            "Positioning unavailable (AI enrichment failed)",
		ValueProposition:       "",
		PrimaryMessages:        []string{},
		PersonalityDescriptors: []string{"Professional", "Reliable"},
		TargetAudience:         "General business audience",
		BrandVoice:             "Professional",
		VisualStyle:            "Standard corporate",
	}
}

// Enrich derives structured brand attributes from one page's content
func (e *Enricher) Enrich(ctx context.Context, url string, pageCtx extract.PageContext, heroText []string) Result {
	userPrompt := buildUserPrompt(url, pageCtx, heroText)

	var rec Record
	usage, err := e.client.CompleteJSON(ctx, systemPrompt, userPrompt, &rec)
	if err != nil {
		e.logger.Warn("enrichment failed",
			zap.String("url", url),
			zap.Error(err))
		return Result{
			Status: domain.EnrichmentStatusFailed,
			Record: DefaultRecord(),
			Reason: err.Error(),
			Usage:  usage,
		}
	}

	clampRecord(&rec)

	return Result{
		Status: domain.EnrichmentStatusEnriched,
		Record: rec,
		Usage:  usage,
	}
}

// clampRecord enforces the size limits on list fields
func clampRecord(rec *Record) {
	if len(rec.PrimaryMessages) > 3 {
		rec.PrimaryMessages = rec.PrimaryMessages[:3]
	}
	if len(rec.PersonalityDescriptors) > 6 {
		rec.PersonalityDescriptors = rec.PersonalityDescriptors[:6]
	}
}

// buildUserPrompt condenses the extracted content into the analysis prompt
func buildUserPrompt(url string, pageCtx extract.PageContext, heroText []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Website: %s\n\n", url)
	if pageCtx.Title != "" {
		fmt.Fprintf(&sb, "Page title: %s\n", pageCtx.Title)
	}
	if pageCtx.MetaDescription != "" {
		fmt.Fprintf(&sb, "Meta description: %s\n", pageCtx.MetaDescription)
	}
	if len(heroText) > 0 {
		fmt.Fprintf(&sb, "\nHeadline copy:\n")
		for _, h := range heroText {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
	}
	if len(pageCtx.Headings) > 0 {
		fmt.Fprintf(&sb, "\nSection headings:\n")
		for _, h := range pageCtx.Headings {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
	}
	if len(pageCtx.NavLabels) > 0 {
		fmt.Fprintf(&sb, "\nNavigation: %s\n", strings.Join(pageCtx.NavLabels, ", "))
	}
	if len(pageCtx.Paragraphs) > 0 {
		fmt.Fprintf(&sb, "\nBody copy:\n")
		for _, p := range pageCtx.Paragraphs {
			fmt.Fprintf(&sb, "%s\n", p)
		}
	}

	sb.WriteString(`
Return a JSON object with exactly these keys:
{
  "company_name": "official company or product name",
  "positioning": "one-sentence positioning statement",
  "value_proposition": "core value proposition",
  "primary_messages": ["up to 3 key marketing messages"],
  "personality_descriptors": ["up to 6 brand personality adjectives"],
  "target_audience": "who the brand targets",
  "brand_voice": "tone of the copy",
  "visual_style": "visual style summary",
  "differentiation_factors": ["what sets the brand apart"]
}`)

	return sb.String()
}
