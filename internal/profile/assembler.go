// Package profile assembles extraction outputs into brand profiles and
// deduplicates them by company identity.
package profile

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/enrich"
	"github.com/brandlens/brandlens/internal/extract"
)

// Completeness weights. They sum to 1.0 and double as the profile
// confidence score.
const (
	weightName        = 0.20
	weightPositioning = 0.20
	weightValueProp   = 0.15
	weightMessages    = 0.15
	weightColors      = 0.10
	weightLogo        = 0.10
	weightPersonality = 0.10
)

// Input carries everything the extraction stages produced for one URL
type Input struct {
	URL        string
	Colors     []string
	ColorMethod domain.ExtractionMethod
	// ColorsAreFallback marks the neutral default palette, which carries
	// no real signal and does not count toward completeness.
	ColorsAreFallback bool
	Logo              *domain.Logo
	HeroText          []string
	Context           extract.PageContext
	Enrichment        enrich.Result
	FetchedAt         time.Time
	Duration          time.Duration
}

// Assemble merges the extraction outputs into a single BrandProfile.
// AI-derived values win over heuristics when enrichment succeeded; the
// heuristics fill in when it did not. A page that produced no usable
// signal at all yields an insufficient-signal error instead of a profile.
func Assemble(in Input) (*domain.BrandProfile, error) {
	enriched := in.Enrichment.Status == domain.EnrichmentStatusEnriched
	rec := in.Enrichment.Record

	p := &domain.BrandProfile{
		ID:               uuid.New(),
		URL:              in.URL,
		Domain:           hostOf(in.URL),
		Colors:           in.Colors,
		Logo:             in.Logo,
		EnrichmentStatus: in.Enrichment.Status,
		ExtractedAt:      in.FetchedAt,
		Duration:         in.Duration,
	}

	// Company name: AI over heuristic
	heuristicName := extract.CompanyNameFromPage(in.Context.Title, in.URL)
	if enriched && rec.CompanyName != "" {
		p.CompanyName = rec.CompanyName
	} else {
		p.CompanyName = heuristicName
	}

	// Positioning and value proposition
	if enriched && rec.Positioning != "" {
		p.Positioning = rec.Positioning
	} else if len(in.HeroText) > 0 {
		p.Positioning = in.HeroText[0]
	}
	if enriched && rec.ValueProposition != "" {
		p.ValueProposition = rec.ValueProposition
	} else if len(in.HeroText) > 1 {
		p.ValueProposition = in.HeroText[1]
	}

	// Messages
	if enriched && len(rec.PrimaryMessages) > 0 {
		p.PrimaryMessages = rec.PrimaryMessages
	} else {
		p.PrimaryMessages = in.HeroText
	}

	// AI-only fields. On failure the labeled defaults are carried for
	// display but never count toward confidence.
	p.PersonalityDescriptors = rec.PersonalityDescriptors
	p.TargetAudience = rec.TargetAudience
	p.BrandVoice = rec.BrandVoice
	p.VisualStyle = rec.VisualStyle
	p.DifferentiationFactors = rec.DifferentiationFactors

	p.Methods = methodsUsed(in, enriched)

	if !p.HasSignal() {
		return nil, domain.ErrInsufficientSignal(in.URL)
	}

	p.Confidence = completeness(p, in, enriched)
	return p, nil
}

// methodsUsed records exactly the components that contributed
func methodsUsed(in Input, enriched bool) []domain.ExtractionMethod {
	var methods []domain.ExtractionMethod
	if len(in.Colors) > 0 && !in.ColorsAreFallback {
		methods = append(methods, in.ColorMethod)
	}
	if in.Logo != nil || len(in.HeroText) > 0 || in.Context.Title != "" {
		methods = append(methods, domain.MethodHeuristicDOM)
	}
	if enriched {
		methods = append(methods, domain.MethodAIEnrichment)
	}
	return methods
}

// completeness is the weighted fraction of populated profile fields
func completeness(p *domain.BrandProfile, in Input, enriched bool) float64 {
	score := 0.0
	if p.CompanyName != "" {
		score += weightName
	}
	if p.Positioning != "" && (enriched || len(in.HeroText) > 0) {
		score += weightPositioning
	}
	if p.ValueProposition != "" {
		score += weightValueProp
	}
	if len(p.PrimaryMessages) > 0 {
		score += weightMessages
	}
	if len(p.Colors) > 0 && !in.ColorsAreFallback {
		score += weightColors
	}
	if p.Logo != nil {
		score += weightLogo
	}
	if enriched && len(p.PersonalityDescriptors) > 0 {
		score += weightPersonality
	}
	return score
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
