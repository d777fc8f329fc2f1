package report

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
)

// Generator builds landscape reports from deduplicated profile sets
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a report generator
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate aggregates the profile set into a LandscapeReport. An empty
// set produces a degraded no-data report that keeps the attempted URLs
// and their failure reasons; it never fabricates content.
func (g *Generator) Generate(title string, attempted int, profiles []*domain.BrandProfile, failures []domain.ExtractionFailure, duplicatesDropped int) *LandscapeReport {
	now := time.Now().UTC()

	if len(profiles) == 0 {
		g.logger.Warn("no profiles extracted, producing degraded report",
			zap.String("title", title),
			zap.Int("attempted", attempted))
		return &LandscapeReport{
			ID:             uuid.New(),
			Title:          title,
			Status:         StatusNoData,
			Message:        "no brand profiles could be extracted from the provided URLs",
			GeneratedAt:    now,
			AttemptedCount: attempted,
			Failures:       failures,
			Extraction:     extractionDetails(profiles, failures),
		}
	}

	metrics := make(map[string]BrandMetrics, len(profiles))
	for _, p := range profiles {
		metrics[brandLabel(p)] = BrandMetrics{
			Completeness:       fieldCompleteness(p),
			PositioningClarity: positioningClarity(p),
			MessageConsistency: messageConsistency(p),
			ValuePropStrength:  valuePropStrength(p),
			Differentiation:    differentiation(p, profiles),
		}
	}

	quality := qualityMetrics(profiles, metrics)
	landscape := buildLandscape(profiles, metrics)
	insights := buildInsights(profiles)

	topThemes := make([]string, 0, 5)
	for _, theme := range landscape.CommonThemes {
		if len(topThemes) == 5 {
			break
		}
		topThemes = append(topThemes, theme.Word)
	}

	report := &LandscapeReport{
		ID:                uuid.New(),
		Title:             title,
		Status:            StatusOK,
		GeneratedAt:       now,
		AttemptedCount:    attempted,
		ProfileCount:      len(profiles),
		DuplicatesDropped: duplicatesDropped,
		Profiles:          profiles,
		Failures:          failures,
		Summary: Summary{
			TotalBrands:         len(profiles),
			AverageCompleteness: quality.AvgCompleteness,
			AverageConfidence:   quality.AvgConfidence,
			MarketMaturity:      landscape.MarketMaturity,
			TopThemes:           topThemes,
		},
		Metrics:    metrics,
		Quality:    quality,
		Landscape:  landscape,
		Insights:   insights,
		Extraction: extractionDetails(profiles, failures),
	}

	g.logger.Info("landscape report generated",
		zap.String("title", title),
		zap.Int("brands", len(profiles)),
		zap.Int("failures", len(failures)),
		zap.String("maturity", landscape.MarketMaturity))

	return report
}

// brandLabel keys per-brand maps in the report. The URL stands in when a
// profile carries no company name so unnamed brands never collide on "".
func brandLabel(p *domain.BrandProfile) string {
	if p.CompanyName != "" {
		return p.CompanyName
	}
	return p.URL
}

// requiredFields are the profile fields that count toward set completeness
var requiredFields = []func(*domain.BrandProfile) bool{
	func(p *domain.BrandProfile) bool { return p.CompanyName != "" },
	func(p *domain.BrandProfile) bool { return p.Positioning != "" },
	func(p *domain.BrandProfile) bool { return p.ValueProposition != "" },
	func(p *domain.BrandProfile) bool { return len(p.PrimaryMessages) > 0 },
	func(p *domain.BrandProfile) bool { return len(p.Colors) > 0 },
}

// fieldCompleteness is the fraction of required fields a profile fills
func fieldCompleteness(p *domain.BrandProfile) float64 {
	filled := 0
	for _, present := range requiredFields {
		if present(p) {
			filled++
		}
	}
	return float64(filled) / float64(len(requiredFields))
}

var claritySuperla = []string{"unique", "only", "first", "best"}

// positioningClarity scores how sharply a brand states its position
func positioningClarity(p *domain.BrandProfile) float64 {
	score := 0.0
	low := strings.ToLower(p.Positioning)

	if len(p.Positioning) > 50 {
		score += 0.3
	}
	for _, word := range claritySuperla {
		if strings.Contains(low, word) {
			score += 0.2
			break
		}
	}
	if p.ValueProposition != "" {
		score += 0.3
	}
	if len(p.DifferentiationFactors) > 0 {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

// messageConsistency is the fraction of primary messages sharing at least
// one substantial word with the positioning statement
func messageConsistency(p *domain.BrandProfile) float64 {
	if len(p.PrimaryMessages) == 0 || p.Positioning == "" {
		return 0
	}

	positioningWords := make(map[string]bool)
	for _, w := range tokenize(p.Positioning, 5) {
		positioningWords[w] = true
	}
	if len(positioningWords) == 0 {
		return 0
	}

	consistent := 0
	for _, msg := range p.PrimaryMessages {
		for _, w := range tokenize(msg, 5) {
			if positioningWords[w] {
				consistent++
				break
			}
		}
	}
	return float64(consistent) / float64(len(p.PrimaryMessages))
}

var (
	benefitWords  = []string{"faster", "cheaper", "better", "easier", "save", "grow", "improve", "boost"}
	audienceWords = []string{"team", "business", "enterprise", "developer", "marketer", "analyst"}
)

// valuePropStrength scores how concrete a value proposition is
func valuePropStrength(p *domain.BrandProfile) float64 {
	vp := p.ValueProposition
	if vp == "" {
		return 0
	}
	low := strings.ToLower(vp)
	score := 0.0

	if len(vp) > 30 {
		score += 0.2
	}
	for _, w := range benefitWords {
		if strings.Contains(low, w) {
			score += 0.3
			break
		}
	}
	if strings.ContainsAny(vp, "0123456789") {
		score += 0.2
	}
	for _, w := range audienceWords {
		if strings.Contains(low, w) {
			score += 0.3
			break
		}
	}
	return math.Min(score, 1.0)
}

// differentiation measures how distinct a brand's language is from the
// rest of the set: 1 minus the mean pairwise term overlap. With fewer
// than two profiles there is nothing to compare against and the score
// is the neutral 0.5.
func differentiation(p *domain.BrandProfile, all []*domain.BrandProfile) float64 {
	if len(all) < 2 {
		return 0.5
	}

	own := termSet(p)
	if len(own) == 0 {
		return 0.5
	}

	var totalOverlap float64
	others := 0
	for _, other := range all {
		if other == p {
			continue
		}
		otherTerms := termSet(other)
		shared := 0
		for t := range own {
			if otherTerms[t] {
				shared++
			}
		}
		totalOverlap += float64(shared) / float64(len(own))
		others++
	}
	if others == 0 {
		return 0.5
	}
	return 1.0 - totalOverlap/float64(others)
}

// termSet collects the substantial terms from positioning and value prop
func termSet(p *domain.BrandProfile) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range tokenize(p.Positioning+" "+p.ValueProposition, 6) {
		terms[w] = true
	}
	return terms
}

// tokenize lowercases text and keeps alphabetic words of at least minLen
func tokenize(text string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= minLen && isAlphabetic(f) {
			out = append(out, f)
		}
	}
	return out
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}

// qualityMetrics aggregates quality across the profile set
func qualityMetrics(profiles []*domain.BrandProfile, metrics map[string]BrandMetrics) QualityMetrics {
	n := float64(len(profiles))

	var sumC, sumConf float64
	for _, p := range profiles {
		sumC += metrics[brandLabel(p)].Completeness
		sumConf += p.Confidence
	}
	avgC := sumC / n
	avgConf := sumConf / n

	var variance float64
	high, low := 0, 0
	for _, p := range profiles {
		c := metrics[brandLabel(p)].Completeness
		variance += (c - avgC) * (c - avgC)
		if c > 0.8 {
			high++
		}
		if c < 0.5 {
			low++
		}
	}

	coverage := map[string]float64{
		"company_name":      coverageOf(profiles, func(p *domain.BrandProfile) bool { return p.CompanyName != "" }),
		"positioning":       coverageOf(profiles, func(p *domain.BrandProfile) bool { return p.Positioning != "" }),
		"value_proposition": coverageOf(profiles, func(p *domain.BrandProfile) bool { return p.ValueProposition != "" }),
		"messages":          coverageOf(profiles, func(p *domain.BrandProfile) bool { return len(p.PrimaryMessages) > 0 }),
		"colors":            coverageOf(profiles, func(p *domain.BrandProfile) bool { return len(p.Colors) > 0 }),
		"logo":              coverageOf(profiles, func(p *domain.BrandProfile) bool { return p.Logo != nil }),
	}

	return QualityMetrics{
		AvgCompleteness:    avgC,
		StdDevCompleteness: math.Sqrt(variance / n),
		AvgConfidence:      avgConf,
		HighQuality:        high,
		LowQuality:         low,
		DataCoverage:       coverage,
	}
}

func coverageOf(profiles []*domain.BrandProfile, present func(*domain.BrandProfile) bool) float64 {
	count := 0
	for _, p := range profiles {
		if present(p) {
			count++
		}
	}
	return float64(count) / float64(len(profiles))
}

// extractionDetails summarizes method usage, failures and durations
func extractionDetails(profiles []*domain.BrandProfile, failures []domain.ExtractionFailure) ExtractionDetails {
	details := ExtractionDetails{}

	if len(profiles) > 0 {
		details.MethodCounts = make(map[domain.ExtractionMethod]int)
		var total time.Duration
		min, max := profiles[0].Duration, profiles[0].Duration
		for _, p := range profiles {
			for _, m := range p.Methods {
				details.MethodCounts[m]++
			}
			total += p.Duration
			if p.Duration < min {
				min = p.Duration
			}
			if p.Duration > max {
				max = p.Duration
			}
		}
		details.TotalDuration = total
		details.AvgDuration = total / time.Duration(len(profiles))
		details.MinDuration = min
		details.MaxDuration = max
	}

	if len(failures) > 0 {
		details.FailureReasons = make(map[string]int)
		for _, f := range failures {
			details.FailureReasons[f.Code]++
		}
		best, bestCount := "", 0
		for code, count := range details.FailureReasons {
			if count > bestCount || (count == bestCount && code < best) {
				best, bestCount = code, count
			}
		}
		details.MostCommonFailure = best
	}

	return details
}
