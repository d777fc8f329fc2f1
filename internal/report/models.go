// Package report aggregates deduplicated brand profiles into a landscape
// report: cross-brand scoring, theme detection, positioning clusters and
// market-level insights.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/domain"
)

// Report status values
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// LandscapeReport is the aggregated output over one analysis run
type LandscapeReport struct {
	ID                uuid.UUID                  `json:"id"`
	Title             string                     `json:"title"`
	Status            string                     `json:"status"`
	Message           string                     `json:"message,omitempty"`
	GeneratedAt       time.Time                  `json:"generated_at"`
	AttemptedCount    int                        `json:"attempted_count"`
	ProfileCount      int                        `json:"profile_count"`
	DuplicatesDropped int                        `json:"duplicates_dropped"`
	Profiles          []*domain.BrandProfile     `json:"profiles,omitempty"`
	Failures          []domain.ExtractionFailure `json:"failures,omitempty"`

	Summary    Summary                 `json:"summary"`
	Metrics    map[string]BrandMetrics `json:"comparative_metrics,omitempty"`
	Quality    QualityMetrics          `json:"quality_metrics"`
	Landscape  CompetitiveLandscape    `json:"competitive_landscape"`
	Insights   MarketInsights          `json:"market_insights"`
	Extraction ExtractionDetails       `json:"extraction_details"`
}

// Summary is the executive overview
type Summary struct {
	TotalBrands         int      `json:"total_brands"`
	AverageCompleteness float64  `json:"average_completeness"`
	AverageConfidence   float64  `json:"average_confidence"`
	MarketMaturity      string   `json:"market_maturity"`
	TopThemes           []string `json:"top_themes,omitempty"`
}

// BrandMetrics holds the per-brand comparative scores, all in [0, 1]
type BrandMetrics struct {
	Completeness       float64 `json:"completeness"`
	PositioningClarity float64 `json:"positioning_clarity"`
	MessageConsistency float64 `json:"message_consistency"`
	ValuePropStrength  float64 `json:"value_prop_strength"`
	Differentiation    float64 `json:"brand_differentiation"`
}

// QualityMetrics summarizes extraction quality across the profile set
type QualityMetrics struct {
	AvgCompleteness    float64            `json:"avg_completeness"`
	StdDevCompleteness float64            `json:"stddev_completeness"`
	AvgConfidence      float64            `json:"avg_confidence"`
	HighQuality        int                `json:"high_quality_count"`
	LowQuality         int                `json:"low_quality_count"`
	DataCoverage       map[string]float64 `json:"data_coverage"`
}

// Theme is one recurring term across the landscape
type Theme struct {
	Word             string   `json:"word"`
	Count            int      `json:"count"`
	BrandsMentioning []string `json:"brands_mentioning"`
}

// Coordinates places a brand on the positioning map. X runs from
// tradition (-1) to innovation (+1), Y from accessible (-1) to premium (+1).
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CompetitiveLandscape holds the cross-brand structural analysis
type CompetitiveLandscape struct {
	CommonThemes           []Theme                `json:"common_themes,omitempty"`
	Clusters               map[string][]string    `json:"positioning_clusters,omitempty"`
	MarketMaturity         string                 `json:"market_maturity"`
	MaturityScore          float64                `json:"maturity_score"`
	Gaps                   []string               `json:"market_gaps,omitempty"`
	DifferentiationFactors map[string][]string    `json:"differentiation_factors,omitempty"`
	PositioningMap         map[string]Coordinates `json:"positioning_map,omitempty"`
}

// MessagingPatterns summarizes how brands in the set communicate
type MessagingPatterns struct {
	AvgMessageLength float64 `json:"avg_message_length"`
	BenefitFocused   int     `json:"benefit_focused"`
	FeatureFocused   int     `json:"feature_focused"`
	EmotionFocused   int     `json:"emotion_focused"`
}

// AudienceOverlap lists brands competing for the same audience
type AudienceOverlap struct {
	Audience string   `json:"audience"`
	Brands   []string `json:"brands"`
}

// MarketInsights holds derived market-level observations
type MarketInsights struct {
	DominantValueProps map[string]int    `json:"dominant_value_props,omitempty"`
	Messaging          MessagingPatterns `json:"messaging_patterns"`
	AudienceOverlaps   []AudienceOverlap `json:"audience_overlaps,omitempty"`
	TechMentions       map[string]int    `json:"tech_mentions,omitempty"`
}

// ExtractionDetails reports how the extraction itself went
type ExtractionDetails struct {
	MethodCounts      map[domain.ExtractionMethod]int `json:"method_counts,omitempty"`
	FailureReasons    map[string]int                  `json:"failure_reasons,omitempty"`
	MostCommonFailure string                          `json:"most_common_failure,omitempty"`
	AvgDuration       time.Duration                   `json:"avg_duration"`
	TotalDuration     time.Duration                   `json:"total_duration"`
	MinDuration       time.Duration                   `json:"min_duration"`
	MaxDuration       time.Duration                   `json:"max_duration"`
}
