package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BrandProfile is the per-site result of signal extraction: everything the
// pipeline could learn about one brand from one URL.
type BrandProfile struct {
	ID     uuid.UUID `json:"id"`
	URL    string    `json:"url"`
	Domain string    `json:"domain"`

	CompanyName            string   `json:"company_name"`
	Positioning            string   `json:"positioning"`
	ValueProposition       string   `json:"value_proposition"`
	PrimaryMessages        []string `json:"primary_messages"`
	PersonalityDescriptors []string `json:"personality_descriptors"`
	TargetAudience         string   `json:"target_audience"`
	BrandVoice             string   `json:"brand_voice"`
	VisualStyle            string   `json:"visual_style"`
	DifferentiationFactors []string `json:"differentiation_factors"`

	Colors []string `json:"colors"`
	Logo   *Logo    `json:"logo,omitempty"`

	// Confidence is the weighted completeness score in [0, 1].
	Confidence       float64            `json:"confidence"`
	EnrichmentStatus EnrichmentStatus   `json:"enrichment_status"`
	Methods          []ExtractionMethod `json:"extraction_methods_used"`

	ExtractedAt time.Time     `json:"extracted_at"`
	Duration    time.Duration `json:"duration"`
}

// Logo is a downloaded, validated logo image
type Logo struct {
	SourceURL   string `json:"source_url"`
	StorageURI  string `json:"storage_uri,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NormalizedName returns the company name lowered with whitespace collapsed,
// the identity key used for deduplication.
func (p *BrandProfile) NormalizedName() string {
	return strings.Join(strings.Fields(strings.ToLower(p.CompanyName)), " ")
}

// UsedMethod reports whether an extraction method contributed to this profile
func (p *BrandProfile) UsedMethod(m ExtractionMethod) bool {
	for _, used := range p.Methods {
		if used == m {
			return true
		}
	}
	return false
}

// HasSignal reports whether the profile carries any usable brand signal.
// Colors count only when a sampling method produced them, so a profile
// holding just the neutral fallback palette does not qualify. Profiles
// without a signal are discarded rather than padded with defaults.
func (p *BrandProfile) HasSignal() bool {
	sampledColors := len(p.Colors) > 0 &&
		(p.UsedMethod(MethodHeuristicCSS) || p.UsedMethod(MethodScreenshotSampling))
	return p.CompanyName != "" || p.Positioning != "" || sampledColors || p.Logo != nil
}

// ExtractionFailure records one target URL the pipeline could not profile
type ExtractionFailure struct {
	URL              string             `json:"url"`
	Reason           string             `json:"reason"`
	Code             string             `json:"code"`
	AttemptedMethods []ExtractionMethod `json:"attempted_methods"`
	Timestamp        time.Time          `json:"timestamp"`
}
