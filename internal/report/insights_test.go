package report

import (
	"math"
	"testing"

	"github.com/brandlens/brandlens/internal/domain"
)

func TestDominantValueProps(t *testing.T) {
	profiles := []*domain.BrandProfile{
		makeProfile("Acme", "Streamline your release process", "Automate everything and boost productivity", nil),
		makeProfile("Zenith", "The simple way to plan", "Easy and intuitive planning", nil),
		makeProfile("Orbit", "Effortless scheduling", "Simple tools for busy people", nil),
	}

	counts := dominantValueProps(profiles)

	if counts["simplicity"] != 2 {
		t.Errorf("simplicity = %d, want 2", counts["simplicity"])
	}
	if counts["efficiency"] != 1 {
		t.Errorf("efficiency = %d, want 1", counts["efficiency"])
	}
	if counts["quality"] != 0 {
		t.Errorf("quality = %d, want 0", counts["quality"])
	}
}

func TestMessagingPatterns(t *testing.T) {
	profiles := []*domain.BrandProfile{
		makeProfile("Acme", "Grow your business", "", []string{"1234567890", "12345678901234567890"}),
		makeProfile("Zenith", "The platform for modern work", "", nil),
	}

	patterns := messagingPatterns(profiles)

	if math.Abs(patterns.AvgMessageLength-15.0) > 1e-9 {
		t.Errorf("AvgMessageLength = %v, want 15", patterns.AvgMessageLength)
	}
	if patterns.BenefitFocused != 1 {
		t.Errorf("BenefitFocused = %d, want 1", patterns.BenefitFocused)
	}
	if patterns.FeatureFocused != 1 {
		t.Errorf("FeatureFocused = %d, want 1", patterns.FeatureFocused)
	}
	if patterns.EmotionFocused != 0 {
		t.Errorf("EmotionFocused = %d, want 0", patterns.EmotionFocused)
	}
}

func TestAudienceOverlaps(t *testing.T) {
	a := makeProfile("Acme", "", "", nil)
	a.TargetAudience = "marketing teams at growing companies"
	b := makeProfile("Zenith", "", "", nil)
	b.TargetAudience = "marketing leaders"
	c := makeProfile("Orbit", "", "", nil)
	c.TargetAudience = "independent woodworkers"

	overlaps := audienceOverlaps([]*domain.BrandProfile{a, b, c})

	var marketing *AudienceOverlap
	for i := range overlaps {
		if overlaps[i].Audience == "marketing" {
			marketing = &overlaps[i]
		}
		if overlaps[i].Audience == "woodworkers" {
			t.Error("single-brand audience term reported as overlap")
		}
	}
	if marketing == nil {
		t.Fatalf("overlaps = %v, want a 'marketing' entry", overlaps)
	}
	if len(marketing.Brands) != 2 {
		t.Errorf("Brands = %v, want Acme and Zenith", marketing.Brands)
	}
}

func TestTechMentions(t *testing.T) {
	profiles := []*domain.BrandProfile{
		makeProfile("Acme", "AI insights for cloud workflow automation", "", nil),
		makeProfile("Zenith", "We maintain legacy mainframes", "", nil),
	}

	counts := techMentions(profiles)

	if counts["ai"] != 1 {
		t.Errorf("ai = %d, want 1 (must not match inside 'maintain')", counts["ai"])
	}
	if counts["cloud"] != 1 {
		t.Errorf("cloud = %d, want 1", counts["cloud"])
	}
	if counts["automation"] != 1 {
		t.Errorf("automation = %d, want 1", counts["automation"])
	}
	if counts["mobile"] != 0 {
		t.Errorf("mobile = %d, want 0", counts["mobile"])
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, word string
		want       bool
	}{
		{"ai insights", "ai", true},
		{"we maintain things", "ai", false},
		{"built for mobile", "mobile", true},
		{"automobile parts", "mobile", false},
		{"api", "api", true},
		{"", "ai", false},
	}

	for _, tt := range tests {
		if got := containsWord(tt.text, tt.word); got != tt.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tt.text, tt.word, got, tt.want)
		}
	}
}
