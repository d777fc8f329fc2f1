package report

import (
	"math"
	"testing"

	"github.com/brandlens/brandlens/internal/domain"
)

func TestCommonThemes(t *testing.T) {
	profiles := []*domain.BrandProfile{
		makeProfile("Acme", "Automated testing platform", "", []string{"Automated checks for everyone"}),
		makeProfile("Zenith", "Automated deployment pipelines", "", nil),
		makeProfile("Orbit", "Handmade furniture", "", nil),
	}

	themes := commonThemes(profiles)

	var automated *Theme
	for i := range themes {
		if themes[i].Word == "automated" {
			automated = &themes[i]
		}
	}
	if automated == nil {
		t.Fatal("expected 'automated' theme, shared by 2 of 3 brands")
	}
	if automated.Count != 2 {
		t.Errorf("Count = %d, want 2", automated.Count)
	}
	if len(automated.BrandsMentioning) != 2 {
		t.Errorf("BrandsMentioning = %v, want Acme and Zenith", automated.BrandsMentioning)
	}

	for _, theme := range themes {
		if theme.Word == "furniture" {
			t.Error("'furniture' appears in one brand only, below the half threshold")
		}
	}
}

func TestCommonThemes_CountsBrandsNotOccurrences(t *testing.T) {
	profiles := []*domain.BrandProfile{
		makeProfile("Acme", "Automated automated automated", "", nil),
		makeProfile("Zenith", "Manual workflows", "", nil),
	}

	for _, theme := range commonThemes(profiles) {
		if theme.Word == "automated" && theme.Count != 1 {
			t.Errorf("repeated word in one brand counted %d times, want 1", theme.Count)
		}
	}
}

func TestCommonThemes_BrandListMatchesCount(t *testing.T) {
	// A brand using the word only in its value proposition contributes
	// neither to the count nor to the brand list.
	profiles := []*domain.BrandProfile{
		makeProfile("Acme", "Automated testing platform", "", nil),
		makeProfile("Zenith", "Automated deployment pipelines", "", nil),
		makeProfile("Orbit", "Handmade furniture", "Automated delivery included", nil),
	}

	for _, theme := range commonThemes(profiles) {
		if len(theme.BrandsMentioning) != theme.Count {
			t.Errorf("theme %q: Count = %d but %d brands listed",
				theme.Word, theme.Count, len(theme.BrandsMentioning))
		}
		if theme.Word == "automated" {
			for _, b := range theme.BrandsMentioning {
				if b == "Orbit" {
					t.Error("Orbit mentions 'automated' only in its value proposition and must not be listed")
				}
			}
		}
	}
}

func TestPositioningClusters(t *testing.T) {
	profiles := []*domain.BrandProfile{
		makeProfile("Speedy", "Raw performance and speed for demanding workloads", "", nil),
		makeProfile("Carely", "Customer experience and support come first here", "", nil),
		makeProfile("Plain", "Handmade furniture from reclaimed wood", "", nil),
	}

	clusters := positioningClusters(profiles)

	if got := clusters["performance_focused"]; len(got) != 1 || got[0] != "Speedy" {
		t.Errorf("performance_focused = %v, want [Speedy]", got)
	}
	if got := clusters["customer_centric"]; len(got) != 1 || got[0] != "Carely" {
		t.Errorf("customer_centric = %v, want [Carely]", got)
	}
	for name, members := range clusters {
		for _, m := range members {
			if m == "Plain" {
				t.Errorf("brand with no keyword hits assigned to %q", name)
			}
		}
	}
}

func TestPositioningClusters_TieGoesToFirstScanned(t *testing.T) {
	// one keyword from performance_focused, one from value_providers
	p := makeProfile("Tied", "Fast speed at a fair value", "", nil)

	clusters := positioningClusters([]*domain.BrandProfile{p})

	if got := clusters["performance_focused"]; len(got) != 1 {
		t.Errorf("tied brand should land in the first matching cluster, got %v", clusters)
	}
	if _, ok := clusters["value_providers"]; ok {
		t.Error("tied brand assigned to two clusters")
	}
}

func TestMarketMaturity(t *testing.T) {
	established := makeProfile("Old", "Trusted and established with years of proven experience", "Affordable pricing for every budget", nil)
	innovator := makeProfile("New", "Revolutionary breakthrough in cutting-edge analysis", "Great value at transparent pricing", nil)

	profiles := []*domain.BrandProfile{established, innovator}
	metrics := map[string]BrandMetrics{
		"Old": {Differentiation: 1.0},
		"New": {Differentiation: 1.0},
	}

	score, label := marketMaturity(profiles, metrics)

	// differentiation 1.0, established 0.5, innovation 0.5, price 1.0
	want := (1.0 + 0.5 + 0.5 + 1.0) / 4.0
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", score, want)
	}
	if label != "mature" {
		t.Errorf("label = %q, want mature", label)
	}
}

func TestMarketMaturity_Emerging(t *testing.T) {
	bland := makeProfile("Bland", "We make software", "Software for everyone", nil)
	score, label := marketMaturity([]*domain.BrandProfile{bland}, map[string]BrandMetrics{"Bland": {Differentiation: 0.5}})

	if label != "emerging" {
		t.Errorf("label = %q (score %v), want emerging", label, score)
	}
}

func TestMarketGaps(t *testing.T) {
	profiles := []*domain.BrandProfile{
		{CompanyName: "Acme", Positioning: "Automation for enterprise developer teams", TargetAudience: "enterprise developer teams"},
	}

	gaps := marketGaps(profiles)

	if len(gaps) != 5 {
		t.Fatalf("gaps = %v, want the five-entry cap", gaps)
	}
	for _, gap := range gaps {
		switch gap {
		case "audience: enterprise", "audience: developer", "value: automation":
			t.Errorf("covered term %q reported as a gap", gap)
		}
	}
}

func TestUniqueTerms(t *testing.T) {
	a := makeProfile("Acme", "Satellite imaging analysis for shipping lanes", "", nil)
	b := makeProfile("Zenith", "Satellite weather forecasting for airlines", "", nil)

	unique := uniqueTerms([]*domain.BrandProfile{a, b})

	for _, term := range unique["Acme"] {
		if term == "satellite" {
			t.Error("shared term 'satellite' listed as unique")
		}
	}
	found := false
	for _, term := range unique["Acme"] {
		if term == "imaging" {
			found = true
		}
	}
	if !found {
		t.Errorf("unique[Acme] = %v, want it to include 'imaging'", unique["Acme"])
	}
}

func TestPositioningMap(t *testing.T) {
	innovator := makeProfile("New", "Innovative cutting-edge revolutionary modern advanced premium tools", "", nil)
	traditional := makeProfile("Old", "Trusted established proven classic reliable and affordable", "", nil)

	coords := positioningMap([]*domain.BrandProfile{innovator, traditional})

	ni := coords["New"]
	if ni.X != 1.0 {
		t.Errorf("five innovation keywords should clamp X to 1.0, got %v", ni.X)
	}
	if math.Abs(ni.Y-0.2) > 1e-9 {
		t.Errorf("one premium keyword, Y = %v, want 0.2", ni.Y)
	}

	old := coords["Old"]
	if old.X != -1.0 {
		t.Errorf("five tradition keywords should clamp X to -1.0, got %v", old.X)
	}
	if math.Abs(old.Y-(-0.2)) > 1e-9 {
		t.Errorf("one accessible keyword, Y = %v, want -0.2", old.Y)
	}
}
