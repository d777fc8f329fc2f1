package report

import (
	"sort"
	"strings"

	"github.com/brandlens/brandlens/internal/domain"
)

var valuePropCategories = []struct {
	name  string
	words []string
}{
	{"efficiency", []string{"faster", "efficient", "streamline", "automate", "productivity"}},
	{"cost_savings", []string{"save", "affordable", "cost", "budget", "roi"}},
	{"quality", []string{"quality", "best", "premium", "excellence", "superior"}},
	{"innovation", []string{"innovative", "cutting-edge", "advanced", "modern", "next-generation"}},
	{"simplicity", []string{"simple", "easy", "intuitive", "effortless", "seamless"}},
}

var (
	benefitFocusWords = []string{"you", "your", "save", "grow", "improve", "achieve"}
	featureFocusWords = []string{"platform", "tool", "solution", "technology", "system"}
	emotionFocusWords = []string{"love", "trust", "confidence", "peace", "delight"}
)

var techMentionGroups = []struct {
	name  string
	words []string
}{
	{"ai", []string{"ai", "artificial intelligence", "machine learning", "ml"}},
	{"cloud", []string{"cloud", "saas", "hosted"}},
	{"mobile", []string{"mobile", "app", "ios", "android"}},
	{"automation", []string{"automation", "automated", "workflow"}},
	{"integration", []string{"integration", "api", "connect"}},
	{"analytics", []string{"analytics", "data", "insights", "reporting"}},
}

// buildInsights derives market-level observations from the profile set
func buildInsights(profiles []*domain.BrandProfile) MarketInsights {
	return MarketInsights{
		DominantValueProps: dominantValueProps(profiles),
		Messaging:          messagingPatterns(profiles),
		AudienceOverlaps:   audienceOverlaps(profiles),
		TechMentions:       techMentions(profiles),
	}
}

// dominantValueProps counts how many brands lead with each value
// proposition category
func dominantValueProps(profiles []*domain.BrandProfile) map[string]int {
	counts := make(map[string]int)
	for _, p := range profiles {
		text := strings.ToLower(p.ValueProposition + " " + p.Positioning)
		for _, cat := range valuePropCategories {
			for _, w := range cat.words {
				if strings.Contains(text, w) {
					counts[cat.name]++
					break
				}
			}
		}
	}
	return counts
}

func messagingPatterns(profiles []*domain.BrandProfile) MessagingPatterns {
	var patterns MessagingPatterns
	var totalLen, msgCount int

	for _, p := range profiles {
		for _, m := range p.PrimaryMessages {
			totalLen += len(m)
			msgCount++
		}

		text := messagingText(p)
		if containsAny(text, benefitFocusWords) {
			patterns.BenefitFocused++
		}
		if containsAny(text, featureFocusWords) {
			patterns.FeatureFocused++
		}
		if containsAny(text, emotionFocusWords) {
			patterns.EmotionFocused++
		}
	}

	if msgCount > 0 {
		patterns.AvgMessageLength = float64(totalLen) / float64(msgCount)
	}
	return patterns
}

// audienceOverlaps reports audience descriptors claimed by two or more
// brands
func audienceOverlaps(profiles []*domain.BrandProfile) []AudienceOverlap {
	byTerm := make(map[string][]string)
	for _, p := range profiles {
		seen := make(map[string]bool)
		for _, w := range tokenize(p.TargetAudience, 5) {
			if !seen[w] {
				seen[w] = true
				byTerm[w] = append(byTerm[w], brandLabel(p))
			}
		}
	}

	var overlaps []AudienceOverlap
	for term, brands := range byTerm {
		if len(brands) >= 2 {
			overlaps = append(overlaps, AudienceOverlap{Audience: term, Brands: brands})
		}
	}
	sort.Slice(overlaps, func(i, j int) bool {
		if len(overlaps[i].Brands) != len(overlaps[j].Brands) {
			return len(overlaps[i].Brands) > len(overlaps[j].Brands)
		}
		return overlaps[i].Audience < overlaps[j].Audience
	})
	return overlaps
}

func techMentions(profiles []*domain.BrandProfile) map[string]int {
	counts := make(map[string]int)
	for _, p := range profiles {
		text := messagingText(p) + " " + strings.ToLower(p.VisualStyle)
		for _, group := range techMentionGroups {
			for _, w := range group.words {
				if containsWord(text, w) {
					counts[group.name]++
					break
				}
			}
		}
	}
	return counts
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if containsWord(text, w) {
			return true
		}
	}
	return false
}

// containsWord matches on word boundaries so short tokens like "ai" do
// not match inside longer words
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordRune(rune(text[start-1]))
		afterOK := end == len(text) || !isWordRune(rune(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
