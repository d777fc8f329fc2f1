package report

import (
	"sort"
	"strings"

	"github.com/brandlens/brandlens/internal/domain"
)

// clusterOrder fixes the scan order so ties resolve deterministically to
// the first matching cluster
var clusterOrder = []string{
	"performance_focused",
	"customer_centric",
	"innovation_leaders",
	"value_providers",
	"niche_specialists",
}

var clusterKeywords = map[string][]string{
	"performance_focused": {"performance", "speed", "efficient", "powerful", "results"},
	"customer_centric":    {"customer", "user", "experience", "support", "service"},
	"innovation_leaders":  {"innovative", "pioneer", "leading", "advanced", "breakthrough"},
	"value_providers":     {"value", "affordable", "cost-effective", "roi", "savings"},
	"niche_specialists":   {"specialized", "specific", "tailored", "custom", "unique"},
}

var (
	establishedWords = []string{"established", "trusted", "leading", "proven", "experience", "years"}
	innovationWords  = []string{"innovative", "disrupting", "revolutionary", "breakthrough", "cutting-edge"}
	priceWords       = []string{"affordable", "cost-effective", "pricing", "value", "budget", "save money"}

	audienceSegments = []string{"enterprise", "small business", "consumer", "developer", "non-technical"}
	valueThemes      = []string{"automation", "integration", "mobile", "real-time", "ai-powered"}

	mapInnovation = []string{"innovative", "cutting-edge", "revolutionary", "modern", "advanced"}
	mapTradition  = []string{"trusted", "established", "proven", "classic", "reliable"}
	mapPremium    = []string{"premium", "enterprise", "professional", "luxury"}
	mapAccessible = []string{"affordable", "easy", "simple", "free"}
)

// buildLandscape runs the cross-brand structural analysis
func buildLandscape(profiles []*domain.BrandProfile, metrics map[string]BrandMetrics) CompetitiveLandscape {
	maturityScore, maturity := marketMaturity(profiles, metrics)

	return CompetitiveLandscape{
		CommonThemes:           commonThemes(profiles),
		Clusters:               positioningClusters(profiles),
		MarketMaturity:         maturity,
		MaturityScore:          maturityScore,
		Gaps:                   marketGaps(profiles),
		DifferentiationFactors: uniqueTerms(profiles),
		PositioningMap:         positioningMap(profiles),
	}
}

// messagingText is the combined lowercased messaging surface of a brand
func messagingText(p *domain.BrandProfile) string {
	parts := append([]string{p.Positioning, p.ValueProposition}, p.PrimaryMessages...)
	return strings.ToLower(strings.Join(parts, " "))
}

// commonThemes finds terms recurring across at least half of the brands,
// top 10 by frequency
func commonThemes(profiles []*domain.BrandProfile) []Theme {
	counts := make(map[string]int)
	mentions := make(map[string][]string)
	for _, p := range profiles {
		seen := make(map[string]bool)
		for _, w := range tokenize(strings.Join(append(p.PrimaryMessages, p.Positioning), " "), 6) {
			if !seen[w] {
				seen[w] = true
				counts[w]++
				mentions[w] = append(mentions[w], brandLabel(p))
			}
		}
	}

	threshold := float64(len(profiles)) * 0.5
	words := make([]string, 0, len(counts))
	for w, c := range counts {
		if float64(c) >= threshold {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > 10 {
		words = words[:10]
	}

	themes := make([]Theme, 0, len(words))
	for _, w := range words {
		themes = append(themes, Theme{Word: w, Count: counts[w], BrandsMentioning: mentions[w]})
	}
	return themes
}

// positioningClusters buckets brands by messaging keywords. Brands with
// no keyword hits in any bucket stay unclustered.
func positioningClusters(profiles []*domain.BrandProfile) map[string][]string {
	clusters := make(map[string][]string)

	for _, p := range profiles {
		text := messagingText(p)
		best, bestScore := "", 0
		for _, name := range clusterOrder {
			score := 0
			for _, kw := range clusterKeywords[name] {
				if strings.Contains(text, kw) {
					score++
				}
			}
			if score > bestScore {
				best, bestScore = name, score
			}
		}
		if bestScore > 0 {
			clusters[best] = append(clusters[best], brandLabel(p))
		}
	}

	return clusters
}

// marketMaturity scores the market on four indicators and labels it
func marketMaturity(profiles []*domain.BrandProfile, metrics map[string]BrandMetrics) (float64, string) {
	n := float64(len(profiles))

	var diffSum float64
	for _, p := range profiles {
		diffSum += metrics[brandLabel(p)].Differentiation
	}

	fraction := func(words []string) float64 {
		count := 0
		for _, p := range profiles {
			text := messagingText(p)
			for _, w := range words {
				if strings.Contains(text, w) {
					count++
					break
				}
			}
		}
		return float64(count) / n
	}

	score := (diffSum/n + fraction(establishedWords) + fraction(innovationWords) + fraction(priceWords)) / 4.0

	switch {
	case score > 0.7:
		return score, "mature"
	case score > 0.4:
		return score, "growing"
	default:
		return score, "emerging"
	}
}

// marketGaps lists audience segments and value themes no brand addresses,
// capped at five
func marketGaps(profiles []*domain.BrandProfile) []string {
	texts := make([]string, 0, len(profiles))
	for _, p := range profiles {
		texts = append(texts, messagingText(p)+" "+strings.ToLower(p.TargetAudience))
	}

	covered := func(term string) bool {
		for _, t := range texts {
			if strings.Contains(t, term) {
				return true
			}
		}
		return false
	}

	var gaps []string
	for _, seg := range audienceSegments {
		if !covered(seg) {
			gaps = append(gaps, "audience: "+seg)
		}
	}
	for _, theme := range valueThemes {
		if !covered(theme) {
			gaps = append(gaps, "value: "+theme)
		}
	}
	if len(gaps) > 5 {
		gaps = gaps[:5]
	}
	return gaps
}

// uniqueTerms collects, per brand, the substantial terms no other brand
// uses, capped at five each
func uniqueTerms(profiles []*domain.BrandProfile) map[string][]string {
	sets := make([]map[string]bool, len(profiles))
	for i, p := range profiles {
		sets[i] = termSet(p)
	}

	out := make(map[string][]string)
	for i, p := range profiles {
		var unique []string
		for term := range sets[i] {
			shared := false
			for j := range sets {
				if j != i && sets[j][term] {
					shared = true
					break
				}
			}
			if !shared {
				unique = append(unique, term)
			}
		}
		sort.Strings(unique)
		if len(unique) > 5 {
			unique = unique[:5]
		}
		if len(unique) > 0 {
			out[brandLabel(p)] = unique
		}
	}
	return out
}

// positioningMap places each brand on innovation/tradition and
// premium/accessible axes, 0.2 per keyword hit, clamped to [-1, 1]
func positioningMap(profiles []*domain.BrandProfile) map[string]Coordinates {
	out := make(map[string]Coordinates, len(profiles))

	axis := func(text string, positive, negative []string) float64 {
		v := 0.0
		for _, w := range positive {
			if strings.Contains(text, w) {
				v += 0.2
			}
		}
		for _, w := range negative {
			if strings.Contains(text, w) {
				v -= 0.2
			}
		}
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		return v
	}

	for _, p := range profiles {
		text := messagingText(p)
		out[brandLabel(p)] = Coordinates{
			X: axis(text, mapInnovation, mapTradition),
			Y: axis(text, mapPremium, mapAccessible),
		}
	}
	return out
}
