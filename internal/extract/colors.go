package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NeutralPalette is the fallback palette used when a page yields no usable
// brand colors. It is always returned in this order.
var NeutralPalette = []string{"#666666", "#999999", "#cccccc", "#e9ecef", "#f8f9fa", "#ffffff"}

const maxPaletteSize = 6

// IsNeutralPalette reports whether a palette is the neutral fallback
func IsNeutralPalette(colors []string) bool {
	if len(colors) != len(NeutralPalette) {
		return false
	}
	for i, c := range colors {
		if c != NeutralPalette[i] {
			return false
		}
	}
	return true
}

// Stylesheet rules describe the site's design system, inline styles are
// often one-off overrides, so stylesheet colors count double.
const (
	weightStylesheet = 2
	weightInline     = 1
)

var (
	hexPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbPattern = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
)

type rgb struct {
	r, g, b int
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// nearWhite and nearBlack bound the channel values outside of which a
// color carries no brand information
func (c rgb) nearWhite() bool { return c.r > 240 && c.g > 240 && c.b > 240 }
func (c rgb) nearBlack() bool { return c.r < 15 && c.g < 15 && c.b < 15 }

// SampleColors extracts a brand color palette from the document's inline
// styles and embedded stylesheets. The result always holds between 1 and
// 6 normalized hex colors; pages with no usable colors get NeutralPalette.
func SampleColors(doc *html.Node) []string {
	weights := make(map[rgb]int)
	order := make(map[rgb]int)
	next := 0

	record := func(text string, weight int) {
		for _, c := range parseColors(text) {
			if c.nearWhite() || c.nearBlack() {
				continue
			}
			if _, seen := weights[c]; !seen {
				order[c] = next
				next++
			}
			weights[c] += weight
		}
	}

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if style := attr(n, "style"); style != "" {
			record(style, weightInline)
		}
		if n.Data == "style" {
			var css strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					css.WriteString(c.Data)
				}
			}
			record(css.String(), weightStylesheet)
			return false
		}
		return true
	})

	if len(weights) == 0 {
		return append([]string(nil), NeutralPalette...)
	}

	colors := make([]rgb, 0, len(weights))
	for c := range weights {
		colors = append(colors, c)
	}
	// Document order keeps the result stable across runs
	sort.Slice(colors, func(i, j int) bool { return order[colors[i]] < order[colors[j]] })

	if len(colors) <= maxPaletteSize {
		ranked := append([]rgb(nil), colors...)
		sort.SliceStable(ranked, func(i, j int) bool { return weights[ranked[i]] > weights[ranked[j]] })
		return toHex(ranked)
	}

	return toHex(clusterColors(colors, weights, maxPaletteSize))
}

// parseColors finds all hex and rgb() color literals in a CSS fragment
func parseColors(text string) []rgb {
	var out []rgb
	for _, m := range hexPattern.FindAllString(text, -1) {
		if c, ok := parseHex(m); ok {
			out = append(out, c)
		}
	}
	for _, m := range rgbPattern.FindAllStringSubmatch(text, -1) {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r <= 255 && g <= 255 && b <= 255 {
			out = append(out, rgb{r, g, b})
		}
	}
	return out
}

// parseHex parses #rgb and #rrggbb forms, expanding shorthand
func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.ToLower(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}

// clusterColors reduces the candidate set to k representative colors with
// weighted k-means over RGB. Initial centers are the k heaviest candidates,
// which keeps the result deterministic.
func clusterColors(colors []rgb, weights map[rgb]int, k int) []rgb {
	seeds := append([]rgb(nil), colors...)
	sort.SliceStable(seeds, func(i, j int) bool { return weights[seeds[i]] > weights[seeds[j]] })
	centers := append([]rgb(nil), seeds[:k]...)

	assign := make([]int, len(colors))
	for iter := 0; iter < 10; iter++ {
		changed := false
		for i, c := range colors {
			best, bestDist := 0, 1<<30
			for j, center := range centers {
				d := dist2(c, center)
				if d < bestDist {
					best, bestDist = j, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		var sums [maxPaletteSize][4]int
		for i, c := range colors {
			w := weights[c]
			j := assign[i]
			sums[j][0] += c.r * w
			sums[j][1] += c.g * w
			sums[j][2] += c.b * w
			sums[j][3] += w
		}
		for j := range centers {
			if sums[j][3] > 0 {
				centers[j] = rgb{
					sums[j][0] / sums[j][3],
					sums[j][1] / sums[j][3],
					sums[j][2] / sums[j][3],
				}
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	// Order centers by total cluster weight, heaviest first
	clusterWeight := make([]int, len(centers))
	for i, c := range colors {
		clusterWeight[assign[i]] += weights[c]
	}
	idx := make([]int, len(centers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return clusterWeight[idx[a]] > clusterWeight[idx[b]] })

	out := make([]rgb, 0, len(centers))
	for _, i := range idx {
		if clusterWeight[i] > 0 {
			out = append(out, centers[i])
		}
	}
	return out
}

func dist2(a, b rgb) int {
	dr, dg, db := a.r-b.r, a.g-b.g, a.b-b.b
	return dr*dr + dg*dg + db*db
}

func toHex(colors []rgb) []string {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		out = append(out, c.hex())
	}
	if len(out) > maxPaletteSize {
		out = out[:maxPaletteSize]
	}
	return out
}
