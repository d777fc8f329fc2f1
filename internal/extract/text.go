package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	minFragmentLen = 20
	maxFragmentLen = 300
	maxFragments   = 3
)

// navNoise marks fragments that belong to chrome, not messaging
var navNoise = []string{"menu", "login", "sign in"}

// heroClasses mark containers that typically hold headline copy
var heroClasses = []string{"hero", "banner", "jumbotron", "tagline", "subtitle", "headline"}

// HeroText extracts up to three headline or tagline fragments in document
// order. Fragments shorter than 20 or longer than 300 characters and
// navigation-like text are skipped. The result may be empty.
func HeroText(doc *html.Node) []string {
	var out []string
	seen := make(map[string]bool)

	walk(doc, func(n *html.Node) bool {
		if len(out) >= maxFragments {
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}

		isHeadline := n.Data == "h1" || n.Data == "h2" && hasAncestor(n, func(p *html.Node) bool {
			return classContains(p, heroClasses...)
		})
		isHeroBlock := n.Data == "p" && classContains(n, heroClasses...)

		if !isHeadline && !isHeroBlock && !(n.Data == "div" && classContains(n, "tagline")) {
			return true
		}

		text := collectText(n)
		if !acceptFragment(text) || seen[text] {
			return false
		}
		seen[text] = true
		out = append(out, text)
		return false
	})

	return out
}

// acceptFragment applies the length and noise rules to one fragment
func acceptFragment(text string) bool {
	if len(text) < minFragmentLen || len(text) > maxFragmentLen {
		return false
	}
	low := strings.ToLower(text)
	for _, noise := range navNoise {
		if strings.Contains(low, noise) {
			return false
		}
	}
	return true
}

// PageContext is the condensed page content handed to the enrichment step
type PageContext struct {
	Title           string
	MetaDescription string
	Headings        []string
	NavLabels       []string
	Paragraphs      []string
}

// BuildContext condenses the document into the material the AI enrichment
// prompt is built from
func BuildContext(doc *html.Node) PageContext {
	var ctx PageContext

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "title":
			if ctx.Title == "" {
				ctx.Title = collectText(n)
			}
			return false
		case "meta":
			if strings.EqualFold(attr(n, "name"), "description") {
				ctx.MetaDescription = strings.TrimSpace(attr(n, "content"))
			}
			return true
		case "h1", "h2", "h3":
			if text := collectText(n); text != "" && len(ctx.Headings) < 15 {
				ctx.Headings = append(ctx.Headings, text)
			}
			return false
		case "nav":
			walk(n, func(c *html.Node) bool {
				if isElement(c, "a") {
					if label := collectText(c); label != "" && len(label) < 40 && len(ctx.NavLabels) < 12 {
						ctx.NavLabels = append(ctx.NavLabels, label)
					}
					return false
				}
				return true
			})
			return false
		case "p":
			if text := collectText(n); len(text) >= minFragmentLen && len(ctx.Paragraphs) < 10 {
				ctx.Paragraphs = append(ctx.Paragraphs, truncateRunes(text, 400))
			}
			return false
		}
		return true
	})

	return ctx
}

// truncateRunes cuts text to at most max bytes without splitting a rune
func truncateRunes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// titleSeparators split page titles into brand and descriptor parts
var titleSeparators = []string{"|", " - ", "::", "—", "–"}

// CompanyNameFromPage guesses a company name from the page title, falling
// back to the host name without the www prefix
func CompanyNameFromPage(title, pageURL string) string {
	title = strings.TrimSpace(title)
	if title != "" {
		for _, sep := range titleSeparators {
			if i := strings.Index(title, sep); i > 0 {
				title = title[:i]
				break
			}
		}
		if name := strings.TrimSpace(title); name != "" {
			return name
		}
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if i := strings.Index(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
