// Package extract pulls brand signals out of fetched pages: color palettes
// from stylesheets, logo images, hero copy and the page context handed to
// the AI enrichment step.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseDocument parses an HTML document from a string
func ParseDocument(markup string) (*html.Node, error) {
	return html.Parse(strings.NewReader(markup))
}

// walk visits every node in the tree in document order. The visitor
// returns false to stop descending into a subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// attr returns the value of the named attribute, or ""
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// isElement reports whether n is an element node with the given tag
func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// collectText gathers the visible text under n, whitespace-normalized
func collectText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style" || c.Data == "noscript") {
			return false
		}
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteString(" ")
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// hasAncestor reports whether any ancestor of n satisfies the predicate
func hasAncestor(n *html.Node, pred func(*html.Node) bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && pred(p) {
			return true
		}
	}
	return false
}

// classContains reports whether the node's class attribute contains any
// of the given substrings
func classContains(n *html.Node, substrings ...string) bool {
	class := strings.ToLower(attr(n, "class"))
	if class == "" {
		return false
	}
	for _, s := range substrings {
		if strings.Contains(class, s) {
			return true
		}
	}
	return false
}
