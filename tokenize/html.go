package tokenize

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// minContentLength is the minimum readability text length (in characters)
// accepted before falling back to raw text extraction.
const minContentLength = 50

const defaultSourceURL = "http://localhost/"

// HTMLText tokenizes the visible text of an HTML document.
//
// Pipeline:
//  1. Remove elements matching Exclude (goquery).
//  2. Keep only elements matching Selector, if set (cascadia).
//  3. Extract text: readability main content, or every text node in raw mode.
//  4. Split the text with Whitespace.
type HTMLText struct {
	mode      string
	selector  cascadia.Sel
	exclude   []string
	sourceURL *nurl.URL
}

// NewHTMLText validates the selectors and source URL up front so Tokens
// never has to report an error.
func NewHTMLText(mode, selector string, exclude []string, sourceURL string) (*HTMLText, error) {
	h := &HTMLText{mode: mode}
	switch mode {
	case "", "readability":
		h.mode = "readability"
	case "raw":
	default:
		return nil, fmt.Errorf("tokenize: html mode %q: want readability or raw", mode)
	}

	if selector != "" {
		sel, err := cascadia.Parse(selector)
		if err != nil {
			return nil, fmt.Errorf("tokenize: selector %q: %w", selector, err)
		}
		h.selector = sel
	}
	for _, ex := range exclude {
		if _, err := cascadia.ParseGroup(ex); err != nil {
			return nil, fmt.Errorf("tokenize: exclude selector %q: %w", ex, err)
		}
	}
	h.exclude = exclude

	if sourceURL == "" {
		sourceURL = defaultSourceURL
	}
	u, err := nurl.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("tokenize: source url: %w", err)
	}
	h.sourceURL = u
	return h, nil
}

// Tokens implements Tokenizer.
func (h *HTMLText) Tokens(text string) iter.Seq[string] {
	return Whitespace{}.Tokens(h.Text(text))
}

// Text runs the extraction pipeline and returns plain text.
func (h *HTMLText) Text(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Warn("tokenize: html parse failed, tokenizing input as text", "error", err)
		return rawHTML
	}

	for _, sel := range h.exclude {
		doc.Find(sel).Remove()
	}

	root := doc.Nodes
	if h.selector != nil {
		if matches := cascadia.QueryAll(doc.Nodes[0], h.selector); len(matches) > 0 {
			root = matches
		}
	}

	if h.mode == "readability" {
		if text, ok := h.readable(root); ok {
			return text
		}
	}
	return visibleText(root)
}

// readable runs Mozilla Readability over the rendered nodes.
func (h *HTMLText) readable(nodes []*html.Node) (string, bool) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", false
		}
	}

	article, err := readability.FromReader(&buf, h.sourceURL)
	if err != nil {
		slog.Debug("tokenize: readability failed, falling back to raw text",
			"url", h.sourceURL.String(), "error", err,
		)
		return "", false
	}
	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("tokenize: readability content too short, falling back to raw text",
			"url", h.sourceURL.String(), "length", len(article.TextContent),
		)
		return "", false
	}
	return article.TextContent, true
}

// skipText lists elements whose text is never visible.
var skipText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// visibleText joins all text nodes under nodes with single spaces so words in
// adjacent elements are not glued together.
func visibleText(nodes []*html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(s)
			}
			return
		case html.ElementNode:
			if skipText[n.Data] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}
