package tokenize

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// DOMTags tokenizes the structure of an HTML document: start-tag names in
// document order, grouped into N-gram shingles joined by "_". Text content
// and attributes are ignored, so two pages built from the same template
// produce the same tokens.
type DOMTags struct {
	N int // shingle size; 3 when zero
}

// Tokens implements Tokenizer.
func (d DOMTags) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		n := d.N
		if n <= 0 {
			n = 3
		}
		tags := extractTags(text)
		if len(tags) == 0 {
			return
		}

		shingles := makeShingles(tags, n, "_")
		if len(shingles) == 0 {
			// Too few tags for a shingle; use the tag sequence itself.
			yield(strings.Join(tags, "_"))
			return
		}
		for _, s := range shingles {
			if !yield(s) {
				return
			}
		}
	}
}

// extractTags walks HTML with the tokenizer and collects open tag names in order.
func extractTags(htmlStr string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	var tags []string

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			tags = append(tags, string(tn))
		}
	}
}
