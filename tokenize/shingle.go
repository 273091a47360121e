package tokenize

import (
	"iter"
	"strings"
)

// Shingle groups Size consecutive tokens of Base into one token joined by
// Sep (a single space when empty). When Base yields fewer than Size tokens,
// the whole sequence becomes a single shingle.
type Shingle struct {
	Base Tokenizer
	Size int
	Sep  string
}

// Tokens implements Tokenizer.
func (s Shingle) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		sep := s.Sep
		if sep == "" {
			sep = " "
		}
		if s.Size <= 1 {
			for t := range s.Base.Tokens(text) {
				if !yield(t) {
					return
				}
			}
			return
		}

		window := make([]string, 0, s.Size)
		emitted := false
		for t := range s.Base.Tokens(text) {
			if len(window) == s.Size {
				copy(window, window[1:])
				window = window[:s.Size-1]
			}
			window = append(window, t)
			if len(window) == s.Size {
				emitted = true
				if !yield(strings.Join(window, sep)) {
					return
				}
			}
		}
		if !emitted && len(window) > 0 {
			yield(strings.Join(window, sep))
		}
	}
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int, sep string) []string {
	if len(tokens) < n {
		return nil
	}

	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], sep))
	}
	return shingles
}
