package tokenize

import (
	"iter"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// MaxTokenLength is the longest token Whitespace emits, in UTF-16 code
// units. Longer runs are split into consecutive chunks.
const MaxTokenLength = 255

// Whitespace splits text on whitespace the way Java's
// Character.isWhitespace defines it. Non-breaking spaces are token characters.
type Whitespace struct{}

// Tokens implements Tokenizer.
func (Whitespace) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start, units := -1, 0
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if isJavaWhitespace(r) {
				if start >= 0 {
					if !yield(text[start:i]) {
						return
					}
					start, units = -1, 0
				}
				i += size
				continue
			}
			if start < 0 {
				start = i
			}
			units += utf16.RuneLen(r)
			i += size
			if units >= MaxTokenLength {
				if !yield(text[start:i]) {
					return
				}
				start, units = -1, 0
			}
		}
		if start >= 0 {
			yield(text[start:])
		}
	}
}

func isJavaWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0x1C, 0x1D, 0x1E, 0x1F:
		return true
	case 0x00A0, 0x2007, 0x202F:
		return false
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}
