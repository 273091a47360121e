// Package tokenize turns input text into the ordered token stream a MinHash
// signature is computed from.
package tokenize

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrUnknownTokenizer is returned by ByName for an unregistered name.
var ErrUnknownTokenizer = errors.New("tokenize: unknown tokenizer")

// Tokenizer produces tokens for a text. The same text must always yield the
// same tokens in the same order.
type Tokenizer interface {
	Tokens(text string) iter.Seq[string]
}

// TokenizerFunc adapts a plain function to Tokenizer.
type TokenizerFunc func(text string) iter.Seq[string]

// Tokens calls f(text).
func (f TokenizerFunc) Tokens(text string) iter.Seq[string] { return f(text) }

// Collect drains a tokenizer into a slice. Mostly useful in tests.
func Collect(tok Tokenizer, text string) []string {
	var out []string
	for t := range tok.Tokens(text) {
		out = append(out, t)
	}
	return out
}

// Lowercase lowercases every token of Base.
type Lowercase struct {
	Base Tokenizer
}

// Tokens implements Tokenizer.
func (l Lowercase) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for t := range l.Base.Tokens(text) {
			if !yield(strings.ToLower(t)) {
				return
			}
		}
	}
}

// Options selects and configures a tokenizer by name.
type Options struct {
	// Lowercase folds tokens to lower case before hashing.
	Lowercase bool

	// Shingle groups consecutive tokens into word n-grams when > 1.
	Shingle int

	// HTMLMode is "readability" (default) or "raw" for the html tokenizer.
	HTMLMode string

	// Selector scopes the html tokenizer to matching elements.
	Selector string

	// Exclude lists CSS selectors removed before html text extraction.
	Exclude []string

	// SourceURL is handed to readability for resolving the document.
	SourceURL string

	// DOMShingle is the tag n-gram size for the dom tokenizer; default 3.
	DOMShingle int
}

// Names lists the tokenizers known to ByName.
var Names = []string{"whitespace", "html", "dom"}

// ByName builds a tokenizer from its registered name. An empty name selects
// "whitespace".
func ByName(name string, opts Options) (Tokenizer, error) {
	var tok Tokenizer
	switch name {
	case "", "whitespace":
		tok = Whitespace{}
	case "html":
		h, err := NewHTMLText(opts.HTMLMode, opts.Selector, opts.Exclude, opts.SourceURL)
		if err != nil {
			return nil, err
		}
		tok = h
	case "dom":
		tok = DOMTags{N: opts.DOMShingle}
	default:
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownTokenizer, name, strings.Join(Names, ", "))
	}

	if opts.Lowercase {
		tok = Lowercase{Base: tok}
	}
	if opts.Shingle > 1 {
		tok = Shingle{Base: tok, Size: opts.Shingle}
	}
	return tok, nil
}
