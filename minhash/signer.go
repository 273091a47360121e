package minhash

import (
	"iter"
	"sync"

	"github.com/use-agent/minhash/hashfamily"
	"github.com/use-agent/minhash/tokenize"
)

// Signer binds a tokenizer to a hash family and a bit width. It is safe for
// concurrent use: every call borrows its own Builder.
type Signer struct {
	tok     tokenize.Tokenizer
	family  hashfamily.Family
	hashBit int
	pool    sync.Pool
}

// NewSigner creates a Signer hashing tokens from tok with num functions
// seeded from seed, keeping hashBit bits per function.
func NewSigner(tok tokenize.Tokenizer, hashBit int, seed uint32, num int) (*Signer, error) {
	family := hashfamily.New(seed, num)
	// Validate once so pooled builders can be created without error checks.
	if _, err := NewBuilder(family, hashBit); err != nil {
		return nil, err
	}
	if tok == nil {
		tok = tokenize.Whitespace{}
	}

	s := &Signer{
		tok:     tok,
		family:  family,
		hashBit: hashBit,
	}
	s.pool.New = func() any {
		b, _ := NewBuilder(s.family, s.hashBit)
		return b
	}
	return s, nil
}

// NewWhitespaceSigner creates a Signer that splits text on whitespace.
func NewWhitespaceSigner(hashBit int, seed uint32, num int) (*Signer, error) {
	return NewSigner(tokenize.Whitespace{}, hashBit, seed, num)
}

// Sign tokenizes text and returns its signature.
func (s *Signer) Sign(text string) []byte {
	return s.SignTokens(s.tok.Tokens(text))
}

// SignTokens returns the signature of an already tokenized stream.
func (s *Signer) SignTokens(seq iter.Seq[string]) []byte {
	b := s.pool.Get().(*Builder)
	defer s.pool.Put(b)

	b.Reset()
	b.ObserveAll(seq)
	// Finalize allocates a fresh slice, so the result outlives the reset.
	return b.Finalize()
}

// Tokens returns the token stream the signer hashes for text.
func (s *Signer) Tokens(text string) iter.Seq[string] {
	return s.tok.Tokens(text)
}

// SignBase64 is Sign followed by Encode.
func (s *Signer) SignBase64(text string) string {
	return Encode(s.Sign(text))
}

// NewBuilder returns a Builder sharing the signer's family, for callers that
// feed tokens themselves.
func (s *Signer) NewBuilder() *Builder {
	b, _ := NewBuilder(s.family, s.hashBit)
	return b
}

// Family returns the shared hash family.
func (s *Signer) Family() hashfamily.Family { return s.family }

// HashBit returns the number of bits kept per function.
func (s *Signer) HashBit() int { return s.hashBit }

// NumBits returns the logical signature length in bits.
func (s *Signer) NumBits() int { return len(s.family) * s.hashBit }

// Size returns the signature length in bytes.
func (s *Signer) Size() int { return (s.NumBits() + 7) / 8 }
