// Package minhash computes MinHash bit signatures of token streams and
// compares them.
//
// A signature keeps the lowest hashBit bits of each hash function's minimum
// over all tokens. The fraction of equal bits between two signatures built
// with the same family approximates the Jaccard similarity of the token sets.
package minhash

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/use-agent/minhash/bitarray"
	"github.com/use-agent/minhash/hashfamily"
	"golang.org/x/text/encoding"
)

// ErrInvalidHashBit is returned when fewer than one bit per function is requested.
var ErrInvalidHashBit = errors.New("minhash: hashBit must be at least 1")

// State is the lifecycle stage of a Builder.
type State int

const (
	// StateInit means no token has been observed since creation or Reset.
	StateInit State = iota
	// StateAccumulating means at least one token has been observed.
	StateAccumulating
	// StateFinalized means the signature has been computed and cached.
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// sentinel marks a function that has not seen a token yet.
const sentinel = math.MaxInt64

// Builder accumulates per-function minimum hashes for one document.
//
// A Builder is not safe for concurrent use. Give each in-flight document its
// own Builder and share the Family; reuse a Builder sequentially with Reset.
type Builder struct {
	family  hashfamily.Family
	hashBit int
	enc     *encoding.Encoder

	// minima are ordered as signed integers, which is what the reference
	// signatures were produced with.
	minima []int64
	state  State
	sig    []byte
}

// NewBuilder creates a Builder in StateInit.
func NewBuilder(family hashfamily.Family, hashBit int) (*Builder, error) {
	if hashBit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHashBit, hashBit)
	}
	b := &Builder{
		family:  family,
		hashBit: hashBit,
		enc:     hashfamily.NewEncoder(),
		minima:  make([]int64, len(family)),
	}
	b.Reset()
	return b, nil
}

// Reset discards all observed tokens and any cached signature.
func (b *Builder) Reset() {
	for i := range b.minima {
		b.minima[i] = sentinel
	}
	b.state = StateInit
	b.sig = nil
}

// State reports the builder's lifecycle stage.
func (b *Builder) State() State { return b.state }

// NumBits returns the logical signature length in bits.
func (b *Builder) NumBits() int { return len(b.family) * b.hashBit }

// Observe folds one token into the running minima. It is a no-op once the
// builder is finalized.
func (b *Builder) Observe(token string) {
	if b.state == StateFinalized {
		return
	}
	key := hashfamily.EncodeToken(b.enc, token)
	for i, f := range b.family {
		if v := int64(f.Sum64(key)); v < b.minima[i] {
			b.minima[i] = v
		}
	}
	b.state = StateAccumulating
}

// ObserveAll observes every token of seq in order.
func (b *Builder) ObserveAll(seq iter.Seq[string]) {
	if seq == nil {
		return
	}
	for token := range seq {
		b.Observe(token)
	}
}

// Finalize packs the signature on first call and returns the cached result
// afterwards. Function i occupies bits [i*hashBit, (i+1)*hashBit), lowest
// bit of the minimum first.
func (b *Builder) Finalize() []byte {
	if b.state == StateFinalized {
		return b.sig
	}

	arr, err := bitarray.New(b.NumBits())
	if err != nil {
		// Empty family: nothing to pack.
		b.sig = []byte{}
		b.state = StateFinalized
		return b.sig
	}

	pos := 0
	for _, m := range b.minima {
		v := uint64(m)
		for j := 0; j < b.hashBit; j++ {
			arr.Set(pos, v&1 == 1)
			pos++
			v >>= 1
		}
	}

	b.sig = arr.Bytes()
	b.state = StateFinalized
	return b.sig
}
