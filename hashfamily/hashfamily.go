// Package hashfamily builds the seeded hash functions a MinHash signature is
// computed with.
//
// Every function is MurmurHash3 x64 128-bit truncated to its low 64 bits
// (h1). Tokens are hashed as UTF-16 little-endian code units so signatures
// stay byte-compatible with the JVM implementation the reference vectors were
// produced by.
package hashfamily

import (
	"github.com/spaolacci/murmur3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Func is a single seeded hash function.
type Func struct {
	Seed uint32
}

// Sum64 returns the low 64 bits of the 128-bit Murmur3 hash of key.
func (f Func) Sum64(key []byte) uint64 {
	h1, _ := murmur3.Sum128WithSeed(key, f.Seed)
	return h1
}

// Family is an ordered, immutable set of hash functions. It is safe to share
// between goroutines.
type Family []Func

// New creates count functions seeded seed, seed+1, ..., seed+count-1.
// A non-positive count yields an empty family.
func New(seed uint32, count int) Family {
	if count <= 0 {
		return Family{}
	}
	fs := make(Family, count)
	for i := range fs {
		fs[i] = Func{Seed: seed + uint32(i)}
	}
	return fs
}

// Len returns the number of functions in the family.
func (fam Family) Len() int { return len(fam) }

// NewEncoder returns a token encoder producing UTF-16LE without a BOM.
// Encoders carry transform state and must not be shared between goroutines.
func NewEncoder() *encoding.Encoder {
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
}

// EncodeToken converts token into the byte form the family hashes.
// Invalid UTF-8 is replaced with U+FFFD by the encoder.
func EncodeToken(enc *encoding.Encoder, token string) []byte {
	b, err := enc.Bytes([]byte(token))
	if err != nil {
		return encodeFallback(token)
	}
	return b
}

// encodeFallback is only reached if the transformer reports an error, which
// the UTF-16 encoder does not do for in-memory input.
func encodeFallback(token string) []byte {
	out := make([]byte, 0, len(token)*2)
	for _, r := range token {
		if r >= 0x10000 {
			r -= 0x10000
			hi, lo := 0xD800+(r>>10), 0xDC00+(r&0x3FF)
			out = append(out, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
			continue
		}
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}
