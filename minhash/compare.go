package minhash

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidEncoding is returned when a text-encoded signature cannot be decoded.
var ErrInvalidEncoding = errors.New("minhash: invalid signature encoding")

// Compare returns the fraction of equal bits between two signatures, in
// [0, 1]. A nil signature or a length mismatch yields 0.
func Compare(a, b []byte) float64 {
	return CompareBits(len(a)*8, a, b)
}

// CompareBits is Compare with an explicit bit count. Only the first numBits
// bits take part, so trailing padding can be excluded; a numBits larger than
// the signatures counts the missing bits as mismatches.
func CompareBits(numBits int, a, b []byte) float64 {
	if a == nil || b == nil || len(a) != len(b) || numBits <= 0 {
		return 0
	}
	n := min(numBits, len(a)*8)
	return float64(countSameBitsN(a, b, n)) / float64(numBits)
}

// CompareBase64 decodes two base64 signatures and compares them. An empty
// string is treated like an absent signature.
func CompareBase64(a, b string) (float64, error) {
	da, db, err := decodePair(a, b)
	if err != nil {
		return 0, err
	}
	return Compare(da, db), nil
}

// CompareBase64Bits is CompareBase64 with an explicit bit count.
func CompareBase64Bits(numBits int, a, b string) (float64, error) {
	da, db, err := decodePair(a, b)
	if err != nil {
		return 0, err
	}
	return CompareBits(numBits, da, db), nil
}

func decodePair(a, b string) ([]byte, []byte, error) {
	da, err := decodeOptional(a)
	if err != nil {
		return nil, nil, fmt.Errorf("first signature: %w", err)
	}
	db, err := decodeOptional(b)
	if err != nil {
		return nil, nil, fmt.Errorf("second signature: %w", err)
	}
	return da, db, nil
}

func decodeOptional(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return Decode(s)
}

// CountSameBits returns how many bit positions agree between two equal-length
// byte slices.
func CountSameBits(a, b []byte) int {
	count := 0
	for i := range a {
		count += 8 - bits.OnesCount8(a[i]^b[i])
	}
	return count
}

// countSameBitsN counts agreeing bits among the first n bit positions, in
// packing order (low bit of byte 0 first).
func countSameBitsN(a, b []byte, n int) int {
	full := n / 8
	count := CountSameBits(a[:full], b[:full])
	if rem := n % 8; rem > 0 {
		mask := byte(1)<<rem - 1
		count += rem - bits.OnesCount8((a[full]^b[full])&mask)
	}
	return count
}
