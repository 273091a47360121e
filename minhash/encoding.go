package minhash

import (
	"encoding/base64"
	"fmt"
	"math/bits"
	"strings"
)

// BinaryString renders data as '0'/'1' characters, most significant bit of
// each byte first. This is the reverse of the order bits are packed in; both
// orders are relied upon and kept as they are.
func BinaryString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data) * 8)
	for _, b := range data {
		for j := 7; j >= 0; j-- {
			if b&(1<<j) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// BitCount returns the number of set bits in data.
func BitCount(data []byte) int {
	count := 0
	for _, b := range data {
		count += bits.OnesCount8(b)
	}
	return count
}

// Encode returns the standard base64 form of a signature.
func Encode(sig []byte) string {
	return base64.StdEncoding.EncodeToString(sig)
}

// Decode parses a standard base64 signature.
func Decode(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}
