package minhash

import (
	"errors"
	"fmt"

	"github.com/use-agent/minhash/bitarray"
)

// ErrInvalidField is returned by Calculate for a malformed Field.
var ErrInvalidField = errors.New("minhash: invalid field")

// Field is one part of a multi-field signature: a text, the Signer that
// turns it into a raw signature, and how many bits of that signature the
// combined result keeps.
type Field struct {
	Signer  *Signer
	Text    string
	NumBits int
}

// NewField returns a Field.
func NewField(signer *Signer, text string, numBits int) Field {
	return Field{Signer: signer, Text: text, NumBits: numBits}
}

// Calculate signs every field independently and concatenates them in order.
//
// Each field contributes exactly NumBits bits: the first NumBits bits of its
// raw signature, zero-extended when the raw signature is shorter. No fields
// (or a zero total) yields an empty signature.
func Calculate(fields ...Field) ([]byte, error) {
	total := 0
	for i, f := range fields {
		if f.Signer == nil {
			return nil, fmt.Errorf("%w: field %d has no signer", ErrInvalidField, i)
		}
		if f.NumBits < 0 {
			return nil, fmt.Errorf("%w: field %d has negative bit budget %d", ErrInvalidField, i, f.NumBits)
		}
		total += f.NumBits
	}
	if total == 0 {
		return []byte{}, nil
	}

	arr, err := bitarray.New(total)
	if err != nil {
		return nil, err
	}

	pos := 0
	for _, f := range fields {
		raw := f.Signer.Sign(f.Text)
		n := min(f.NumBits, len(raw)*8)
		for j := 0; j < n; j++ {
			arr.Set(pos+j, raw[j/8]&(1<<(j%8)) != 0)
		}
		pos += f.NumBits
	}
	return arr.Bytes(), nil
}
