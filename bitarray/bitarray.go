// Package bitarray provides a fixed-capacity bit container backed by a byte
// slice, used to pack MinHash signatures.
package bitarray

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by New for a capacity of zero or less.
var ErrInvalidCapacity = errors.New("bitarray: capacity must be positive")

// Array stores bits least-significant-bit first: bit i lives in byte i/8 at
// position i%8.
type Array struct {
	data    []byte // backing storage, ceil(numBits/8) bytes
	numBits int
}

// New creates an array of numBits zero bits.
func New(numBits int) (*Array, error) {
	if numBits <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, numBits)
	}
	return &Array{
		data:    make([]byte, (numBits+7)/8),
		numBits: numBits,
	}, nil
}

// Set sets or clears bit i. Indexes outside [0, Len()) are ignored.
func (a *Array) Set(i int, value bool) {
	if i < 0 || i >= a.numBits {
		return
	}
	mask := byte(1) << (i % 8)
	if value {
		a.data[i/8] |= mask
	} else {
		a.data[i/8] &^= mask
	}
}

// Get reports whether bit i is set. Out-of-range indexes read as false.
func (a *Array) Get(i int) bool {
	if i < 0 || i >= a.numBits {
		return false
	}
	return a.data[i/8]&(1<<(i%8)) != 0
}

// Len returns the capacity in bits.
func (a *Array) Len() int { return a.numBits }

// Bytes returns the backing storage. The slice is shared with the array, so
// later calls to Set are visible through it.
func (a *Array) Bytes() []byte { return a.data }
