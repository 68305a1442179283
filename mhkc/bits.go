package mhkc

import (
	"fmt"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/core"
)

// BitVector holds n bits, most significant first.
// Bit i pairs with W[i] and B[i], so the most significant bit selects the
// smallest private weight.
type BitVector []uint8

// EncodeSymbol writes code as exactly n bits, left padded with zeros.
// Fails with ErrEncodingOverflow if code needs more than n bits.
func EncodeSymbol(code uint64, n int) (BitVector, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: key length must be at least 1", knapsack.ErrInvalidKeyParameters)
	}
	if bits := core.SymbolBits(code); bits > n {
		return nil, fmt.Errorf("%w: code %d needs %d bits, key has %d", knapsack.ErrEncodingOverflow, code, bits, n)
	}

	v := make(BitVector, n)
	for i := n - 1; i >= 0 && code > 0; i-- {
		v[i] = uint8(code & 1)
		code >>= 1
	}
	return v, nil
}

// Uint64 assembles the bits back into a code.
// Fails with ErrEncodingOverflow if a set bit lies above bit 63.
func (v BitVector) Uint64() (uint64, error) {
	n := len(v)
	var code uint64
	for i, b := range v {
		if b == 0 {
			continue
		}
		pos := n - 1 - i
		if pos >= 64 {
			return 0, fmt.Errorf("%w: decoded code exceeds 64 bits", knapsack.ErrEncodingOverflow)
		}
		code |= 1 << uint(pos)
	}
	return code, nil
}

// String renders the bits as a binary string, most significant first.
func (v BitVector) String() string {
	buf := make([]byte, len(v))
	for i, b := range v {
		buf[i] = '0' + b
	}
	return string(buf)
}
