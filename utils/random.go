package utils

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"runtime"
)

// RandReader is the default random source for key generation.
var RandReader io.Reader = rand.Reader

// RandomBigInt draws an integer uniformly from [0, max) using bytes from r.
// Candidates are masked to the bit length of max-1 and rejected when too large,
// so the output depends only on the byte stream. A seeded reader therefore
// yields reproducible values.
func RandomBigInt(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, errors.New("max must be positive")
	}
	if max.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int), nil
	}

	limit := new(big.Int).Sub(max, big.NewInt(1))
	bitsNeeded := limit.BitLen()
	bytesNeeded := (bitsNeeded + 7) / 8
	// Mask for the top byte
	topMask := byte(0xFF >> uint(bytesNeeded*8-bitsNeeded))

	buf := make([]byte, bytesNeeded)
	value := new(big.Int)
	for attempt := 0; attempt < MaxRejectionAttempts; attempt++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		buf[0] &= topMask
		value.SetBytes(buf)
		if value.Cmp(max) < 0 {
			Zeroize(buf)
			return value, nil
		}
	}
	return nil, ErrRejectionExhausted
}

// RandomBigIntRange draws an integer uniformly from the closed range [lo, hi].
func RandomBigIntRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if hi.Cmp(lo) < 0 {
		return nil, errors.New("empty range")
	}
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, big.NewInt(1))
	v, err := RandomBigInt(r, width)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < 32 {
		return errors.New("seed must be at least 32 bytes")
	}

	// Check for all bytes identical
	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	// Check for sequential patterns
	isAscending := true
	isDescending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != byte((int(seed[i-1])+1)%256) {
			isAscending = false
		}
		if seed[i] != byte((int(seed[i-1])-1+256)%256) {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	// Check for low byte diversity
	unique := make(map[byte]struct{})
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 8 {
			break
		}
	}
	if len(unique) < 8 {
		return errors.New("seed has low entropy: insufficient byte diversity")
	}

	return nil
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroizeBig sets every integer to zero.
// math/big may keep old limbs in spare capacity, so this is best effort.
func ZeroizeBig(values ...*big.Int) {
	for _, v := range values {
		if v == nil {
			continue
		}
		words := v.Bits()
		for i := range words {
			words[i] = 0
		}
		v.SetInt64(0)
	}
	runtime.KeepAlive(values)
}
