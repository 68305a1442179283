// Package utils provides utility functions for knapsack.
// This file contains allocation limits and length checks that keep
// attacker-controlled lengths from triggering huge allocations.

package utils

import (
	"errors"
)

// Maximum allowed sizes to prevent DoS via large allocations.
const (
	// MaxKeyLength is the maximum number of weights in a key.
	MaxKeyLength = 4096

	// MaxMessageSize is the maximum number of symbols in one message.
	MaxMessageSize = 1 << 20 // 1M symbols

	// MaxIntegerBytes is the maximum encoded size of a single key or ciphertext integer.
	// A key of MaxKeyLength weights needs roughly MaxKeyLength+SeedBound bits.
	MaxIntegerBytes = 1 << 12

	// MaxPayloadLength is the maximum allowed payload length for serialized data.
	MaxPayloadLength = 1 << 28 // 256MB

	// MaxRejectionAttempts bounds every rejection-sampling loop.
	MaxRejectionAttempts = 1 << 10
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")

	// ErrRejectionExhausted indicates a sampler gave up after MaxRejectionAttempts draws.
	ErrRejectionExhausted = errors.New("random source exhausted rejection attempts")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckPositive validates that value is > 0.
func CheckPositive(value int, name string) error {
	if value <= 0 {
		return errors.New(name + " must be positive")
	}
	return nil
}

// SafeReadLength reads a uint32 length from data at offset, validates it, and returns the value.
// Returns error if not enough bytes available or length exceeds maxAllowed.
func SafeReadLength(data []byte, offset, maxAllowed int) (length int, newOffset int, err error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, offset, errors.New("truncated length field")
	}
	raw := uint32(data[offset]) | uint32(data[offset+1])<<8 | uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
	if uint64(raw) > uint64(maxAllowed) {
		return 0, offset, ErrExceedsLimit
	}
	return int(raw), offset + 4, nil
}

// ValidateSliceAccess checks that accessing data[offset:offset+size] is safe.
func ValidateSliceAccess(data []byte, offset, size int) error {
	if offset < 0 || size < 0 {
		return ErrInvalidLength
	}
	if offset+size < offset {
		return ErrExceedsLimit
	}
	if offset+size > len(data) {
		return errors.New("slice access out of bounds")
	}
	return nil
}
