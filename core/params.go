// Package core provides parameter sets and validation for knapsack.
package core

import (
	"errors"
	"fmt"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/utils"
)

// DefaultSeedBound is the upper bound for the first private weight.
const DefaultSeedBound = 1 << 16

// KS8Params is the byte-oriented parameter set, and the default key length.
var KS8Params = knapsack.Params{
	Level:     knapsack.KS8,
	N:         8,
	SeedBound: DefaultSeedBound,
}

// KS16Params covers runes of the Basic Multilingual Plane.
var KS16Params = knapsack.Params{
	Level:     knapsack.KS16,
	N:         16,
	SeedBound: DefaultSeedBound,
}

// KS32Params covers every rune.
var KS32Params = knapsack.Params{
	Level:     knapsack.KS32,
	N:         32,
	SeedBound: DefaultSeedBound,
}

// GetParams returns the parameter set for the given level.
func GetParams(level knapsack.KeyLevel) (knapsack.Params, error) {
	switch level {
	case knapsack.KS8:
		return KS8Params, nil
	case knapsack.KS16:
		return KS16Params, nil
	case knapsack.KS32:
		return KS32Params, nil
	default:
		return knapsack.Params{}, fmt.Errorf("unknown key level: %s", level)
	}
}

// ParamsForLength returns parameters for an arbitrary key length n.
// Preset lengths map to their named level.
func ParamsForLength(n int) knapsack.Params {
	switch n {
	case KS8Params.N:
		return KS8Params
	case KS16Params.N:
		return KS16Params
	case KS32Params.N:
		return KS32Params
	}
	return knapsack.Params{
		Level:     knapsack.KeyLevel(fmt.Sprintf("KS-%d", n)),
		N:         n,
		SeedBound: DefaultSeedBound,
	}
}

// ValidateParams validates the parameter set.
func ValidateParams(params knapsack.Params) error {
	if err := utils.CheckPositive(params.N, "key length"); err != nil {
		return fmt.Errorf("%w: %v", knapsack.ErrInvalidKeyParameters, err)
	}
	if params.N > utils.MaxKeyLength {
		return fmt.Errorf("%w: key length %d exceeds %d", knapsack.ErrInvalidKeyParameters, params.N, utils.MaxKeyLength)
	}
	if params.SeedBound < 1 {
		return fmt.Errorf("%w: seed bound must be positive", knapsack.ErrInvalidKeyParameters)
	}
	return nil
}

// SymbolBits returns the number of bits needed to represent code.
// Zero needs no bits and is encodable by any key.
func SymbolBits(code uint64) int {
	bits := 0
	for c := code; c > 0; c >>= 1 {
		bits++
	}
	return bits
}

// CheckSymbolWidth reports whether codes of maxCode fit a key of length n.
func CheckSymbolWidth(n int, maxCode uint64) error {
	if SymbolBits(maxCode) > n {
		return errors.New("symbol width exceeds key length")
	}
	return nil
}
