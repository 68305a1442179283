// Package subsetsum implements the subset-sum problem restricted to
// superincreasing weight sequences, the trapdoor behind MHKC.
//
// General subset-sum is NP-hard. When every weight exceeds the sum of all
// smaller weights, the largest weight not exceeding the target must be in the
// subset (the smaller weights together cannot reach it), so a single greedy pass
// from largest to smallest finds the unique solution. Solve is only correct
// under that precondition and must not be used for arbitrary weights.
package subsetsum

import (
	"fmt"
	"math/big"

	knapsack "github.com/BackendStack21/knapsack-go"
)

// IsSuperincreasing reports whether every weight is positive and exceeds the
// sum of all weights before it.
func IsSuperincreasing(weights []*big.Int) bool {
	sum := new(big.Int)
	for i, w := range weights {
		if w == nil || w.Sign() <= 0 {
			return false
		}
		if i > 0 && w.Cmp(sum) <= 0 {
			return false
		}
		sum.Add(sum, w)
	}
	return true
}

// Sum returns the sum of the weights whose bit is set.
// bits and weights must have the same length.
func Sum(weights []*big.Int, bits []uint8) *big.Int {
	total := new(big.Int)
	for i, b := range bits {
		if b != 0 {
			total.Add(total, weights[i])
		}
	}
	return total
}

// Solve finds the bits selecting a subset of weights that sums to target.
// weights must be superincreasing and ordered smallest first; bits[i] pairs
// with weights[i]. Fails with ErrUnrecoverableCiphertext when no subset matches.
func Solve(weights []*big.Int, target *big.Int) ([]uint8, error) {
	if target.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative target", knapsack.ErrUnrecoverableCiphertext)
	}

	bits := make([]uint8, len(weights))
	remainder := new(big.Int).Set(target)
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i].Cmp(remainder) <= 0 {
			bits[i] = 1
			remainder.Sub(remainder, weights[i])
		}
	}

	if remainder.Sign() != 0 {
		return nil, fmt.Errorf("%w: residual %s after greedy reconstruction", knapsack.ErrUnrecoverableCiphertext, remainder)
	}
	return bits, nil
}
