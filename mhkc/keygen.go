// Package mhkc implements the Merkle-Hellman Knapsack Cryptosystem.
package mhkc

import (
	"fmt"
	"io"
	"math/big"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/core"
	"github.com/BackendStack21/knapsack-go/modular"
	"github.com/BackendStack21/knapsack-go/problems/subsetsum"
	"github.com/BackendStack21/knapsack-go/utils"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// GeneratePrivateKey generates a private key with n weights from crypto/rand.
func GeneratePrivateKey(n int) (*knapsack.PrivateKey, error) {
	return GeneratePrivateKeyFrom(utils.RandReader, core.ParamsForLength(n))
}

// GenerateKeyPair generates a key pair for the given level.
func GenerateKeyPair(level knapsack.KeyLevel) (*knapsack.KeyPair, error) {
	params, err := core.GetParams(level)
	if err != nil {
		return nil, err
	}
	return GenerateKeyPairFrom(utils.RandReader, params)
}

// GenerateKeyPairFrom generates a key pair drawing all randomness from rand.
func GenerateKeyPairFrom(rand io.Reader, params knapsack.Params) (*knapsack.KeyPair, error) {
	sk, err := GeneratePrivateKeyFrom(rand, params)
	if err != nil {
		return nil, err
	}
	return &knapsack.KeyPair{
		PublicKey:  *DerivePublicKey(sk),
		PrivateKey: *sk,
	}, nil
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params knapsack.Params, seed []byte) (*knapsack.KeyPair, error) {
	r, err := utils.NewSeededReader(seed)
	if err != nil {
		return nil, err
	}
	return GenerateKeyPairFrom(r, params)
}

// GeneratePrivateKeyFrom generates a private key drawing all randomness from rand.
//
// W[0] is uniform in [1, SeedBound]. Each further weight and then Q are uniform
// in (sum(W), 2*sum(W)], which keeps W superincreasing and Q above every subset
// sum. R is uniform in [2, Q-1] and redrawn until it is coprime to Q. The
// result is validated before it is returned.
func GeneratePrivateKeyFrom(rand io.Reader, params knapsack.Params) (*knapsack.PrivateKey, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	n := params.N
	w := make([]*big.Int, 0, n)
	first, err := utils.RandomBigIntRange(rand, one, big.NewInt(params.SeedBound))
	if err != nil {
		return nil, fmt.Errorf("sampling first weight: %w", err)
	}
	w = append(w, first)
	sum := new(big.Int).Set(first)

	for len(w) < n {
		next, err := sampleAboveSum(rand, sum)
		if err != nil {
			return nil, fmt.Errorf("sampling weight %d: %w", len(w), err)
		}
		w = append(w, next)
		sum.Add(sum, next)
	}

	q, err := sampleAboveSum(rand, sum)
	if err != nil {
		return nil, fmt.Errorf("sampling modulus: %w", err)
	}

	r, err := sampleMultiplier(rand, q)
	if err != nil {
		return nil, err
	}

	sk := &knapsack.PrivateKey{W: w, Q: q, R: r}
	if !subsetsum.IsSuperincreasing(sk.W) {
		return nil, fmt.Errorf("%w: generated weights are not superincreasing", knapsack.ErrInvalidKeyParameters)
	}
	if err := sk.Validate(); err != nil {
		return nil, err
	}
	return sk, nil
}

// sampleAboveSum draws uniformly from (sum, 2*sum].
func sampleAboveSum(rand io.Reader, sum *big.Int) (*big.Int, error) {
	lo := new(big.Int).Add(sum, one)
	hi := new(big.Int).Mul(sum, two)
	return utils.RandomBigIntRange(rand, lo, hi)
}

// sampleMultiplier draws R uniformly from [2, Q-1] with gcd(R, Q) = 1.
// Q = 2 leaves that range empty and R = 1 is the only unit.
func sampleMultiplier(rand io.Reader, q *big.Int) (*big.Int, error) {
	if q.Cmp(two) <= 0 {
		return big.NewInt(1), nil
	}
	hi := new(big.Int).Sub(q, one)
	for attempt := 0; attempt < utils.MaxRejectionAttempts; attempt++ {
		r, err := utils.RandomBigIntRange(rand, two, hi)
		if err != nil {
			return nil, fmt.Errorf("sampling multiplier: %w", err)
		}
		if modular.Coprime(r, q) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("sampling multiplier: %w", utils.ErrRejectionExhausted)
}
