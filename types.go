package knapsack

import (
	"fmt"
	"math/big"
)

// KeyLevel names a key length preset.
type KeyLevel string

const (
	// KS8 uses 8 weights and encrypts bytes.
	KS8 KeyLevel = "KS-8"
	// KS16 uses 16 weights and encrypts runes of the Basic Multilingual Plane.
	KS16 KeyLevel = "KS-16"
	// KS32 uses 32 weights and encrypts any rune.
	KS32 KeyLevel = "KS-32"
)

// Params contains the parameters for MHKC key generation.
type Params struct {
	Level     KeyLevel `json:"level"`
	N         int      `json:"n"`          // Number of weights, also the symbol bit width
	SeedBound int64    `json:"seed_bound"` // W[0] is drawn from [1, SeedBound]
}

// =============================================================================
// Key Types
// =============================================================================

// PrivateKey is the MHKC private key.
// W must be superincreasing, Q must exceed sum(W), and R must be a unit mod Q.
type PrivateKey struct {
	W []*big.Int `json:"w"` // Superincreasing weights
	Q *big.Int   `json:"q"` // Modulus
	R *big.Int   `json:"r"` // Multiplier, coprime to Q
}

// PublicKey is the MHKC public key: B[i] = R*W[i] mod Q.
type PublicKey struct {
	B []*big.Int `json:"b"`
}

// KeyPair contains both public and private keys.
type KeyPair struct {
	PublicKey  PublicKey  `json:"public_key"`
	PrivateKey PrivateKey `json:"private_key"`
}

// Ciphertext is one subset sum per plaintext symbol, in message order.
type Ciphertext []*big.Int

// Len returns the number of weights n.
func (sk *PrivateKey) Len() int { return len(sk.W) }

// Len returns the number of weights n.
func (pk *PublicKey) Len() int { return len(pk.B) }

// Sum returns sum(W).
func (sk *PrivateKey) Sum() *big.Int {
	total := new(big.Int)
	for _, w := range sk.W {
		total.Add(total, w)
	}
	return total
}

// Validate checks that the public key has at least one weight and that every
// weight is positive. Derived keys always satisfy this since 0 < R*W[i] mod Q.
func (pk *PublicKey) Validate() error {
	if pk == nil || len(pk.B) == 0 {
		return fmt.Errorf("%w: empty public key", ErrInvalidKeyParameters)
	}
	for i, b := range pk.B {
		if b == nil || b.Sign() <= 0 {
			return fmt.Errorf("%w: public weight %d is not positive", ErrInvalidKeyParameters, i)
		}
	}
	return nil
}

// Validate checks every private key invariant:
// n >= 1, W positive and superincreasing, Q > sum(W), 1 <= R < Q and gcd(R, Q) = 1.
func (sk *PrivateKey) Validate() error {
	if sk == nil || len(sk.W) == 0 {
		return fmt.Errorf("%w: key length must be at least 1", ErrInvalidKeyParameters)
	}
	if sk.Q == nil || sk.R == nil {
		return fmt.Errorf("%w: missing modulus or multiplier", ErrInvalidKeyParameters)
	}

	sum := new(big.Int)
	for i, w := range sk.W {
		if w == nil || w.Sign() <= 0 {
			return fmt.Errorf("%w: weight %d is not positive", ErrInvalidKeyParameters, i)
		}
		if i > 0 && w.Cmp(sum) <= 0 {
			return fmt.Errorf("%w: weight %d does not exceed the sum of its predecessors", ErrInvalidKeyParameters, i)
		}
		sum.Add(sum, w)
	}

	if sk.Q.Cmp(sum) <= 0 {
		return fmt.Errorf("%w: modulus must exceed the sum of the weights", ErrInvalidKeyParameters)
	}
	if sk.R.Sign() <= 0 || sk.R.Cmp(sk.Q) >= 0 {
		return fmt.Errorf("%w: multiplier must lie in [1, Q)", ErrInvalidKeyParameters)
	}
	if new(big.Int).GCD(nil, nil, sk.R, sk.Q).Cmp(big.NewInt(1)) != 0 {
		return fmt.Errorf("%w: multiplier and modulus are not coprime", ErrInvalidKeyParameters)
	}
	return nil
}
