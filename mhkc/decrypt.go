package mhkc

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/modular"
	"github.com/BackendStack21/knapsack-go/problems/subsetsum"
	"github.com/BackendStack21/knapsack-go/utils"
)

// DecryptSymbols recovers the symbol codes of ct.
//
// S = R^-1 mod Q is computed once. Each value C maps to C' = C*S mod Q, the
// subset sum over the private weights, which the greedy solver turns back into
// bits. A value with a nonzero greedy remainder fails with
// ErrUnrecoverableCiphertext; nothing is returned for a partially bad message.
// A key that breaks any private key invariant fails with ErrInvalidKeyParameters.
func DecryptSymbols(sk *knapsack.PrivateKey, ct knapsack.Ciphertext) ([]uint64, error) {
	if err := sk.Validate(); err != nil {
		return nil, err
	}
	if err := utils.CheckLength(len(ct), utils.MaxMessageSize); err != nil {
		return nil, fmt.Errorf("ciphertext of %d values: %w", len(ct), err)
	}

	s, err := modular.Inverse(sk.R, sk.Q)
	if err != nil {
		return nil, err
	}
	defer utils.ZeroizeBig(s)

	out := make([]uint64, len(ct))
	err = forEachSymbol(len(ct), func(i int) error {
		code, err := decryptValue(sk, s, ct[i])
		if err != nil {
			return &knapsack.SymbolError{Index: i, Err: err}
		}
		out[i] = code
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decryptValue(sk *knapsack.PrivateKey, s, c *big.Int) (uint64, error) {
	if c == nil || c.Sign() < 0 {
		return 0, fmt.Errorf("%w: ciphertext values must be non-negative", knapsack.ErrUnrecoverableCiphertext)
	}

	target := modular.MulMod(c, s, sk.Q)
	defer utils.ZeroizeBig(target)

	bits, err := subsetsum.Solve(sk.W, target)
	if err != nil {
		return 0, err
	}
	return BitVector(bits).Uint64()
}

// Decrypt recovers a byte message produced by Encrypt.
// A decoded code above 255 fails with ErrEncodingOverflow.
func Decrypt(sk *knapsack.PrivateKey, ct knapsack.Ciphertext) ([]byte, error) {
	codes, err := DecryptSymbols(sk, ct)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(codes))
	for i, code := range codes {
		if code > math.MaxUint8 {
			return nil, &knapsack.SymbolError{Index: i, Err: fmt.Errorf("%w: code %d is not a byte", knapsack.ErrEncodingOverflow, code)}
		}
		out[i] = byte(code)
	}
	return out, nil
}

// DecryptString recovers a string produced by EncryptString.
// A decoded code that is not a valid rune fails with ErrEncodingOverflow.
func DecryptString(sk *knapsack.PrivateKey, ct knapsack.Ciphertext) (string, error) {
	codes, err := DecryptSymbols(sk, ct)
	if err != nil {
		return "", err
	}
	runes := make([]rune, len(codes))
	for i, code := range codes {
		if code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
			return "", &knapsack.SymbolError{Index: i, Err: fmt.Errorf("%w: code %d is not a valid rune", knapsack.ErrEncodingOverflow, code)}
		}
		runes[i] = rune(code)
	}
	return string(runes), nil
}
