package mhkc

import (
	"fmt"
	"math/big"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/utils"
)

// EncryptSymbols encrypts each code as the subset sum of pk.B selected by
// its n-bit encoding. Output order matches input order.
// A code that does not fit in pk.Len() bits fails with ErrEncodingOverflow.
func EncryptSymbols(pk *knapsack.PublicKey, symbols []uint64) (knapsack.Ciphertext, error) {
	if err := pk.Validate(); err != nil {
		return nil, err
	}
	if err := utils.CheckLength(len(symbols), utils.MaxMessageSize); err != nil {
		return nil, fmt.Errorf("message of %d symbols: %w", len(symbols), err)
	}

	ct := make(knapsack.Ciphertext, len(symbols))
	err := forEachSymbol(len(symbols), func(i int) error {
		c, err := encryptSymbol(pk, symbols[i])
		if err != nil {
			return &knapsack.SymbolError{Index: i, Err: err}
		}
		ct[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// encryptSymbol computes C = sum(bit[i] * B[i]).
func encryptSymbol(pk *knapsack.PublicKey, code uint64) (*big.Int, error) {
	bits, err := EncodeSymbol(code, pk.Len())
	if err != nil {
		return nil, err
	}
	c := new(big.Int)
	for i, b := range bits {
		if b == 1 {
			c.Add(c, pk.B[i])
		}
	}
	return c, nil
}

// Encrypt encrypts each byte of plaintext as one symbol.
// The key needs at least as many weights as the widest byte has bits.
func Encrypt(pk *knapsack.PublicKey, plaintext []byte) (knapsack.Ciphertext, error) {
	symbols := make([]uint64, len(plaintext))
	for i, b := range plaintext {
		symbols[i] = uint64(b)
	}
	return EncryptSymbols(pk, symbols)
}

// EncryptString encrypts each rune of s as one symbol.
func EncryptString(pk *knapsack.PublicKey, s string) (knapsack.Ciphertext, error) {
	runes := []rune(s)
	symbols := make([]uint64, len(runes))
	for i, r := range runes {
		symbols[i] = uint64(r)
	}
	return EncryptSymbols(pk, symbols)
}
