package knapsack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModulus is returned when a modular inverse is requested for
	// operands that are not coprime, or for a modulus smaller than 2.
	ErrInvalidModulus = errors.New("knapsack: invalid modulus")

	// ErrEncodingOverflow is returned when a symbol code does not fit in the
	// key's bit width, or a decoded code does not fit the requested symbol type.
	ErrEncodingOverflow = errors.New("knapsack: encoding overflow")

	// ErrUnrecoverableCiphertext is returned when greedy reconstruction leaves a
	// nonzero remainder. This means the ciphertext is corrupted or was produced
	// with a different key.
	ErrUnrecoverableCiphertext = errors.New("knapsack: unrecoverable ciphertext")

	// ErrInvalidKeyParameters is returned when key parameters violate the
	// scheme's invariants.
	ErrInvalidKeyParameters = errors.New("knapsack: invalid key parameters")

	// ErrInvalidKeyword is returned for an empty or non A-Z Vigenère keyword.
	ErrInvalidKeyword = errors.New("knapsack: invalid keyword")

	// ErrMalformedKey is returned when serialized key or ciphertext data
	// cannot be parsed.
	ErrMalformedKey = errors.New("knapsack: malformed data")
)

// SymbolError reports which symbol of a message failed.
type SymbolError struct {
	Index int   // Position of the symbol in the message
	Err   error // Underlying error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %d: %v", e.Index, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}
