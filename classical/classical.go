// Package classical implements the Caesar and Vigenère substitution ciphers
// over the uppercase Latin alphabet. Characters outside A-Z pass through
// unchanged.
package classical

import (
	"fmt"
	"strings"

	knapsack "github.com/BackendStack21/knapsack-go"
)

const alphabetSize = 26

// shift moves ch by k positions around A-Z. Other characters are returned as is.
func shift(ch rune, k int) rune {
	if ch < 'A' || ch > 'Z' {
		return ch
	}
	k %= alphabetSize
	if k < 0 {
		k += alphabetSize
	}
	return 'A' + (ch-'A'+rune(k))%alphabetSize
}

// EncryptCaesar shifts every uppercase letter of plaintext by offset.
func EncryptCaesar(plaintext string, offset int) string {
	var sb strings.Builder
	sb.Grow(len(plaintext))
	for _, ch := range plaintext {
		sb.WriteRune(shift(ch, offset))
	}
	return sb.String()
}

// DecryptCaesar reverses EncryptCaesar.
func DecryptCaesar(ciphertext string, offset int) string {
	return EncryptCaesar(ciphertext, -(offset % alphabetSize))
}

// EncryptVigenere shifts the i-th character of plaintext by keyword[i mod len(keyword)] - 'A'.
// Every character consumes a keyword letter, including ones that pass through.
func EncryptVigenere(plaintext, keyword string) (string, error) {
	return vigenere(plaintext, keyword, 1)
}

// DecryptVigenere reverses EncryptVigenere.
func DecryptVigenere(ciphertext, keyword string) (string, error) {
	return vigenere(ciphertext, keyword, -1)
}

func vigenere(text, keyword string, direction int) (string, error) {
	if err := ValidateKeyword(keyword); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(text))
	i := 0
	for _, ch := range text {
		k := int(keyword[i%len(keyword)] - 'A')
		sb.WriteRune(shift(ch, direction*k))
		i++
	}
	return sb.String(), nil
}

// ValidateKeyword checks that keyword is non-empty and uppercase A-Z only.
func ValidateKeyword(keyword string) error {
	if keyword == "" {
		return fmt.Errorf("%w: keyword cannot be empty", knapsack.ErrInvalidKeyword)
	}
	for i := 0; i < len(keyword); i++ {
		if keyword[i] < 'A' || keyword[i] > 'Z' {
			return fmt.Errorf("%w: character %q at %d is not in A-Z", knapsack.ErrInvalidKeyword, keyword[i], i)
		}
	}
	return nil
}
