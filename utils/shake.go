package utils

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/xof"
	"golang.org/x/crypto/sha3"
)

// DomainSeededReader separates key generation streams from any other use of a seed.
const DomainSeededReader = "knapsack-keygen-stream-v1"

// NewSeededReader returns an endless SHAKE256 stream keyed by seed.
// The same seed always yields the same bytes, which makes key generation
// reproducible when the stream is passed as the random source.
func NewSeededReader(seed []byte) (io.Reader, error) {
	if err := ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	h := sha3.NewShake256()
	writeDomain(h, DomainSeededReader, seed)
	return h, nil
}

// NewXOFReader is NewSeededReader for any extendable output function circl provides.
func NewXOFReader(id xof.ID, seed []byte) (io.Reader, error) {
	if err := ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	if !validXOF(id) {
		return nil, fmt.Errorf("unsupported XOF id %d", id)
	}
	h := id.New()
	writeDomain(h, DomainSeededReader, seed)
	return h, nil
}

// ParseXOF maps a name such as "shake256" or "blake2xb" to a circl XOF id.
func ParseXOF(name string) (xof.ID, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shake128":
		return xof.SHAKE128, nil
	case "shake256", "":
		return xof.SHAKE256, nil
	case "blake2xb":
		return xof.BLAKE2XB, nil
	case "blake2xs":
		return xof.BLAKE2XS, nil
	default:
		return 0, errors.New("unknown XOF: " + name)
	}
}

func validXOF(id xof.ID) bool {
	switch id {
	case xof.SHAKE128, xof.SHAKE256, xof.BLAKE2XB, xof.BLAKE2XS:
		return true
	}
	return false
}

// writeDomain prefixes data with the length of the domain string and the domain itself.
// Panics if domain is longer than 255 bytes.
func writeDomain(w io.Writer, domain string, data []byte) {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	_, _ = w.Write([]byte{byte(len(domainBytes))})
	_, _ = w.Write(domainBytes)
	_, _ = w.Write(data)
}

// HashWithDomain computes a domain-separated SHA3-256 hash.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	h := sha3.New256()
	writeDomain(h, domain, data)
	return h.Sum(nil)
}
