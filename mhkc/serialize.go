package mhkc

import (
	"encoding/binary"
	"fmt"
	"math/big"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/utils"
)

// DomainFingerprint separates public key fingerprints from other hashes.
const DomainFingerprint = "knapsack-pk-fingerprint-v1"

// Binary layout, all lengths little-endian uint32:
//
//	public key:  count | count x integer
//	private key: count | count x integer (W) | integer (Q) | integer (R)
//	ciphertext:  count | count x integer
//	integer:     byte length | big-endian magnitude
//
// The top bit of an integer's length field marks a negative value. Valid keys
// and ciphertexts never set it, but it keeps a negated value from encoding
// (and fingerprinting) the same as its magnitude. A nil integer encodes as 0.

const negativeFlag = 1 << 31

func appendInt(buf []byte, x *big.Int) []byte {
	if x == nil {
		return binary.LittleEndian.AppendUint32(buf, 0)
	}
	mag := x.Bytes()
	size := uint32(len(mag))
	if x.Sign() < 0 {
		size |= negativeFlag
	}
	buf = binary.LittleEndian.AppendUint32(buf, size)
	return append(buf, mag...)
}

func appendInts(buf []byte, xs []*big.Int) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(xs)))
	for _, x := range xs {
		buf = appendInt(buf, x)
	}
	return buf
}

func readInt(data []byte, offset int) (*big.Int, int, error) {
	if err := utils.ValidateSliceAccess(data, offset, 4); err != nil {
		return nil, offset, fmt.Errorf("truncated length field: %w", err)
	}
	raw := binary.LittleEndian.Uint32(data[offset:])
	negative := raw&negativeFlag != 0
	size := int(raw &^ negativeFlag)
	if size > utils.MaxIntegerBytes {
		return nil, offset, utils.ErrExceedsLimit
	}
	offset += 4
	if err := utils.ValidateSliceAccess(data, offset, size); err != nil {
		return nil, offset, err
	}
	x := new(big.Int).SetBytes(data[offset : offset+size])
	if negative {
		x.Neg(x)
	}
	return x, offset + size, nil
}

func readInts(data []byte, offset, maxCount int) ([]*big.Int, int, error) {
	count, offset, err := utils.SafeReadLength(data, offset, maxCount)
	if err != nil {
		return nil, offset, err
	}
	// Every integer needs at least its 4-byte length field.
	if count > (len(data)-offset)/4 {
		return nil, offset, fmt.Errorf("count %d exceeds remaining data", count)
	}
	out := make([]*big.Int, count)
	for i := range out {
		out[i], offset, err = readInt(data, offset)
		if err != nil {
			return nil, offset, fmt.Errorf("integer %d: %w", i, err)
		}
	}
	return out, offset, nil
}

// SerializePublicKey serializes a public key.
func SerializePublicKey(pk *knapsack.PublicKey) []byte {
	return appendInts(nil, pk.B)
}

// DeserializePublicKey deserializes a public key.
func DeserializePublicKey(data []byte) (*knapsack.PublicKey, error) {
	if len(data) > utils.MaxPayloadLength {
		return nil, fmt.Errorf("%w: public key exceeds payload limit", knapsack.ErrMalformedKey)
	}
	b, offset, err := readInts(data, 0, utils.MaxKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %v", knapsack.ErrMalformedKey, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: public key has no weights", knapsack.ErrMalformedKey)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: public key has %d trailing bytes", knapsack.ErrMalformedKey, len(data)-offset)
	}
	pk := &knapsack.PublicKey{B: b}
	if err := pk.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", knapsack.ErrMalformedKey, err)
	}
	return pk, nil
}

// SerializePrivateKey serializes a private key.
func SerializePrivateKey(sk *knapsack.PrivateKey) []byte {
	buf := appendInts(nil, sk.W)
	buf = appendInt(buf, sk.Q)
	return appendInt(buf, sk.R)
}

// DeserializePrivateKey deserializes and validates a private key.
func DeserializePrivateKey(data []byte) (*knapsack.PrivateKey, error) {
	if len(data) > utils.MaxPayloadLength {
		return nil, fmt.Errorf("%w: private key exceeds payload limit", knapsack.ErrMalformedKey)
	}
	w, offset, err := readInts(data, 0, utils.MaxKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: private key weights: %v", knapsack.ErrMalformedKey, err)
	}
	q, offset, err := readInt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: private key modulus: %v", knapsack.ErrMalformedKey, err)
	}
	r, offset, err := readInt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: private key multiplier: %v", knapsack.ErrMalformedKey, err)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: private key has %d trailing bytes", knapsack.ErrMalformedKey, len(data)-offset)
	}

	sk := &knapsack.PrivateKey{W: w, Q: q, R: r}
	if err := sk.Validate(); err != nil {
		return nil, err
	}
	return sk, nil
}

// SerializeCiphertext serializes a ciphertext.
func SerializeCiphertext(ct knapsack.Ciphertext) []byte {
	return appendInts(nil, ct)
}

// DeserializeCiphertext deserializes a ciphertext.
func DeserializeCiphertext(data []byte) (knapsack.Ciphertext, error) {
	if len(data) > utils.MaxPayloadLength {
		return nil, fmt.Errorf("%w: ciphertext exceeds payload limit", knapsack.ErrMalformedKey)
	}
	values, offset, err := readInts(data, 0, utils.MaxMessageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", knapsack.ErrMalformedKey, err)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: ciphertext has %d trailing bytes", knapsack.ErrMalformedKey, len(data)-offset)
	}
	return knapsack.Ciphertext(values), nil
}

// Fingerprint returns a domain-separated SHA3-256 hash of the serialized public key.
func Fingerprint(pk *knapsack.PublicKey) []byte {
	return utils.HashWithDomain(DomainFingerprint, SerializePublicKey(pk))
}
