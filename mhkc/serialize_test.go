package mhkc

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	knapsack "github.com/BackendStack21/knapsack-go"
)

func TestSerializeDeserializeKeys(t *testing.T) {
	for _, n := range []int{1, 8, 32, 200} {
		kp := seededKeyPair(t, n, byte(n))

		pkBytes := SerializePublicKey(&kp.PublicKey)
		pk, err := DeserializePublicKey(pkBytes)
		require.NoError(t, err)
		require.Equal(t, pkBytes, SerializePublicKey(pk))

		skBytes := SerializePrivateKey(&kp.PrivateKey)
		sk, err := DeserializePrivateKey(skBytes)
		require.NoError(t, err)
		require.Equal(t, skBytes, SerializePrivateKey(sk))

		// Keys survive the trip well enough to decrypt.
		ct, err := EncryptSymbols(pk, []uint64{0, 1})
		require.NoError(t, err)
		ctBytes := SerializeCiphertext(ct)
		ct2, err := DeserializeCiphertext(ctBytes)
		require.NoError(t, err)
		codes, err := DecryptSymbols(sk, ct2)
		require.NoError(t, err)
		require.Equal(t, []uint64{0, 1}, codes)
	}
}

func TestDeserializePublicKeyErrors(t *testing.T) {
	kp := seededKeyPair(t, 8, 1)
	good := SerializePublicKey(&kp.PublicKey)

	tests := map[string][]byte{
		"empty":      {},
		"short":      {1, 2, 3},
		"no weights": {0, 0, 0, 0},
		"truncated":  good[:len(good)-1],
		"trailing":   append(append([]byte{}, good...), 0),
	}

	huge := make([]byte, 8)
	binary.LittleEndian.PutUint32(huge, 1000000)
	tests["count over limit"] = huge

	bigInt := make([]byte, 8)
	binary.LittleEndian.PutUint32(bigInt, 1)
	binary.LittleEndian.PutUint32(bigInt[4:], 1<<20)
	tests["integer over limit"] = bigInt

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DeserializePublicKey(data)
			require.ErrorIs(t, err, knapsack.ErrMalformedKey)
		})
	}
}

func TestDeserializePrivateKeyErrors(t *testing.T) {
	kp := seededKeyPair(t, 8, 2)
	good := SerializePrivateKey(&kp.PrivateKey)

	_, err := DeserializePrivateKey(good[:len(good)-2])
	require.ErrorIs(t, err, knapsack.ErrMalformedKey)

	_, err = DeserializePrivateKey(append(append([]byte{}, good...), 9))
	require.ErrorIs(t, err, knapsack.ErrMalformedKey)

	// Well formed but not superincreasing.
	bad := &knapsack.PrivateKey{W: ints(3, 2), Q: big.NewInt(11), R: big.NewInt(3)}
	_, err = DeserializePrivateKey(SerializePrivateKey(bad))
	require.ErrorIs(t, err, knapsack.ErrInvalidKeyParameters)
}

func TestDeserializeCiphertextErrors(t *testing.T) {
	_, err := DeserializeCiphertext([]byte{2, 0, 0, 0, 1, 0, 0, 0, 7})
	require.ErrorIs(t, err, knapsack.ErrMalformedKey)

	ct, err := DeserializeCiphertext([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	require.Empty(t, ct)
}

func TestFingerprint(t *testing.T) {
	kp1 := seededKeyPair(t, 8, 1)
	kp2 := seededKeyPair(t, 8, 2)
	require.Len(t, Fingerprint(&kp1.PublicKey), 32)
	require.NotEqual(t, Fingerprint(&kp1.PublicKey), Fingerprint(&kp2.PublicKey))
}

func TestKeyPairJSON(t *testing.T) {
	kp := seededKeyPair(t, 16, 4)
	data, err := json.Marshal(kp)
	require.NoError(t, err)

	var decoded knapsack.KeyPair
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.PrivateKey.Validate())
	require.Equal(t, SerializePrivateKey(&kp.PrivateKey), SerializePrivateKey(&decoded.PrivateKey))
	require.Equal(t, SerializePublicKey(&kp.PublicKey), SerializePublicKey(&decoded.PublicKey))

	// Integers are written as plain decimal numbers.
	require.Contains(t, string(data), `"q":`+kp.PrivateKey.Q.String())
}

func TestSerializeKeepsSign(t *testing.T) {
	kp := seededKeyPair(t, 8, 5)
	negated := &knapsack.PublicKey{B: make([]*big.Int, kp.PublicKey.Len())}
	for i, b := range kp.PublicKey.B {
		negated.B[i] = new(big.Int).Neg(b)
	}
	require.NotEqual(t, SerializePublicKey(&kp.PublicKey), SerializePublicKey(negated))
	require.NotEqual(t, Fingerprint(&kp.PublicKey), Fingerprint(negated))

	// The sign survives a ciphertext round trip, and decryption rejects it.
	ct, err := DeserializeCiphertext(SerializeCiphertext(knapsack.Ciphertext{big.NewInt(-58)}))
	require.NoError(t, err)
	require.Equal(t, int64(-58), ct[0].Int64())
	_, err = DecryptSymbols(&kp.PrivateKey, ct)
	require.ErrorIs(t, err, knapsack.ErrUnrecoverableCiphertext)

	// Nil integers encode as zero instead of panicking.
	require.NotPanics(t, func() {
		_ = Fingerprint(&knapsack.PublicKey{B: []*big.Int{nil, big.NewInt(5)}})
	})
}

func TestDeserializePublicKeyRejectsNonPositiveWeights(t *testing.T) {
	keys := map[string]*knapsack.PublicKey{
		"negative": {B: []*big.Int{big.NewInt(-10), big.NewInt(-15), big.NewInt(-30), big.NewInt(-18)}},
		"zero":     {B: []*big.Int{big.NewInt(10), big.NewInt(0)}},
		"nil":      {B: []*big.Int{nil, big.NewInt(5)}},
	}
	for name, pk := range keys {
		t.Run(name, func(t *testing.T) {
			_, err := DeserializePublicKey(SerializePublicKey(pk))
			require.ErrorIs(t, err, knapsack.ErrMalformedKey)
			require.ErrorIs(t, err, knapsack.ErrInvalidKeyParameters)
		})
	}
}
