// Package test provides integration tests for the knapsack implementation.
// These tests verify cross-component behavior through the public API only.
package test

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/classical"
	"github.com/BackendStack21/knapsack-go/core"
	"github.com/BackendStack21/knapsack-go/mhkc"
	"github.com/BackendStack21/knapsack-go/utils"
)

var fixedSeed = []byte{
	0x3a, 0x91, 0x07, 0xc4, 0x5e, 0xd2, 0x68, 0xbf,
	0x14, 0xe9, 0x7d, 0x20, 0xa6, 0x53, 0xfb, 0x8c,
	0x41, 0x0e, 0xb7, 0x6a, 0xd5, 0x39, 0x82, 0xcf,
	0x1b, 0x74, 0xe0, 0x5d, 0xa8, 0x96, 0x2f, 0xc3,
}

// TestMHKCRoundtrip tests key generation, encryption, and decryption for every preset.
func TestMHKCRoundtrip(t *testing.T) {
	levels := []knapsack.KeyLevel{knapsack.KS8, knapsack.KS16, knapsack.KS32}

	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			kp, err := mhkc.GenerateKeyPair(level)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			if err := kp.PrivateKey.Validate(); err != nil {
				t.Fatalf("generated key is invalid: %v", err)
			}

			msg := []byte("The quick brown fox jumps over the lazy dog")
			ct, err := mhkc.Encrypt(&kp.PublicKey, msg)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if len(ct) != len(msg) {
				t.Errorf("ciphertext length = %d, want %d", len(ct), len(msg))
			}

			got, err := mhkc.Decrypt(&kp.PrivateKey, ct)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if !bytes.Equal(got, msg) {
				t.Errorf("Decrypt = %q, want %q", got, msg)
			}
		})
	}
}

// TestMHKCSerialization round-trips keys and ciphertexts through the binary encoding.
func TestMHKCSerialization(t *testing.T) {
	kp, err := mhkc.GenerateKeyPairFromSeed(core.KS16Params, fixedSeed)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}

	pk, err := mhkc.DeserializePublicKey(mhkc.SerializePublicKey(&kp.PublicKey))
	if err != nil {
		t.Fatalf("DeserializePublicKey failed: %v", err)
	}
	sk, err := mhkc.DeserializePrivateKey(mhkc.SerializePrivateKey(&kp.PrivateKey))
	if err != nil {
		t.Fatalf("DeserializePrivateKey failed: %v", err)
	}
	if !bytes.Equal(mhkc.Fingerprint(pk), mhkc.Fingerprint(&kp.PublicKey)) {
		t.Fatal("public key fingerprint changed after round trip")
	}

	msg := "Grüße, 世界"
	ct, err := mhkc.EncryptString(pk, msg)
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}
	ct, err = mhkc.DeserializeCiphertext(mhkc.SerializeCiphertext(ct))
	if err != nil {
		t.Fatalf("DeserializeCiphertext failed: %v", err)
	}
	got, err := mhkc.DecryptString(sk, ct)
	if err != nil {
		t.Fatalf("DecryptString failed: %v", err)
	}
	if got != msg {
		t.Errorf("DecryptString = %q, want %q", got, msg)
	}
}

// TestMHKCInvalidCiphertext checks that tampering is detected or decodes to different data.
func TestMHKCInvalidCiphertext(t *testing.T) {
	kp, err := mhkc.GenerateKeyPairFromSeed(core.KS8Params, fixedSeed)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}

	ct, err := mhkc.Encrypt(&kp.PublicKey, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	t.Run("negative value", func(t *testing.T) {
		bad := append(knapsack.Ciphertext(nil), ct...)
		bad[2] = big.NewInt(-1)
		_, err := mhkc.Decrypt(&kp.PrivateKey, bad)
		if !errors.Is(err, knapsack.ErrUnrecoverableCiphertext) {
			t.Fatalf("expected ErrUnrecoverableCiphertext, got %v", err)
		}
		var symErr *knapsack.SymbolError
		if !errors.As(err, &symErr) || symErr.Index != 2 {
			t.Fatalf("expected SymbolError at index 2, got %v", err)
		}
	})

	t.Run("truncated encoding", func(t *testing.T) {
		data := mhkc.SerializeCiphertext(ct)
		if _, err := mhkc.DeserializeCiphertext(data[:len(data)-1]); err == nil {
			t.Fatal("expected error for truncated ciphertext")
		}
	})
}

// TestDeterministicKeyGeneration verifies that a fixed seed pins the key.
func TestDeterministicKeyGeneration(t *testing.T) {
	a, err := mhkc.GenerateKeyPairFromSeed(core.KS32Params, fixedSeed)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}
	b, err := mhkc.GenerateKeyPairFromSeed(core.KS32Params, fixedSeed)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}
	if !bytes.Equal(mhkc.SerializePrivateKey(&a.PrivateKey), mhkc.SerializePrivateKey(&b.PrivateKey)) {
		t.Fatal("same seed produced different private keys")
	}

	other := append([]byte(nil), fixedSeed...)
	other[0] ^= 0xff
	c, err := mhkc.GenerateKeyPairFromSeed(core.KS32Params, other)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}
	if bytes.Equal(mhkc.Fingerprint(&a.PublicKey), mhkc.Fingerprint(&c.PublicKey)) {
		t.Fatal("different seeds produced the same public key")
	}
}

// TestXOFReaders generates working keys from every supported XOF.
func TestXOFReaders(t *testing.T) {
	for _, name := range []string{"shake128", "shake256", "blake2xb", "blake2xs"} {
		t.Run(name, func(t *testing.T) {
			id, err := utils.ParseXOF(name)
			if err != nil {
				t.Fatalf("ParseXOF failed: %v", err)
			}
			r, err := utils.NewXOFReader(id, fixedSeed)
			if err != nil {
				t.Fatalf("NewXOFReader failed: %v", err)
			}
			kp, err := mhkc.GenerateKeyPairFrom(r, core.KS8Params)
			if err != nil {
				t.Fatalf("GenerateKeyPairFrom failed: %v", err)
			}
			ct, err := mhkc.Encrypt(&kp.PublicKey, []byte{0, 1, 127, 128, 255})
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			got, err := mhkc.Decrypt(&kp.PrivateKey, ct)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if !bytes.Equal(got, []byte{0, 1, 127, 128, 255}) {
				t.Errorf("Decrypt = %v", got)
			}
		})
	}
}

// TestHybridClassical layers a Vigenère pass under MHKC, as the demo does.
func TestHybridClassical(t *testing.T) {
	kp, err := mhkc.GenerateKeyPair(knapsack.KS8)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	inner, err := classical.EncryptVigenere("ATTACKATDAWN", "LEMON")
	if err != nil {
		t.Fatalf("EncryptVigenere failed: %v", err)
	}
	ct, err := mhkc.EncryptString(&kp.PublicKey, inner)
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}
	recovered, err := mhkc.DecryptString(&kp.PrivateKey, ct)
	if err != nil {
		t.Fatalf("DecryptString failed: %v", err)
	}
	plain, err := classical.DecryptVigenere(recovered, "LEMON")
	if err != nil {
		t.Fatalf("DecryptVigenere failed: %v", err)
	}
	if plain != "ATTACKATDAWN" {
		t.Errorf("got %q, want ATTACKATDAWN", plain)
	}
}

// TestSecurityValidation_MessageSize ensures oversized messages are rejected.
func TestSecurityValidation_MessageSize(t *testing.T) {
	kp, err := mhkc.GenerateKeyPairFromSeed(core.KS8Params, fixedSeed)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}

	msg := []byte(strings.Repeat("a", utils.MaxMessageSize+1))
	if _, err := mhkc.Encrypt(&kp.PublicKey, msg); err == nil {
		t.Fatal("expected error for oversized message")
	}
}

// TestSecurityValidation_EntropySeed ensures weak seeds are rejected.
func TestSecurityValidation_EntropySeed(t *testing.T) {
	weak := [][]byte{
		make([]byte, 32),
		bytes.Repeat([]byte{0xaa}, 32),
		func() []byte {
			s := make([]byte, 32)
			for i := range s {
				s[i] = byte(i)
			}
			return s
		}(),
		fixedSeed[:16],
	}
	for i, seed := range weak {
		if _, err := mhkc.GenerateKeyPairFromSeed(core.KS8Params, seed); err == nil {
			t.Errorf("weak seed %d was accepted", i)
		}
	}
}

// TestSecurityValidation_PrivateKeyIntegrity ensures a tampered key is rejected on load.
func TestSecurityValidation_PrivateKeyIntegrity(t *testing.T) {
	kp, err := mhkc.GenerateKeyPairFromSeed(core.KS8Params, fixedSeed)
	if err != nil {
		t.Fatalf("GenerateKeyPairFromSeed failed: %v", err)
	}

	tampered := kp.PrivateKey
	tampered.W = append([]*big.Int(nil), kp.PrivateKey.W...)
	tampered.W[3] = new(big.Int).Set(tampered.W[2])

	_, err = mhkc.DeserializePrivateKey(mhkc.SerializePrivateKey(&tampered))
	if !errors.Is(err, knapsack.ErrInvalidKeyParameters) {
		t.Fatalf("expected ErrInvalidKeyParameters, got %v", err)
	}
}
