// Package knapsack implements the Merkle-Hellman Knapsack Cryptosystem (MHKC)
// together with the Caesar and Vigenère classical ciphers.
//
// MHKC is a trapdoor public-key scheme built on the subset-sum problem. The
// private key is a superincreasing weight sequence W with a modulus Q and a
// multiplier R; the public key is B[i] = R*W[i] mod Q. Each plaintext symbol is
// encrypted as the sum of the public weights selected by its bits.
//
// WARNING: Merkle-Hellman was broken by Shamir in 1982. This package is a
// teaching implementation. DO NOT use it to protect real data.
package knapsack

// Version of the knapsack Go implementation.
const Version = "1.0.0"

// API summary:
//
// Merkle-Hellman Knapsack Cryptosystem:
//   - mhkc.GeneratePrivateKey(n) - Generate a private key with n weights
//   - mhkc.GeneratePrivateKeyFrom(rand, params) - Generate from an injected random source
//   - mhkc.DerivePublicKey(sk) - Derive the public key B = R*W mod Q
//   - mhkc.EncryptSymbols(pk, symbols) - Encrypt symbol codes
//   - mhkc.DecryptSymbols(sk, ct) - Decrypt symbol codes
//   - mhkc.Encrypt / mhkc.Decrypt - byte-oriented wrappers
//   - mhkc.EncryptString / mhkc.DecryptString - rune-oriented wrappers
//
// Classical ciphers:
//   - classical.EncryptCaesar / classical.DecryptCaesar
//   - classical.EncryptVigenere / classical.DecryptVigenere
//
// Parameters:
//   - core.GetParams(level) - Get parameters for a key length preset
//   - KS8, KS16, KS32 - 8, 16 and 32 weight keys
