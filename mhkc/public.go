package mhkc

import (
	"math/big"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/modular"
)

// DerivePublicKey computes B[i] = (R * W[i]) mod Q.
// The result shares no memory with sk.
func DerivePublicKey(sk *knapsack.PrivateKey) *knapsack.PublicKey {
	b := make([]*big.Int, len(sk.W))
	for i, w := range sk.W {
		b[i] = modular.MulMod(sk.R, w, sk.Q)
	}
	return &knapsack.PublicKey{B: b}
}
