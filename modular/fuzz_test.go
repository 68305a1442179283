package modular

import (
	"math/big"
	"testing"
)

// FuzzInverse checks the inverse property for arbitrary operands.
func FuzzInverse(f *testing.F) {
	f.Add(int64(5), int64(17))
	f.Add(int64(6), int64(9))
	f.Add(int64(-1), int64(2))
	f.Add(int64(0), int64(0))

	f.Fuzz(func(t *testing.T, r, m int64) {
		rb, mb := big.NewInt(r), big.NewInt(m)
		s, err := Inverse(rb, mb)
		if err != nil {
			return
		}
		if MulMod(rb, s, mb).Cmp(big.NewInt(1)) != 0 {
			t.Fatalf("(%d * %s) mod %d != 1", r, s, m)
		}
	})
}
