// Package modular provides the modular arithmetic used by MHKC decryption.
package modular

import (
	"fmt"
	"math/big"

	knapsack "github.com/BackendStack21/knapsack-go"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Inverse returns s in [0, m) with (r*s) mod m = 1.
//
// It runs the extended Euclidean algorithm, carrying the remainder sequence
// seeded (r, m) alongside the coefficient sequence seeded (1, 0). Every
// remainder is congruent to its coefficient times r, so the coefficient that
// pairs with the last nonzero remainder is the inverse when that remainder is 1.
// Fails with ErrInvalidModulus when m < 2 or gcd(r, m) != 1.
func Inverse(r, m *big.Int) (*big.Int, error) {
	if m == nil || r == nil || m.Cmp(two) < 0 {
		return nil, fmt.Errorf("%w: modulus must be at least 2", knapsack.ErrInvalidModulus)
	}

	// Previous and current entries of both sequences.
	rPrev := new(big.Int).Mod(r, m)
	rCur := new(big.Int).Set(m)
	sPrev := big.NewInt(1)
	sCur := big.NewInt(0)

	q := new(big.Int)
	tmp := new(big.Int)
	for rCur.Sign() != 0 {
		q.Quo(rPrev, rCur)

		// r_next = r_prev - q*r_cur
		tmp.Mul(q, rCur)
		rNext := new(big.Int).Sub(rPrev, tmp)
		// s_next = s_prev - q*s_cur
		tmp.Mul(q, sCur)
		sNext := new(big.Int).Sub(sPrev, tmp)

		rPrev, rCur = rCur, rNext
		sPrev, sCur = sCur, sNext
	}

	// rPrev is now gcd(r, m) and sPrev its coefficient.
	if rPrev.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: gcd(%s, %s) = %s", knapsack.ErrInvalidModulus, r, m, rPrev)
	}
	return sPrev.Mod(sPrev, m), nil
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	return new(big.Int).GCD(nil, nil, x, y)
}

// Coprime reports whether gcd(a, b) = 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// MulMod returns (a*b) mod m in [0, m).
func MulMod(a, b, m *big.Int) *big.Int {
	z := new(big.Int).Mul(a, b)
	return z.Mod(z, m)
}
