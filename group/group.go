// Package group contains the algebraic domains proofs are carried out in: RSA
// quadratic-residue groups built from safe primes, and prime-order subgroups of
// safe-prime fields. Groups live in a Table and are addressed by their ID.
package group

import (
	"github.com/privacybydesign/zkscript/big"
)

// Kind distinguishes groups of known prime order from RSA-type groups.
type Kind int

const (
	KindPrimeOrder Kind = iota
	KindRSA
)

func (k Kind) String() string {
	switch k {
	case KindPrimeOrder:
		return "prime-order"
	case KindRSA:
		return "rsa"
	default:
		return "unknown"
	}
}

// ID identifies a group in a Table.
type ID string

// Group is the algebraic domain of a proof.
type Group interface {
	Modulus() *big.Int
	// Order returns the group order, and false when it is unknown to the caller.
	Order() (*big.Int, bool)
	Generator(i int) (*big.Int, error)
	Generators() []*big.Int
	Kind() Kind
	// Public returns the view of the group that may be handed to a verifier.
	Public() Group

	// Reduce sets ret to x modulo the group modulus.
	Reduce(ret, x *big.Int) *big.Int
	// Exp sets ret to base^e from precomputed tables, reporting false if
	// the group keeps no table for base.
	Exp(ret, base, e *big.Int) bool
}
