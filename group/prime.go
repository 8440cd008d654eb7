package group

import (
	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
)

// PrimeOrderGroup is the subgroup of quadratic residues modulo a safe prime P,
// which has prime order (P-1)/2. Its two generators are derived deterministically
// from P and come with precomputed exponentiation tables.
type PrimeOrderGroup struct {
	label string
	p     *big.Int
	order *big.Int
	g     *big.Int
	h     *big.Int

	gTable exptable.Table
	hTable exptable.Table

	pMod     common.FastMod
	orderMod common.FastMod
}

// NewPrimeOrderGroup builds the group for the safe prime prime.
func NewPrimeOrderGroup(label string, prime *big.Int) (*PrimeOrderGroup, error) {
	if !prime.ProbablyPrime(80) {
		return nil, errors.New("modulus is not prime")
	}
	result := &PrimeOrderGroup{
		label: label,
		p:     new(big.Int).Set(prime),
		order: new(big.Int).Rsh(prime, 1),
	}
	if !result.order.ProbablyPrime(80) {
		return nil, errors.New("modulus is not a safe prime")
	}

	result.g = new(big.Int).Exp(big.NewInt(0x41424344), big.NewInt(0x45464748), result.p)
	result.h = new(big.Int).Exp(big.NewInt(0x494A4B4C), big.NewInt(0x4D4E4F50), result.p)
	if result.g.Cmp(bigONE) <= 0 || result.h.Cmp(bigONE) <= 0 || result.g.Cmp(result.h) == 0 {
		return nil, errors.New("modulus too small for deterministic generators")
	}

	result.gTable.Compute(result.g.Go(), result.p.Go(), 7)
	result.hTable.Compute(result.h.Go(), result.p.Go(), 7)

	result.pMod.Set(result.p)
	result.orderMod.Set(result.order)

	return result, nil
}

func (g *PrimeOrderGroup) Label() string {
	return g.label
}

func (g *PrimeOrderGroup) Modulus() *big.Int {
	return g.p
}

// Order returns (P-1)/2, which is always known.
func (g *PrimeOrderGroup) Order() (*big.Int, bool) {
	return g.order, true
}

func (g *PrimeOrderGroup) Generator(i int) (*big.Int, error) {
	switch i {
	case 0:
		return g.g, nil
	case 1:
		return g.h, nil
	default:
		return nil, errors.Errorf("group %s has no generator %d", g.label, i)
	}
}

func (g *PrimeOrderGroup) Generators() []*big.Int {
	return []*big.Int{g.g, g.h}
}

func (g *PrimeOrderGroup) Kind() Kind {
	return KindPrimeOrder
}

// Public returns the group itself, as it holds no secrets.
func (g *PrimeOrderGroup) Public() Group {
	return g
}

func (g *PrimeOrderGroup) Reduce(ret, x *big.Int) *big.Int {
	return g.pMod.Mod(ret, x)
}

// ReduceExponent sets ret to e modulo the group order.
func (g *PrimeOrderGroup) ReduceExponent(ret, e *big.Int) *big.Int {
	return g.orderMod.Mod(ret, e)
}

// Exp computes base^e for the two generators from their tables. Exponents are
// reduced modulo the order first, so negative exponents are allowed.
func (g *PrimeOrderGroup) Exp(ret, base, e *big.Int) bool {
	var table *exptable.Table
	switch {
	case base.Cmp(g.g) == 0:
		table = &g.gTable
	case base.Cmp(g.h) == 0:
		table = &g.hTable
	default:
		return false
	}
	var exp big.Int
	g.ReduceExponent(&exp, e)
	table.Exp(ret.Go(), exp.Go())
	return true
}
