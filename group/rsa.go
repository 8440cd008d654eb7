package group

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/expcache"
	"github.com/privacybydesign/zkscript/internal/common"
	"github.com/privacybydesign/zkscript/safeprime"
)

// MinModulusBits is the smallest RSA modulus BuildRSAGroup accepts.
const MinModulusBits = 1024

// GeneratorMode selects how the first generator of an RSA group is chosen.
type GeneratorMode int

const (
	// SquareRandom squares random residues until one generates the quadratic residues.
	SquareRandom GeneratorMode = iota
	// CRTCombine combines a^(q-1) and b^(p-1) for random a, b, so that each CRT
	// component is a square by construction.
	CRTCombine
)

var (
	bigONE   = big.NewInt(1)
	bigTHREE = big.NewInt(3)
	bigFOUR  = big.NewInt(4)
)

// RSAGroup is the group of quadratic residues modulo n = pq, with p = 2p'+1 and
// q = 2q'+1 safe primes. The factors are only present on the prover side.
type RSAGroup struct {
	label string
	n     *big.Int

	// nil in public views
	p, q           *big.Int
	pPrime, qPrime *big.Int

	generators []*big.Int
	mode       GeneratorMode
	rounds     int
}

// BuildRSAGroup generates a fresh safe-prime RSA group with a modulus of modulusBits bits
// and certifies one generator of its quadratic residues, chosen according to mode.
// Primality checks use (securityParam+1)/2 Miller-Rabin rounds.
func BuildRSAGroup(label string, modulusBits, securityParam int, mode GeneratorMode) (*RSAGroup, error) {
	if modulusBits < MinModulusBits {
		return nil, NewSecurityError("modulus of %d bits is below the minimum of %d", modulusBits, MinModulusBits)
	}
	return buildRSAGroup(context.Background(), label, modulusBits, securityParam, mode)
}

func buildRSAGroup(ctx context.Context, label string, modulusBits, securityParam int, mode GeneratorMode) (*RSAGroup, error) {
	if modulusBits%2 != 0 {
		return nil, errors.Errorf("modulus length %d is odd", modulusBits)
	}
	rounds := millerRabinRounds(securityParam)

	Logger.Debugf("generating %d-bit safe primes for %s", modulusBits/2, label)
	p, q, err := generateSafePrimePair(ctx, modulusBits, rounds)
	if err != nil {
		return nil, err
	}

	g := newRSAGroup(label, p, q, mode, rounds)
	gen, err := g.selectGenerator()
	if err != nil {
		return nil, err
	}
	g.generators = append(g.generators, gen)

	if err = g.checkInvariants(modulusBits); err != nil {
		return nil, err
	}
	Logger.Debugf("built %d-bit group %s", g.n.BitLen(), label)
	return g, nil
}

// NewRSAGroup rebuilds a prover-side group from its known factors. If no generators
// are given, one is selected by squaring random residues.
func NewRSAGroup(label string, p, q *big.Int, generators ...*big.Int) (*RSAGroup, error) {
	g := newRSAGroup(label, p, q, SquareRandom, safeprime.DefaultRounds)
	if err := g.checkInvariants(g.n.BitLen()); err != nil {
		return nil, err
	}
	for _, x := range generators {
		if !g.IsGenerator(x) {
			return nil, errors.Errorf("%v does not generate the quadratic residues of %s", x, label)
		}
		g.generators = append(g.generators, new(big.Int).Set(x))
	}
	if len(g.generators) == 0 {
		gen, err := g.selectGenerator()
		if err != nil {
			return nil, err
		}
		g.generators = append(g.generators, gen)
	}
	return g, nil
}

// NewPublicRSAGroup builds the verifier view of a group of which only the modulus is known.
func NewPublicRSAGroup(label string, n *big.Int, generators ...*big.Int) (*RSAGroup, error) {
	g := &RSAGroup{label: label, n: new(big.Int).Set(n), rounds: safeprime.DefaultRounds}
	for _, x := range generators {
		if x.Sign() <= 0 || x.Cmp(n) >= 0 || !common.IsUnit(x, n) {
			return nil, errors.Errorf("%v is not a unit modulo the modulus of %s", x, label)
		}
		g.generators = append(g.generators, new(big.Int).Set(x))
	}
	return g, nil
}

func newRSAGroup(label string, p, q *big.Int, mode GeneratorMode, rounds int) *RSAGroup {
	return &RSAGroup{
		label:  label,
		n:      new(big.Int).Mul(p, q),
		p:      new(big.Int).Set(p),
		q:      new(big.Int).Set(q),
		pPrime: new(big.Int).Rsh(p, 1),
		qPrime: new(big.Int).Rsh(q, 1),
		mode:   mode,
		rounds: rounds,
	}
}

func millerRabinRounds(securityParam int) int {
	rounds := (securityParam + 1) / 2
	if rounds < 1 {
		rounds = 1
	}
	return rounds
}

// generateSafePrimePair draws concurrently generated safe primes of modulusBits/2 bits
// until two distinct ones have a product of exactly modulusBits bits.
func generateSafePrimePair(ctx context.Context, modulusBits, rounds int) (*big.Int, *big.Int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	safeprimes := make([]*big.Int, 0, 10)
	n := new(big.Int)
	ints, errs := safeprime.GenerateConcurrent(ctx, modulusBits/2, rounds)
	for {
		select {
		case p := <-ints:
			// the smallest safe primes are 5 = 1 (mod 4) and 7, which cannot make up a valid group
			if p.Cmp(big.NewInt(7)) <= 0 {
				continue
			}
			for _, q := range safeprimes {
				if p.Cmp(q) != 0 && n.Mul(p, q).BitLen() == modulusBits {
					return p, q, nil
				}
			}
			safeprimes = append(safeprimes, p)
		case err := <-errs:
			return nil, nil, err
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
}

func (g *RSAGroup) hasFactors() bool {
	return g.p != nil && g.q != nil
}

// selectGenerator picks a generator of the quadratic residues according to the group's mode.
func (g *RSAGroup) selectGenerator() (*big.Int, error) {
	if !g.hasFactors() {
		return nil, NewSecurityError("generators of %s can only be selected with known factors", g.label)
	}
	pMinOne := new(big.Int).Sub(g.p, bigONE)
	qMinOne := new(big.Int).Sub(g.q, bigONE)
	for {
		var x *big.Int
		switch g.mode {
		case SquareRandom:
			x = common.RandomQR(g.n)
		case CRTCombine:
			a, b := common.FastRandomBigInt(g.n), common.FastRandomBigInt(g.n)
			var err error
			x, err = expcache.MultiExp([]*big.Int{a, b}, []*big.Int{qMinOne, pMinOne}, g.n)
			if err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("unknown generator mode %d", g.mode)
		}
		if common.IsUnit(x, g.n) && g.IsGenerator(x) {
			return x, nil
		}
	}
}

// IsGenerator reports whether x generates the quadratic residues modulo n: x must be a
// quadratic residue and a unit, x^2 != 1, and x must lie outside the subgroups of order
// p' and q'. The check needs the factors, and fails on public views.
func (g *RSAGroup) IsGenerator(x *big.Int) bool {
	if !g.hasFactors() {
		return false
	}
	if x.Sign() <= 0 || x.Cmp(g.n) >= 0 || !common.IsUnit(x, g.n) {
		return false
	}
	if big.Jacobi(x, g.p) != 1 || big.Jacobi(x, g.q) != 1 {
		return false
	}
	tmp := new(big.Int)
	if tmp.Mul(x, x).Mod(tmp, g.n).Cmp(bigONE) == 0 {
		return false
	}
	if tmp.Exp(x, g.pPrime, g.n).Cmp(bigONE) == 0 {
		return false
	}
	if tmp.Exp(x, g.qPrime, g.n).Cmp(bigONE) == 0 {
		return false
	}
	return true
}

// checkInvariants verifies the structure of a group built from known factors.
func (g *RSAGroup) checkInvariants(modulusBits int) error {
	switch {
	case g.n.BitLen() != modulusBits:
		return invariantError("modulus has %d bits instead of %d", g.n.BitLen(), modulusBits)
	case new(big.Int).Mul(g.p, g.q).Cmp(g.n) != 0:
		return invariantError("modulus is not the product of its factors")
	case g.p.Cmp(g.q) == 0:
		return invariantError("factors are equal")
	case !g.p.ProbablyPrime(g.rounds) || !g.q.ProbablyPrime(g.rounds):
		return invariantError("factors are not prime")
	case !g.pPrime.ProbablyPrime(g.rounds) || !g.qPrime.ProbablyPrime(g.rounds):
		return invariantError("factors are not safe primes")
	case new(big.Int).Mod(g.p, bigFOUR).Cmp(bigTHREE) != 0 || new(big.Int).Mod(g.q, bigFOUR).Cmp(bigTHREE) != 0:
		return invariantError("factors are not 3 mod 4")
	case g.p.BitLen() != modulusBits/2 || g.q.BitLen() != modulusBits/2:
		return invariantError("factors do not have %d bits", modulusBits/2)
	}
	for i, x := range g.generators {
		if !g.IsGenerator(x) {
			return invariantError("generator %d does not generate the quadratic residues", i)
		}
	}
	return nil
}

func (g *RSAGroup) Label() string {
	return g.label
}

func (g *RSAGroup) Modulus() *big.Int {
	return g.n
}

// Order returns (p-1)(q-1), which is only available with known factors.
func (g *RSAGroup) Order() (*big.Int, bool) {
	if !g.hasFactors() {
		return nil, false
	}
	order := new(big.Int).Sub(g.p, bigONE)
	return order.Mul(order, new(big.Int).Sub(g.q, bigONE)), true
}

// Factors returns p and q, if known.
func (g *RSAGroup) Factors() (*big.Int, *big.Int, bool) {
	if !g.hasFactors() {
		return nil, nil, false
	}
	return g.p, g.q, true
}

func (g *RSAGroup) Generator(i int) (*big.Int, error) {
	if i < 0 || i >= len(g.generators) {
		return nil, errors.Errorf("group %s has no generator %d", g.label, i)
	}
	return g.generators[i], nil
}

func (g *RSAGroup) Generators() []*big.Int {
	return g.generators
}

// AddGenerator certifies and appends a fresh generator.
func (g *RSAGroup) AddGenerator() (*big.Int, error) {
	x, err := g.selectGenerator()
	if err != nil {
		return nil, err
	}
	g.generators = append(g.generators, x)
	return x, nil
}

func (g *RSAGroup) Kind() Kind {
	return KindRSA
}

// Public returns a copy of the group without its factors.
func (g *RSAGroup) Public() Group {
	return &RSAGroup{
		label:      g.label,
		n:          g.n,
		generators: append([]*big.Int(nil), g.generators...),
		mode:       g.mode,
		rounds:     g.rounds,
	}
}

func (g *RSAGroup) Reduce(ret, x *big.Int) *big.Int {
	return ret.Mod(x, g.n)
}

func (g *RSAGroup) Exp(_, _, _ *big.Int) bool {
	return false
}
