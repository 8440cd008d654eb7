// Package rangeproof adds statements of the form m >= bound about a committed value to a
// script environment.
//
// For a commitment C = G^m H^r the prover writes delta = m - bound as a sum of squares
// d_0^2 + d_1^2 + d_2^2 + d_3^2 and publishes commitments to the roots
//
//	C_i = G^(d_i) H^(r_i)
//
// together with square commitments built on top of them
//
//	S_i = C_i^(d_i) H^(t_i)
//
// where t_i = u_i - d_i*r_i for random u_i with u_0 + u_1 + u_2 + u_3 = r. Both are proven
// in the Sigma protocol, and since d_i is the same exponent in C_i and S_i, S_i commits to
// d_i^2. The verifier computes
//
//	Delta = C^1 G^(-bound)
//
// itself and checks that S_0 S_1 S_2 S_3 = Delta, so that m - bound is a sum of four squares
// and hence non-negative. There is no direct support for > and <; callers adjust the bound
// by one for strict inequalities.
package rangeproof

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
	"github.com/privacybydesign/zkscript/script"
)

// HiderSlack is the number of bits by which the hiders of the root and square commitments
// exceed the length of r.
const HiderSlack = 128

// Statement is the statement that the value committed to in Commitment = G^m H^r is at
// least Bound. Variables introduced for the statement are named after Prefix.
type Statement struct {
	Group      script.GroupID
	G, H       string
	Commitment string
	Bound      *big.Int
	Prefix     string

	// Splitter is used to split m - Bound; if nil, a FourSquaresSplitter is used.
	Splitter Splitter
}

// RootName returns the name of the commitment C_i to the i-th root.
func (s *Statement) RootName(i int) string {
	return fmt.Sprintf("%s_C%d", s.Prefix, i)
}

// SquareName returns the name of the commitment S_i to the i-th square.
func (s *Statement) SquareName(i int) string {
	return fmt.Sprintf("%s_S%d", s.Prefix, i)
}

// DeltaName returns the name of the commitment to m - Bound computed by the verifier.
func (s *Statement) DeltaName() string {
	return s.Prefix + "_delta"
}

// ExponentNames returns the names of the private exponents of the i-th root and square
// commitments: the root d_i, the hider r_i of C_i and the hider t_i of S_i.
func (s *Statement) ExponentNames(i int) (root, rootHider, squareHider string) {
	return fmt.Sprintf("%s_d%d", s.Prefix, i),
		fmt.Sprintf("%s_r%d", s.Prefix, i),
		fmt.Sprintf("%s_t%d", s.Prefix, i)
}

// Add registers the range statement in env, using the committed value m and its hider r.
// The commitment must already be present in env. An error is returned when m < Bound.
func Add(env *script.Environment, stmt *Statement, m, r *big.Int) error {
	if stmt.Prefix == "" {
		return errors.New("range statement needs a prefix")
	}
	if stmt.Bound == nil {
		return errors.New("range statement needs a bound")
	}
	delta := new(big.Int).Sub(m, stmt.Bound)
	if delta.Sign() < 0 {
		return errors.New("inequality does not hold")
	}
	splitter := stmt.Splitter
	if splitter == nil {
		splitter = &FourSquaresSplitter{}
	}
	roots, err := split(splitter, delta)
	if err != nil {
		return err
	}

	hiderBits := uint(r.BitLen()) + HiderSlack
	var shares [4]*big.Int
	rest := new(big.Int).Set(r)
	for i := 0; i < len(shares)-1; i++ {
		shares[i] = common.FastRandomBits(hiderBits)
		rest.Sub(rest, shares[i])
	}
	shares[len(shares)-1] = rest

	exponentType := script.ExponentType(stmt.Group)
	reps := make([]*script.Representation, 0, 2*len(roots))
	for i := range roots {
		rootHider := common.FastRandomBits(hiderBits)
		// t_i = u_i - d_i*r_i, so that S_i = G^(d_i^2) H^(u_i)
		squareHider := new(big.Int).Mul(roots[i], rootHider)
		squareHider.Sub(shares[i], squareHider)

		root, rh, sh := stmt.ExponentNames(i)
		if err = declareValue(env, root, exponentType, roots[i]); err != nil {
			return err
		}
		if err = declareValue(env, rh, exponentType, rootHider); err != nil {
			return err
		}
		if err = declareValue(env, sh, exponentType, squareHider); err != nil {
			return err
		}
	}
	for i := range roots {
		rep, err := stmt.rootRepresentation(i)
		if err != nil {
			return err
		}
		reps = append(reps, rep)
	}
	for i := range roots {
		rep, err := stmt.squareRepresentation(i)
		if err != nil {
			return err
		}
		reps = append(reps, rep)
	}
	for _, rep := range reps {
		if _, err = env.Commit(rep); err != nil {
			return err
		}
	}
	return AddPublic(env, stmt)
}

// AddPublic registers the verifier's part of the statement in env: the runtime
// representation of Delta and the decomposition record tying the square commitments to
// Delta. The root and square commitments must be registered separately, for example with
// Representations.
func AddPublic(env *script.Environment, stmt *Statement) error {
	if err := addDelta(env, stmt); err != nil {
		return err
	}
	var squares [4]string
	for i := range squares {
		squares[i] = stmt.SquareName(i)
	}
	return env.AddDecomposition(script.Decomposition{
		Group:    stmt.Group,
		Original: stmt.DeltaName(),
		Squares:  squares,
	})
}

// Representations returns the representations of the root commitments followed by those
// of the square commitments, in the order in which Add registers them, for a verifier
// that registers them itself. The exponents are declared as private in env and the
// commitments as public elements.
func Representations(env *script.Environment, stmt *Statement) ([]*script.Representation, error) {
	exponentType := script.ExponentType(stmt.Group)
	elementType := script.ElementType(stmt.Group)
	reps := make([]*script.Representation, 0, 8)
	for i := 0; i < 4; i++ {
		root, rh, sh := stmt.ExponentNames(i)
		for _, name := range []string{root, rh, sh} {
			if err := env.Declare(name, exponentType, true); err != nil {
				return nil, err
			}
		}
		for _, name := range []string{stmt.RootName(i), stmt.SquareName(i)} {
			if err := env.Declare(name, elementType, false); err != nil {
				return nil, err
			}
		}
		rep, err := stmt.rootRepresentation(i)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	for i := 0; i < 4; i++ {
		rep, err := stmt.squareRepresentation(i)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// rootRepresentation returns C_i = (G)^(d_i)(H)^(r_i).
func (s *Statement) rootRepresentation(i int) (*script.Representation, error) {
	root, rh, _ := s.ExponentNames(i)
	return script.NewRepresentation(s.RootName(i), s.Group,
		[]*script.Expr{script.Ident(s.G), script.Ident(s.H)},
		[]*script.Expr{script.Ident(root), script.Ident(rh)},
	)
}

// squareRepresentation returns S_i = (C_i)^(d_i)(H)^(t_i).
func (s *Statement) squareRepresentation(i int) (*script.Representation, error) {
	root, _, sh := s.ExponentNames(i)
	return script.NewRepresentation(s.SquareName(i), s.Group,
		[]*script.Expr{script.Ident(s.RootName(i)), script.Ident(s.H)},
		[]*script.Expr{script.Ident(root), script.Ident(sh)},
	)
}

func addDelta(env *script.Environment, stmt *Statement) error {
	rep, err := script.NewRepresentation(stmt.DeltaName(), stmt.Group,
		[]*script.Expr{script.Ident(stmt.Commitment), script.Ident(stmt.G)},
		[]*script.Expr{script.Int(1), script.IntValue(new(big.Int).Neg(stmt.Bound))},
	)
	if err != nil {
		return err
	}
	return env.AddRuntimeRepresentation(rep)
}

func declareValue(env *script.Environment, name string, t script.Type, v *big.Int) error {
	if err := env.Declare(name, t, true); err != nil {
		return err
	}
	return env.SetValue(name, v)
}
