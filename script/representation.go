package script

import (
	"strings"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/expcache"
)

// opRepresentation tags representation keys apart from expression keys.
const opRepresentation Op = 0x100

// Representation states that the commitment named left equals the product of
// bases[i]^exponents[i] modulo the modulus of its group.
type Representation struct {
	left      string
	group     GroupID
	bases     []*Expr
	exponents []*Expr

	key  Key
	text string
}

func NewRepresentation(left string, g GroupID, bases, exponents []*Expr) (*Representation, error) {
	if len(bases) == 0 || len(bases) != len(exponents) {
		return nil, typeError("representation of %s needs as many bases as exponents, and at least one; got %d and %d",
			left, len(bases), len(exponents))
	}
	rep := &Representation{
		left:      left,
		group:     g,
		bases:     append([]*Expr(nil), bases...),
		exponents: append([]*Expr(nil), exponents...),
	}

	var sb strings.Builder
	sb.WriteString(left)
	sb.WriteString(" = ")
	for i := range bases {
		sb.WriteString("(")
		sb.WriteString(bases[i].String())
		sb.WriteString(")^(")
		sb.WriteString(exponents[i].String())
		sb.WriteString(")")
	}
	sb.WriteString(" in ")
	sb.WriteString(string(g))
	rep.text = sb.String()

	children := make([]*Expr, 0, 2*len(bases))
	children = append(children, bases...)
	children = append(children, exponents...)
	payload := appendUvarint([]byte(nil), uint64(len(left)))
	payload = append(payload, left...)
	payload = append(payload, g...)
	rep.key = structuralKey(opRepresentation, payload, children...)
	return rep, nil
}

// String renders the representation as "left = (b0)^(e0)(b1)^(e1)... in group".
func (rep *Representation) String() string {
	return rep.text
}

func (rep *Representation) Key() Key {
	return rep.key
}

func (rep *Representation) Left() string {
	return rep.left
}

func (rep *Representation) Group() GroupID {
	return rep.group
}

func (rep *Representation) Bases() []*Expr {
	return rep.bases
}

func (rep *Representation) Exponents() []*Expr {
	return rep.exponents
}

// TypeCheck verifies that every base is an element of the representation's group and
// that no exponent is an element.
func (rep *Representation) TypeCheck(env *Environment) error {
	if _, err := env.Group(rep.group); err != nil {
		return err
	}
	for _, b := range rep.bases {
		t, err := b.InferType(env)
		if err != nil {
			return err
		}
		if t != ElementType(rep.group) {
			return typeError("base %v of %s is %v, not an element of %s", b, rep.left, t, rep.group)
		}
	}
	for _, x := range rep.exponents {
		t, err := x.InferType(env)
		if err != nil {
			return err
		}
		if t.Kind == Element {
			return typeError("exponent %v of %s is an element", x, rep.left)
		}
	}
	return nil
}

// Value computes the product of the bases raised to their exponents.
func (rep *Representation) Value(env *Environment) (*big.Int, error) {
	exps := make([]*big.Int, len(rep.exponents))
	for i, x := range rep.exponents {
		v, err := x.Eval(env)
		if err != nil {
			return nil, err
		}
		exps[i] = v
	}
	return rep.ValueWith(env, exps)
}

// ValueWith computes the product of the bases raised to the given exponent values
// instead of the representation's own exponents.
func (rep *Representation) ValueWith(env *Environment, exps []*big.Int) (*big.Int, error) {
	if len(exps) != len(rep.bases) {
		return nil, errors.Errorf("%s has %d bases, got %d exponents", rep.left, len(rep.bases), len(exps))
	}
	g, err := env.Group(rep.group)
	if err != nil {
		return nil, err
	}
	bases := make([]*big.Int, len(rep.bases))
	for i, b := range rep.bases {
		if bases[i], err = b.Eval(env); err != nil {
			return nil, err
		}
	}

	if len(bases) == 1 {
		return env.modPow(rep.bases[0], bases[0], exps[0], g)
	}
	if env.multi != nil {
		if names, ok := identifierNames(rep.bases); ok {
			return env.multi.ModPow(names, bases, exps, g.Modulus())
		}
	}
	return expcache.MultiExp(bases, exps, g.Modulus())
}

// identifierBases returns the names and values of the bases if all of them are plain
// identifiers, and nil otherwise.
func (rep *Representation) identifierBases(env *Environment) ([]string, []*big.Int, error) {
	names, ok := identifierNames(rep.bases)
	if !ok {
		return nil, nil, nil
	}
	bases := make([]*big.Int, len(names))
	for i, name := range names {
		v, err := env.Value(name)
		if err != nil {
			return nil, nil, err
		}
		bases[i] = v
	}
	return names, bases, nil
}

func identifierNames(exprs []*Expr) ([]string, bool) {
	names := make([]string, len(exprs))
	for i, x := range exprs {
		if x.op != OpIdent {
			return nil, false
		}
		names[i] = x.name
	}
	return names, true
}
