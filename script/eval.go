package script

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/group"
	"github.com/privacybydesign/zkscript/internal/common"
)

// Eval computes the value of e. Whether arithmetic is plain or modular, and modulo
// what, follows from the inferred types of the operands.
func (e *Expr) Eval(env *Environment) (*big.Int, error) {
	switch e.op {
	case OpInt:
		return new(big.Int).Set(e.value), nil

	case OpIdent:
		return env.Value(e.name)

	case OpIdentSub:
		name, err := e.subscriptedName(env)
		if err != nil {
			return nil, err
		}
		return env.Value(name)

	case OpNeg:
		v, err := e.left.Eval(env)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Neg(v), nil

	case OpAdd, OpSub, OpMul:
		return e.evalRing(env)

	case OpDiv:
		return e.evalDiv(env)

	case OpPow:
		return e.evalPow(env)
	}
	panic("unknown expression op")
}

type operands struct {
	l, r   *big.Int
	lt, rt Type
}

func (e *Expr) evalOperands(env *Environment) (*operands, error) {
	lt, rt, err := e.operandTypes(env)
	if err != nil {
		return nil, err
	}
	l, err := e.left.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := e.right.Eval(env)
	if err != nil {
		return nil, err
	}
	return &operands{l: l, r: r, lt: lt, rt: rt}, nil
}

// groupOf returns the group of the left operand, or of the right one if the left has none.
func (o *operands) groupOf(env *Environment) (group.Group, error) {
	id := o.lt.Group
	if id == NoGroup {
		id = o.rt.Group
	}
	return env.Group(id)
}

func (e *Expr) evalRing(env *Environment) (*big.Int, error) {
	o, err := e.evalOperands(env)
	if err != nil {
		return nil, err
	}
	result := new(big.Int)
	switch e.op {
	case OpAdd:
		result.Add(o.l, o.r)
	case OpSub:
		result.Sub(o.l, o.r)
	case OpMul:
		result.Mul(o.l, o.r)
	}
	if o.lt.Kind != Element && o.rt.Kind != Element {
		return result, nil
	}
	g, err := o.groupOf(env)
	if err != nil {
		return nil, err
	}
	return g.Reduce(result, result), nil
}

func (e *Expr) evalDiv(env *Environment) (*big.Int, error) {
	o, err := e.evalOperands(env)
	if err != nil {
		return nil, err
	}

	if (o.lt.Group == NoGroup && o.rt.Group == NoGroup) || o.lt.Kind == Modulus || o.rt.Kind == Modulus {
		if o.r.Sign() == 0 {
			return nil, errors.Errorf("division by zero in %v", e)
		}
		return new(big.Int).Quo(o.l, o.r), nil
	}

	g, err := o.groupOf(env)
	if err != nil {
		return nil, err
	}
	if o.lt.Kind == Exponent || o.rt.Kind == Exponent {
		order, ok := g.Order()
		if !ok {
			return nil, group.NewSecurityError("operation not permitted in an RSA group without known order")
		}
		inv, err := common.ModInverse(o.r, order)
		if err != nil {
			return nil, errors.WrapPrefix(err, "cannot divide by "+e.right.String(), 0)
		}
		result := inv.Mul(o.l, inv)
		return result.Mod(result, order), nil
	}

	inv, err := common.ModInverse(o.r, g.Modulus())
	if err != nil {
		return nil, errors.WrapPrefix(err, "cannot divide by "+e.right.String(), 0)
	}
	result := inv.Mul(o.l, inv)
	return g.Reduce(result, result), nil
}

func (e *Expr) evalPow(env *Environment) (*big.Int, error) {
	if _, err := e.InferType(env); err != nil {
		return nil, err
	}
	o, err := e.evalOperands(env)
	if err != nil {
		return nil, err
	}

	if o.lt.Kind == Exponent || o.lt.Group == NoGroup {
		if o.r.Sign() < 0 || !o.r.IsInt64() {
			return nil, errors.Errorf("exponent %v of %v is not a non-negative machine integer", o.r, e)
		}
		return new(big.Int).Exp(o.l, o.r, nil), nil
	}

	g, err := env.Group(o.lt.Group)
	if err != nil {
		return nil, err
	}
	return env.modPow(e.left, o.l, o.r, g)
}

// modPow computes base^exp in g: from the fixed-base cache if base is an identifier with
// a stored table, from the group's own tables if it keeps one for base, and directly
// otherwise.
func (env *Environment) modPow(baseExpr *Expr, base, exp *big.Int, g group.Group) (*big.Int, error) {
	if env.fixed != nil && baseExpr != nil && baseExpr.op == OpIdent && env.fixed.Has(baseExpr.name) {
		return env.fixed.ModPow(baseExpr.name, base, exp, g.Modulus())
	}
	ret := new(big.Int)
	if g.Exp(ret, base, exp) {
		return ret, nil
	}
	return common.ModPow(base, exp, g.Modulus())
}
