package script

// InferType returns the type of e. Results are memoized in env by structural key,
// except for expressions containing subscripted identifiers.
func (e *Expr) InferType(env *Environment) (Type, error) {
	if !e.dynamic {
		if t, ok := env.memo[e.key]; ok {
			return t, nil
		}
	}
	t, err := e.inferType(env)
	if err != nil {
		return Type{}, err
	}
	if !e.dynamic {
		env.memo[e.key] = t
	}
	return t, nil
}

func (e *Expr) inferType(env *Environment) (Type, error) {
	switch e.op {
	case OpInt:
		return IntegerType(), nil

	case OpIdent:
		t, ok := env.Type(e.name)
		if !ok {
			return Type{}, lookupError("variable", e.name)
		}
		return t, nil

	case OpIdentSub:
		name, err := e.subscriptedName(env)
		if err != nil {
			return Type{}, err
		}
		t, ok := env.Type(name)
		if !ok {
			return Type{}, lookupError("variable", name)
		}
		return t, nil

	case OpNeg:
		return e.left.InferType(env)

	case OpAdd, OpSub, OpMul, OpDiv:
		lt, rt, err := e.operandTypes(env)
		if err != nil {
			return Type{}, err
		}
		return combineTypes(lt, rt)

	case OpPow:
		bt, et, err := e.operandTypes(env)
		if err != nil {
			return Type{}, err
		}
		return powType(bt, et)
	}
	panic("unknown expression op")
}

func (e *Expr) operandTypes(env *Environment) (Type, Type, error) {
	lt, err := e.left.InferType(env)
	if err != nil {
		return Type{}, Type{}, err
	}
	rt, err := e.right.InferType(env)
	if err != nil {
		return Type{}, Type{}, err
	}
	return lt, rt, nil
}

// combineTypes is the typing rule of +, -, * and /. Integers and moduli combine with
// anything and take the other side's type; exponents and elements only combine with
// their own kind in the same group.
func combineTypes(l, r Type) (Type, error) {
	switch {
	case l.Kind == Integer || l.Kind == Modulus:
		return r, nil
	case r.Kind == Integer || r.Kind == Modulus:
		return l, nil
	case l.Kind == r.Kind && l.Group == r.Group:
		return l, nil
	}
	return Type{}, typeError("cannot mix different types of variables: %v and %v", l, r)
}

// powType is the typing rule of base^exponent.
func powType(base, exp Type) (Type, error) {
	switch base.Kind {
	case Element:
		switch exp.Kind {
		case Exponent, Modulus, Integer:
			return base, nil
		}
	case Exponent:
		if exp.Kind == Integer {
			return base, nil
		}
	case Integer:
		switch exp.Kind {
		case Exponent:
			return ElementType(exp.Group), nil
		case Integer:
			return IntegerType(), nil
		}
	}
	return Type{}, typeError("cannot raise %v to %v", base, exp)
}

// subscriptedName resolves name[sub] to the name of the variable it refers to.
func (e *Expr) subscriptedName(env *Environment) (string, error) {
	t, err := e.left.InferType(env)
	if err != nil {
		return "", err
	}
	if t.Kind != Integer {
		return "", typeError("subscript %v of %s is %v, not an integer", e.left, e.name, t)
	}
	v, err := e.left.Eval(env)
	if err != nil {
		return "", err
	}
	return e.name + "[" + v.String() + "]", nil
}
