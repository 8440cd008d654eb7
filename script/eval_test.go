package script

import (
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/expcache"
	"github.com/privacybydesign/zkscript/group"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, env *Environment, e *Expr) *big.Int {
	v, err := e.Eval(env)
	require.NoError(t, err, "%v", e)
	return v
}

func TestKeys(t *testing.T) {
	a := Add(Mul(Ident("x"), Int(3)), Neg(Ident("y")))
	b := Add(Mul(Ident("x"), Int(3)), Neg(Ident("y")))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "(x*3)+(-y)", a.String())

	distinct := []*Expr{
		a,
		Add(Mul(Ident("x"), Int(3)), Ident("y")),
		Sub(Mul(Ident("x"), Int(3)), Neg(Ident("y"))),
		Add(Mul(Int(3), Ident("x")), Neg(Ident("y"))),
		Ident("x3"),
		IdentSub("x", Int(3)),
		Int(3),
		Int(-3),
		Neg(Int(3)),
		Ident("3"),
	}
	seen := map[Key]string{}
	for _, e := range distinct {
		prev, ok := seen[e.Key()]
		require.False(t, ok, "%v and %v share a key", e, prev)
		seen[e.Key()] = e.String()
	}
}

func TestEvalPlainArithmetic(t *testing.T) {
	env := newTestEnv(t)
	declare(t, env, "x", ExponentType("rsa"), true, 7)
	declare(t, env, "k", IntegerType(), false, 1000)

	assert.Equal(t, int64(7*1000+3), eval(t, env, Add(Mul(Ident("x"), Ident("k")), Int(3))).Int64())
	assert.Equal(t, int64(-993), eval(t, env, Sub(Ident("x"), Ident("k"))).Int64())
	assert.Equal(t, int64(-7), eval(t, env, Neg(Ident("x"))).Int64())
	assert.Equal(t, int64(142), eval(t, env, Div(Ident("k"), Int(7))).Int64())
	assert.Equal(t, int64(-142), eval(t, env, Div(Neg(Ident("k")), Int(7))).Int64())
	declare(t, env, "n", ModulusType("rsa"), false, 11)
	assert.Equal(t, int64(636), eval(t, env, Div(Mul(Ident("x"), Ident("k")), Ident("n"))).Int64())
	assert.Equal(t, int64(343), eval(t, env, Pow(Ident("x"), Int(3))).Int64())
	assert.Equal(t, int64(1000000), eval(t, env, Pow(Ident("k"), Int(2))).Int64())

	// exponents are not reduced even when they outgrow the modulus
	huge := eval(t, env, Pow(Ident("x"), Int(40)))
	assert.Zero(t, huge.Cmp(new(big.Int).Exp(big.NewInt(7), big.NewInt(40), nil)))

	_, err := Div(Ident("k"), Int(0)).Eval(env)
	assert.Error(t, err)
	_, err = Pow(Ident("x"), Int(-1)).Eval(env)
	assert.Error(t, err)
}

func TestEvalElementArithmetic(t *testing.T) {
	env := newTestEnv(t)
	n, err := env.Modulus("rsa")
	require.NoError(t, err)
	g, h := value(t, env, "g"), value(t, env, "h")

	expected := new(big.Int).Mul(g, h)
	expected.Mod(expected, n)
	assert.Zero(t, eval(t, env, Mul(Ident("g"), Ident("h"))).Cmp(expected))

	// integers multiplied into elements are reduced too
	expected = new(big.Int).Mul(g, big.NewInt(1<<40))
	expected.Mod(expected, n)
	assert.Zero(t, eval(t, env, Mul(Int(1<<40), Ident("g"))).Cmp(expected))

	// g / h == g * h^-1
	hinv := new(big.Int).ModInverse(h, n)
	expected = new(big.Int).Mul(g, hinv)
	expected.Mod(expected, n)
	assert.Zero(t, eval(t, env, Div(Ident("g"), Ident("h"))).Cmp(expected))

	declare(t, env, "x", ExponentType("rsa"), true, 12345)
	assert.Zero(t, eval(t, env, Pow(Ident("g"), Ident("x"))).Cmp(new(big.Int).Exp(g, big.NewInt(12345), n)))

	// integer bases are raised without reduction, even though the result is typed as an
	// element of the exponent's group
	typ, err := Pow(Int(2), Ident("x")).InferType(env)
	require.NoError(t, err)
	assert.Equal(t, ElementType("rsa"), typ)
	plain := eval(t, env, Pow(Int(2), Ident("x")))
	assert.Zero(t, plain.Cmp(new(big.Int).Lsh(big.NewInt(1), 12345)))
	assert.Equal(t, 12346, plain.BitLen())
	_, err = Pow(Int(2), Neg(Ident("x"))).Eval(env)
	require.Error(t, err)

	// negative exponents invert
	inv := eval(t, env, Pow(Ident("g"), Neg(Ident("x"))))
	check := new(big.Int).Exp(g, big.NewInt(12345), n)
	check.Mul(check, inv).Mod(check, n)
	assert.Equal(t, int64(1), check.Int64())
}

func TestEvalExponentDivision(t *testing.T) {
	env := newTestEnv(t)
	declare(t, env, "y", ExponentType("schnorr"), true, 10)
	declare(t, env, "z", ExponentType("schnorr"), true, 4)

	schnorr, err := env.Group("schnorr")
	require.NoError(t, err)
	order, _ := schnorr.Order()

	q := eval(t, env, Div(Ident("y"), Ident("z")))
	check := new(big.Int).Mul(q, big.NewInt(4))
	check.Mod(check, order)
	assert.Equal(t, int64(10), check.Int64())

	// the prover knows the order of its RSA group
	declare(t, env, "x", ExponentType("rsa"), true, 21)
	q = eval(t, env, Div(Ident("x"), Int(5)))
	phi := new(big.Int).Mul(new(big.Int).Sub(smallP, big.NewInt(1)), new(big.Int).Sub(smallQ, big.NewInt(1)))
	check = new(big.Int).Mul(q, big.NewInt(5))
	check.Mod(check, phi)
	assert.Equal(t, int64(21), check.Int64())

	// the verifier does not
	pub := env.StripPrivates()
	require.NoError(t, pub.SetValue("x", big.NewInt(21)))
	_, err = Div(Ident("x"), Int(5)).Eval(pub)
	var secErr *group.SecurityError
	require.True(t, errors.As(err, &secErr), "%v", err)

	// even divisors have no inverse modulo (p-1)(q-1)
	_, err = Div(Ident("x"), Int(2)).Eval(env)
	assert.Error(t, err)
}

func TestEvalPrimeOrderTables(t *testing.T) {
	env := newTestEnv(t)
	declare(t, env, "y", ExponentType("schnorr"), true, -17)
	u := value(t, env, "u")
	schnorr, err := env.Group("schnorr")
	require.NoError(t, err)
	order, _ := schnorr.Order()

	r := eval(t, env, Pow(Ident("u"), Ident("y")))
	expected := new(big.Int).Exp(u, new(big.Int).Add(order, big.NewInt(-17)), schnorrP)
	assert.Zero(t, r.Cmp(expected))
}

func TestEvalFixedBaseCache(t *testing.T) {
	env := newTestEnv(t)
	env.SetCaches(expcache.NewFixedBaseCache(128, 4), nil)
	declare(t, env, "x", ExponentType("rsa"), true, 987654321)
	n, _ := env.Modulus("rsa")
	g := value(t, env, "g")
	expected := new(big.Int).Exp(g, big.NewInt(987654321), n)

	rep, err := NewRepresentation("C", "rsa", []*Expr{Ident("g")}, []*Expr{Ident("x")})
	require.NoError(t, err)
	_, err = env.Commit(rep)
	require.NoError(t, err)
	require.NoError(t, env.Precompute())
	require.True(t, env.FixedBaseCache().Has("g"))

	assert.Zero(t, eval(t, env, Pow(Ident("g"), Ident("x"))).Cmp(expected))
	assert.Zero(t, value(t, env, "C").Cmp(expected))
}
