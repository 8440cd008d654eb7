package script

import (
	"testing"

	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/group"
	"github.com/stretchr/testify/require"
)

func s2big(s string) (r *big.Int) {
	r, _ = new(big.Int).SetString(s, 10)
	return
}

var (
	// 32-bit safe primes
	smallP = s2big("4008898847")
	smallQ = s2big("3157521659")
	// 128-bit safe prime
	schnorrP = s2big("266293562882093332148393567731800262547")
)

// newTestEnv returns an environment with an RSA group "rsa" with generators g and h,
// and a prime-order group "schnorr" with generators u and v.
func newTestEnv(t *testing.T) *Environment {
	rsa, err := group.NewRSAGroup("rsa", smallP, smallQ)
	require.NoError(t, err)
	_, err = rsa.AddGenerator()
	require.NoError(t, err)
	schnorr, err := group.NewPrimeOrderGroup("schnorr", schnorrP)
	require.NoError(t, err)

	groups := group.NewTable()
	require.NoError(t, groups.Add("rsa", rsa))
	require.NoError(t, groups.Add("schnorr", schnorr))
	env := NewEnvironment(groups)

	for i, name := range []string{"g", "h"} {
		require.NoError(t, env.Declare(name, ElementType("rsa"), false))
		require.NoError(t, env.SetValue(name, rsa.Generators()[i]))
	}
	for i, name := range []string{"u", "v"} {
		require.NoError(t, env.Declare(name, ElementType("schnorr"), false))
		require.NoError(t, env.SetValue(name, schnorr.Generators()[i]))
	}
	return env
}

func declare(t *testing.T, env *Environment, name string, typ Type, private bool, v int64) {
	require.NoError(t, env.Declare(name, typ, private))
	require.NoError(t, env.SetValue(name, big.NewInt(v)))
}

func value(t *testing.T, env *Environment, name string) *big.Int {
	v, err := env.Value(name)
	require.NoError(t, err)
	return v
}
