package group

import (
	"context"
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Logger = logrus.StandardLogger()
	Logger.SetLevel(logrus.FatalLevel)
}

func s2big(s string) (r *big.Int) {
	r, _ = new(big.Int).SetString(s, 10)
	return
}

// 512-bit safe primes
var (
	fixtureP = s2big("12511561644521105216249960315425509848310543851123625148071038103672749250653050780946327920540373585150518830678888836864183842100121288018131086700947919")
	fixtureQ = s2big("13175754961224278923898419496296790582860213842149399404614891067426616055648139811854869087421318470521236911637912285993998784296429335994419545592486183")
)

// 32-bit safe primes with a 64-bit product
var (
	smallP = s2big("4008898847")
	smallQ = s2big("3157521659")
)

func requireValidGroup(t *testing.T, g *RSAGroup, modulusBits int) {
	p, q, ok := g.Factors()
	require.True(t, ok)
	n := g.Modulus()
	require.Equal(t, modulusBits, n.BitLen())
	require.Zero(t, new(big.Int).Mul(p, q).Cmp(n))
	for _, x := range []*big.Int{p, q} {
		require.True(t, x.ProbablyPrime(40))
		require.True(t, new(big.Int).Rsh(x, 1).ProbablyPrime(40))
		require.Equal(t, int64(3), new(big.Int).Mod(x, big.NewInt(4)).Int64())
		require.Equal(t, modulusBits/2, x.BitLen())
	}
	require.NotEmpty(t, g.Generators())
	for _, x := range g.Generators() {
		require.True(t, g.IsGenerator(x))
	}
}

func TestBuildRSAGroupTooSmall(t *testing.T) {
	_, err := BuildRSAGroup("issuer", 512, 80, SquareRandom)
	require.Error(t, err)
	var secErr *SecurityError
	require.True(t, errors.As(err, &secErr))
}

func TestBuildRSAGroupRepeated(t *testing.T) {
	for _, mode := range []GeneratorMode{SquareRandom, CRTCombine} {
		for i := 0; i < 10; i++ {
			g, err := buildRSAGroup(context.Background(), "test", 128, 80, mode)
			require.NoError(t, err)
			requireValidGroup(t, g, 128)
		}
	}
}

func TestBuildRSAGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("safe prime generation is slow")
	}
	g, err := BuildRSAGroup("issuer", 1024, 80, CRTCombine)
	require.NoError(t, err)
	requireValidGroup(t, g, 1024)
}

func TestBuildRSAGroupCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := buildRSAGroup(ctx, "test", 2048, 80, SquareRandom)
	require.Error(t, err)
}

func TestNewRSAGroup(t *testing.T) {
	g, err := NewRSAGroup("issuer", fixtureP, fixtureQ)
	require.NoError(t, err)
	requireValidGroup(t, g, 1024)

	order, ok := g.Order()
	require.True(t, ok)
	expected := new(big.Int).Mul(new(big.Int).Sub(fixtureP, big.NewInt(1)), new(big.Int).Sub(fixtureQ, big.NewInt(1)))
	require.Zero(t, order.Cmp(expected))

	x, err := g.AddGenerator()
	require.NoError(t, err)
	require.Len(t, g.Generators(), 2)
	y, err := g.Generator(1)
	require.NoError(t, err)
	require.Zero(t, x.Cmp(y))
	_, err = g.Generator(2)
	require.Error(t, err)

	again, err := NewRSAGroup("issuer", fixtureP, fixtureQ, g.Generators()...)
	require.NoError(t, err)
	require.Equal(t, g.Generators(), again.Generators())
}

func TestNewRSAGroupInvariants(t *testing.T) {
	var invErr *InvariantError

	_, err := NewRSAGroup("equal", smallP, smallP)
	require.True(t, errors.As(err, &invErr), "%v", err)

	// 23 = 2*11+1 is safe but far too short for the modulus
	_, err = NewRSAGroup("short", smallP, big.NewInt(23))
	require.True(t, errors.As(err, &invErr), "%v", err)

	// 4008898849 is not prime
	_, err = NewRSAGroup("composite", new(big.Int).Add(smallP, big.NewInt(2)), smallQ)
	require.True(t, errors.As(err, &invErr), "%v", err)
}

func TestIsGenerator(t *testing.T) {
	g, err := NewRSAGroup("small", smallP, smallQ)
	require.NoError(t, err)
	n := g.Modulus()

	assert.False(t, g.IsGenerator(big.NewInt(0)))
	assert.False(t, g.IsGenerator(big.NewInt(1)))
	assert.False(t, g.IsGenerator(new(big.Int).Sub(n, big.NewInt(1))))
	assert.False(t, g.IsGenerator(n))
	assert.False(t, g.IsGenerator(smallP))

	// a generator raised to p' lies in the subgroup of order q'
	gen := g.Generators()[0]
	inSubgroup := new(big.Int).Exp(gen, new(big.Int).Rsh(smallP, 1), n)
	assert.False(t, g.IsGenerator(inSubgroup))

	// a non-residue modulo p is no generator
	nonResidue := big.NewInt(2)
	for big.Jacobi(nonResidue, smallP) == 1 {
		nonResidue.Add(nonResidue, big.NewInt(1))
	}
	assert.False(t, g.IsGenerator(nonResidue))

	// squares of generators' odd powers still generate
	assert.True(t, g.IsGenerator(new(big.Int).Exp(gen, big.NewInt(3), n)))
}

func TestRSAPublicView(t *testing.T) {
	g, err := NewRSAGroup("small", smallP, smallQ)
	require.NoError(t, err)

	pub := g.Public()
	assert.Equal(t, KindRSA, pub.Kind())
	assert.Zero(t, pub.Modulus().Cmp(g.Modulus()))
	_, ok := pub.Order()
	assert.False(t, ok)
	assert.Equal(t, g.Generators(), pub.Generators())

	rsa := pub.(*RSAGroup)
	_, _, ok = rsa.Factors()
	assert.False(t, ok)
	assert.False(t, rsa.IsGenerator(g.Generators()[0]))
	_, err = rsa.AddGenerator()
	var secErr *SecurityError
	assert.True(t, errors.As(err, &secErr))

	verifier, err := NewPublicRSAGroup("small", g.Modulus(), g.Generators()...)
	require.NoError(t, err)
	assert.Equal(t, g.Generators(), verifier.Generators())
	_, err = NewPublicRSAGroup("small", g.Modulus(), smallP)
	assert.Error(t, err)
}

func TestPrimeOrderGroup(t *testing.T) {
	for _, prime := range []*big.Int{big.NewInt(47), s2big("266293562882093332148393567731800262547")} {
		g, err := NewPrimeOrderGroup("schnorr", prime)
		require.NoError(t, err)
		assert.Equal(t, KindPrimeOrder, g.Kind())

		order, ok := g.Order()
		require.True(t, ok)
		require.Zero(t, order.Cmp(new(big.Int).Rsh(prime, 1)))

		for _, base := range g.Generators() {
			require.Equal(t, 1, big.Jacobi(base, prime))
			for _, e := range []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(-5), new(big.Int).Sub(order, big.NewInt(1)), new(big.Int).Lsh(order, 3)} {
				var ret big.Int
				require.True(t, g.Exp(&ret, base, e))
				expected := new(big.Int).Exp(base, new(big.Int).Mod(e, order), prime)
				require.Zero(t, ret.Cmp(expected), "%v^%v", base, e)
			}
		}

		var ret big.Int
		require.False(t, g.Exp(&ret, big.NewInt(3), big.NewInt(2)))

		x := new(big.Int).Mul(prime, big.NewInt(1234567))
		x.Add(x, big.NewInt(11))
		require.Equal(t, int64(11), g.Reduce(new(big.Int), x).Int64())
		require.True(t, g.Public() == Group(g))
	}
}

func TestPrimeOrderGroupInvalid(t *testing.T) {
	_, err := NewPrimeOrderGroup("composite", big.NewInt(45))
	require.Error(t, err)
	_, err = NewPrimeOrderGroup("unsafe", big.NewInt(13))
	require.Error(t, err)
}

func TestTable(t *testing.T) {
	rsa, err := NewRSAGroup("small", smallP, smallQ)
	require.NoError(t, err)
	schnorr, err := NewPrimeOrderGroup("schnorr", big.NewInt(47))
	require.NoError(t, err)

	table := NewTable()
	require.NoError(t, table.Add("rsa", rsa))
	require.NoError(t, table.Add("schnorr", schnorr))
	require.Error(t, table.Add("rsa", schnorr))
	require.Error(t, table.Add("", schnorr))
	require.Equal(t, []ID{"rsa", "schnorr"}, table.IDs())

	g, ok := table.Get("rsa")
	require.True(t, ok)
	_, ok = g.Order()
	require.True(t, ok)
	_, ok = table.Get("missing")
	require.False(t, ok)

	pub := table.Public()
	g, ok = pub.Get("rsa")
	require.True(t, ok)
	_, ok = g.Order()
	require.False(t, ok)
	g, ok = pub.Get("schnorr")
	require.True(t, ok)
	_, ok = g.Order()
	require.True(t, ok)
}
