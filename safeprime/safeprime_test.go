package safeprime

import (
	"context"
	"testing"
	"time"

	"github.com/privacybydesign/zkscript/big"
	"github.com/stretchr/testify/require"
)

func checkSafePrime(t *testing.T, x *big.Int, bitsize int) {
	require.NotNil(t, x)
	require.Equal(t, bitsize, x.BitLen())
	require.True(t, x.ProbablyPrime(100), "Generated number was not prime")

	y := new(big.Int).Sub(x, big.NewInt(1))
	y.Div(y, big.NewInt(2))
	require.True(t, y.ProbablyPrime(100), "Generated number was not a safe prime")
}

func TestGenerateSmall(t *testing.T) {
	for _, bits := range []int{3, 8, 32, 64, 128} {
		x, err := Generate(context.Background(), bits, DefaultRounds)
		require.NoError(t, err)
		checkSafePrime(t, x, bits)
	}
}

func TestGenerate(t *testing.T) {
	if testing.Short() {
		t.Skip("safe prime generation is slow")
	}
	x, err := Generate(context.Background(), 512, DefaultRounds)
	require.NoError(t, err)
	checkSafePrime(t, x, 512)
}

func TestGenerateTooSmall(t *testing.T) {
	_, err := Generate(context.Background(), 2, DefaultRounds)
	require.Error(t, err)
}

func TestGenerateConcurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ints, errs := GenerateConcurrent(ctx, 96, DefaultRounds)

	seen := 0
	for seen < 3 {
		select {
		case x := <-ints:
			checkSafePrime(t, x, 96)
			seen++
		case err := <-errs:
			require.NoError(t, err)
		case <-time.After(time.Minute):
			t.Fatal("no safe primes generated")
		}
	}
}

func TestGenerateConcurrentCancelled(t *testing.T) {
	// workers whose Generate call is interrupted must not deliver a result
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ints, errs := GenerateConcurrent(ctx, 256, DefaultRounds)

		timeout := time.After(time.Second)
	drain:
		for {
			select {
			case x := <-ints:
				require.NotNil(t, x)
				checkSafePrime(t, x, 256)
			case err := <-errs:
				require.NoError(t, err)
			case <-timeout:
				break drain
			}
		}
	}
}

func TestProbablySafePrime(t *testing.T) {
	require.True(t, ProbablySafePrime(big.NewInt(23), 20))
	require.True(t, ProbablySafePrime(big.NewInt(1019), 20))
	require.False(t, ProbablySafePrime(big.NewInt(13), 20)) // 6 is not prime
	require.False(t, ProbablySafePrime(big.NewInt(21), 20))
	require.False(t, ProbablySafePrime(big.NewInt(2), 20))
}
