// Package safeprime computes safe primes, i.e. primes of the form 2p+1 where p is also prime.
package safeprime

import (
	"context"
	"crypto/rand"
	"runtime"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
)

// DefaultRounds is the number of Miller-Rabin rounds used to certify generated safe primes.
const DefaultRounds = 40

// GenerateConcurrent concurrently and continuously generates safeprimes on all CPU cores,
// until ctx is done. If an error is encountered, generation is stopped in all goroutines,
// and the error is sent on the second return parameter.
func GenerateConcurrent(ctx context.Context, bitsize, rounds int) (<-chan *big.Int, <-chan error) {
	count := runtime.GOMAXPROCS(0)
	ints := make(chan *big.Int, count)
	errs := make(chan error, count)

	// A goroutine that hits an error cancels all others through this context.
	ctx, cancel := context.WithCancel(ctx)

	for i := 0; i < count; i++ {
		go func() {
			for {
				// Generate returns nil, nil once ctx is done
				x, err := Generate(ctx, bitsize, rounds)
				if err != nil {
					errs <- err
					cancel()
					return
				}
				if x == nil {
					return
				}

				select {
				case <-ctx.Done():
					return
				case ints <- x:
				}
			}
		}()
	}

	return ints, errs
}

// Generate a safe prime of the given size, using the fact that:
//     If q is prime and 2^(2q) = 1 mod (2q+1), then 2q+1 is a safe prime.
// We take a random bigint q; if the above formula holds and q is prime, then we return 2q+1.
// (See https://www.ijipbangalore.org/abstracts_2(1)/p5.pdf and
// https://groups.google.com/group/sci.crypt/msg/34c4abf63568a8eb)
//
// The result is certified with the given number of Miller-Rabin rounds on both 2q+1 and q.
// When ctx is done before a safe prime is found, Generate returns nil, nil.
func Generate(ctx context.Context, bitsize, rounds int) (*big.Int, error) {
	if bitsize < 3 {
		return nil, errors.Errorf("no safe primes of %d bits", bitsize)
	}
	var (
		one        = big.NewInt(1)
		max        = new(big.Int).Lsh(one, uint(bitsize)) // 2^bitsize, len bitsize+1
		twoq       = new(big.Int)
		twoqone    = new(big.Int)
		twoexptwoq = new(big.Int)
		q          *big.Int
		bitlen     int
		err        error
		i          int
	)

	for {
		// Every 1000 iterations, check if we have been asked to stop
		i++
		if i%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, nil
			default:
			}
		}

		if q, err = big.RandInt(rand.Reader, max); err != nil {
			return nil, err
		}

		bitlen = q.BitLen() // q < max = 2^bitsize, so bitlen <= bitsize

		if q.Bit(0) != uint(1) || // q is not odd
			bitlen < bitsize-1 { // q is too small
			continue
		}

		// bitlen now equals either bitsize or bitsize - 1. We want the latter.
		// If bitlen == bitsize we use (q-1)/2 instead of q in the remainder of the algorithm.
		if bitlen == bitsize {
			q.Rsh(q, 1)
			if q.Bit(0) != uint(1) {
				continue
			}
		}

		twoq.Lsh(q, 1)
		twoqone.Add(twoq, one)
		twoexptwoq.Exp(two, twoq, twoqone) // 2^(2q) mod (2q+1)

		if twoexptwoq.Cmp(one) == 0 && q.ProbablyPrime(rounds) {
			break
		}
	}

	if !ProbablySafePrime(twoqone, rounds) {
		return nil, errors.New("safeprime generation returned non-safeprime")
	}
	return twoqone, nil
}

var two = big.NewInt(2)

// ProbablySafePrime reports whether x is probably safe prime, by calling big.Int.ProbablyPrime(n)
// on x as well as on (x-1)/2.
//
// If x is safe prime, ProbablySafePrime returns true.
// If x is chosen randomly and not safe prime, ProbablyPrime probably returns false.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 {
		return false
	}
	if !x.ProbablyPrime(n) {
		return false
	}
	y := new(big.Int).Rsh(x, 1)
	return y.ProbablyPrime(n)
}
