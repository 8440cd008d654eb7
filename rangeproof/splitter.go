package rangeproof

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
)

type (
	// Splitter describes a method for splitting non-negative numbers into a sum of squares.
	Splitter interface {
		// Ld returns the maximum number of bits per square root
		Ld() uint
		// SquareCount returns the number of squares in the result, at most 4
		SquareCount() int
		// Split returns x such that sum_i x_i^2 = delta and len(x) = SquareCount()
		Split(*big.Int) ([]*big.Int, error)
	}

	// FourSquaresSplitter splits any non-negative number using the Rabin-Shallit algorithm.
	FourSquaresSplitter struct{}
)

func (*FourSquaresSplitter) Split(delta *big.Int) ([]*big.Int, error) {
	if delta.Sign() < 0 {
		return nil, errors.New("cannot split negative number into squares")
	}
	a, b, c, d := common.SumFourSquares(delta)
	return []*big.Int{a, b, c, d}, nil
}

func (*FourSquaresSplitter) SquareCount() int {
	return 4
}

func (*FourSquaresSplitter) Ld() uint {
	return 128
}

// split runs s on delta and checks its output, padding it with zeros to four roots.
func split(s Splitter, delta *big.Int) ([4]*big.Int, error) {
	var roots [4]*big.Int
	if s.SquareCount() < 1 || s.SquareCount() > len(roots) {
		return roots, errors.Errorf("splitter produces %d squares, need 1 to %d", s.SquareCount(), len(roots))
	}
	if delta.BitLen() > 2*int(s.Ld()) {
		return roots, errors.New("difference too large for splitter")
	}
	d, err := s.Split(delta)
	if err != nil {
		return roots, err
	}
	if len(d) != s.SquareCount() {
		return roots, errors.Errorf("splitter returned %d squares, expected %d", len(d), s.SquareCount())
	}

	sum := new(big.Int)
	sq := new(big.Int)
	for i := range roots {
		if i < len(d) {
			roots[i] = new(big.Int).Abs(d[i])
		} else {
			roots[i] = big.NewInt(0)
		}
		sum.Add(sum, sq.Mul(roots[i], roots[i]))
	}
	if sum.Cmp(delta) != 0 {
		return roots, errors.New("splitter returned incorrect squares")
	}
	return roots, nil
}
