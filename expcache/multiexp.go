package expcache

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
)

// MultiExp computes the product of bases[i]^exps[i] mod modulus by simultaneous
// square-and-multiply. Negative exponents use the inverse of their base.
func MultiExp(bases, exps []*big.Int, modulus *big.Int) (*big.Int, error) {
	if len(bases) != len(exps) {
		return nil, errors.Errorf("%d bases but %d exponents", len(bases), len(exps))
	}
	if modulus.Sign() <= 0 {
		return nil, errors.New("modulus must be positive")
	}

	bs := make([]*big.Int, len(bases))
	es := make([]*big.Int, len(exps))
	maxlen := 0
	for i := range bases {
		bs[i] = new(big.Int).Mod(bases[i], modulus)
		es[i] = exps[i]
		if exps[i].Sign() < 0 {
			inv, err := common.ModInverse(bs[i], modulus)
			if err != nil {
				return nil, err
			}
			bs[i] = inv
			es[i] = new(big.Int).Neg(exps[i])
		}
		if es[i].BitLen() > maxlen {
			maxlen = es[i].BitLen()
		}
	}

	result := new(big.Int).Mod(big.NewInt(1), modulus)
	for j := maxlen - 1; j >= 0; j-- {
		result.Mul(result, result)
		result.Mod(result, modulus)
		for i := range bs {
			if es[i].Bit(j) == 1 {
				result.Mul(result, bs[i])
				result.Mod(result, modulus)
			}
		}
	}
	return result, nil
}
