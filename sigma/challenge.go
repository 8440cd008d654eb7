package sigma

import (
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
	"github.com/privacybydesign/zkscript/params"
	"github.com/privacybydesign/zkscript/script"
)

// FiatShamirChallenge derives a challenge of Lh bits by hashing the context, the structure
// and value of every registered representation, the randomized commitments and the nonce.
// Prover and verifier obtain the same challenge from the same public data.
func FiatShamirChallenge(params *params.SystemParameters, context, nonce *big.Int, env *script.Environment, commitments []*big.Int) (*big.Int, error) {
	reps := env.Representations()
	values := make([]*big.Int, 0, 2+2*len(reps)+len(commitments))
	values = append(values, context)
	for _, rep := range reps {
		c, err := env.Value(rep.Left())
		if err != nil {
			return nil, err
		}
		values = append(values, new(big.Int).SetBytes([]byte(rep.Key())), c)
	}
	values = append(values, commitments...)
	values = append(values, nonce)
	return common.HashNumber(values, params.Lh), nil
}
