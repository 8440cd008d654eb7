package sigma

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
	"github.com/privacybydesign/zkscript/params"
	"github.com/privacybydesign/zkscript/script"
)

// Verifier runs the verifier side of the protocol. Its environment holds the public
// values, usually obtained with StripPrivates or from a Transcript.
type Verifier struct {
	env    *script.Environment
	params *params.SystemParameters
	state  State

	challenge      *big.Int
	badCommitments bool
	diagnostic     string
}

func NewVerifier(env *script.Environment, params *params.SystemParameters) *Verifier {
	return &Verifier{env: env, params: params}
}

func (v *Verifier) State() State {
	return v.state
}

// Challenge samples a random challenge of Lh bits.
func (v *Verifier) Challenge() (*big.Int, error) {
	if v.state != Init {
		return nil, stateError("challenge", v.state)
	}
	v.challenge = common.FastRandomBits(v.params.Lh)
	v.state = Challenged
	return new(big.Int).Set(v.challenge), nil
}

// SetChallenge uses c, for example derived with FiatShamirChallenge, as the challenge.
func (v *Verifier) SetChallenge(c *big.Int) error {
	if v.state != Init {
		return stateError("set challenge", v.state)
	}
	if c.Sign() < 0 {
		return errors.New("negative challenge")
	}
	v.challenge = new(big.Int).Set(c)
	v.state = Challenged
	return nil
}

// Diagnostic describes why the last verification failed.
func (v *Verifier) Diagnostic() string {
	return v.diagnostic
}

// BadCommitments reports whether a decomposition check has failed. Once set, every
// verification fails.
func (v *Verifier) BadCommitments() bool {
	return v.badCommitments
}

// Verify checks proof against the representations in the environment.
func (v *Verifier) Verify(proof *SigmaProof) bool {
	switch v.state {
	case Challenged, Verified, Rejected:
	default:
		return v.reject("%v", &ErrState{Step: "verify", State: v.state})
	}
	if v.badCommitments {
		return v.reject("inconsistent decompositions")
	}
	if proof == nil || proof.Challenge == nil || proof.Challenge.Cmp(v.challenge) != 0 {
		return v.reject("proof does not answer the challenge")
	}

	reps := v.env.Representations()
	exponents := newExponentList(reps)
	if len(proof.Commitments) != len(reps) {
		return v.reject("%d commitments for %d representations", len(proof.Commitments), len(reps))
	}
	if len(proof.Responses) != len(exponents.exprs) {
		return v.reject("%d responses for %d exponents", len(proof.Responses), len(exponents.exprs))
	}
	if hasNil(proof.Commitments) || hasNil(proof.Responses) {
		return v.reject("missing proof values")
	}

	if err := v.env.ComputeRuntime(); err != nil {
		return v.reject("cannot compute runtime representations: %v", err)
	}
	if !v.checkDecompositions() {
		v.badCommitments = true
		return false
	}

	for i, rep := range reps {
		ok, err := v.checkRepresentation(rep, proof.Commitments[i], exponents.pick(rep, proof.Responses))
		if err != nil {
			return v.reject("cannot check %v: %v", rep, err)
		}
		if !ok {
			return false
		}
	}

	v.diagnostic = ""
	v.state = Verified
	return true
}

// checkDecompositions verifies that the product of every decomposition's squares equals
// its original commitment.
func (v *Verifier) checkDecompositions() bool {
	for _, d := range v.env.Decompositions() {
		modulus, err := v.env.Modulus(d.Group)
		if err != nil {
			return v.reject("%v", err)
		}
		original, err := v.env.Value(d.Original)
		if err != nil {
			return v.reject("%v", err)
		}
		product := big.NewInt(1)
		for _, name := range d.Squares {
			sq, err := v.env.Value(name)
			if err != nil {
				return v.reject("%v", err)
			}
			product.Mul(product, sq)
			product.Mod(product, modulus)
		}
		if product.Cmp(new(big.Int).Mod(original, modulus)) != 0 {
			return v.reject("decomposition of %s: product of squares %v differs from %v", d.Original, product, original)
		}
	}
	return true
}

// checkRepresentation verifies A * C^c = prod base_i^s_i.
func (v *Verifier) checkRepresentation(rep *script.Representation, a *big.Int, responses []*big.Int) (bool, error) {
	g, err := v.env.Group(rep.Group())
	if err != nil {
		return false, err
	}
	modulus := g.Modulus()
	c, err := v.env.Value(rep.Left())
	if err != nil {
		return false, err
	}

	lhs, err := common.ModPow(c, v.challenge, modulus)
	if err != nil {
		return false, err
	}
	lhs.Mul(lhs, a)
	g.Reduce(lhs, lhs)

	rhs, err := rep.ValueWith(v.env, responses)
	if err != nil {
		return false, err
	}
	if lhs.Cmp(rhs) != 0 {
		return v.reject("%v: %v != %v", rep, lhs, rhs), nil
	}
	return true, nil
}

func (v *Verifier) reject(format string, a ...interface{}) bool {
	v.diagnostic = fmt.Sprintf(format, a...)
	if v.state != Init {
		v.state = Rejected
	}
	Logger.Warnf("proof rejected: %s", v.diagnostic)
	return false
}

func hasNil(ints []*big.Int) bool {
	for _, x := range ints {
		if x == nil {
			return true
		}
	}
	return false
}
