// Package sigma implements the prover and verifier of a Sigma protocol proving knowledge
// of the exponents of every representation registered in a script.Environment.
//
// The prover commits to A = prod base_i^r_i for random masks r_i, receives a challenge c
// and responds with s_i = r_i + c*x_i for the secret exponents x_i. There is one mask and
// one response per distinct exponent expression, shared across representations, so that
// equal exponents in different representations are proven equal. The verifier accepts
// if A * C^c = prod base_i^s_i for every representation with commitment value C.
//
// Before checking these equations the verifier computes its runtime representations and
// checks all four-square decompositions; a failing decomposition rejects the proof
// without looking at the equations.
package sigma

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/script"
)

// State is the protocol state of a prover or verifier.
type State int

const (
	Init State = iota
	Committed
	Challenged
	Responded
	Verified
	Rejected
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Committed:
		return "committed"
	case Challenged:
		return "challenged"
	case Responded:
		return "responded"
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "invalid"
	}
}

// ErrState is returned when a protocol step is taken in the wrong state.
type ErrState struct {
	Step  string
	State State
}

func (e *ErrState) Error() string {
	return fmt.Sprintf("cannot %s in state %v", e.Step, e.State)
}

func stateError(step string, state State) error {
	return errors.Wrap(&ErrState{Step: step, State: state}, 1)
}

// SigmaProof holds the randomized commitments, one per representation in order of
// registration, the challenge, and the responses, one per distinct exponent in
// order of first appearance.
type SigmaProof struct {
	Commitments []*big.Int `cbor:"commitments"`
	Challenge   *big.Int   `cbor:"challenge"`
	Responses   []*big.Int `cbor:"responses"`
}

func (p *SigmaProof) copy() *SigmaProof {
	return &SigmaProof{
		Commitments: copyInts(p.Commitments),
		Challenge:   big.Copy(p.Challenge),
		Responses:   copyInts(p.Responses),
	}
}

func copyInts(ints []*big.Int) []*big.Int {
	res := make([]*big.Int, len(ints))
	for i, x := range ints {
		res[i] = big.Copy(x)
	}
	return res
}

// exponentList assigns an index to every distinct exponent of reps, in order of
// first appearance.
type exponentList struct {
	exprs []*script.Expr
	index map[script.Key]int
}

func newExponentList(reps []*script.Representation) *exponentList {
	l := &exponentList{index: map[script.Key]int{}}
	for _, rep := range reps {
		for _, x := range rep.Exponents() {
			if _, ok := l.index[x.Key()]; ok {
				continue
			}
			l.index[x.Key()] = len(l.exprs)
			l.exprs = append(l.exprs, x)
		}
	}
	return l
}

// pick returns the values of the exponents of rep from values.
func (l *exponentList) pick(rep *script.Representation, values []*big.Int) []*big.Int {
	res := make([]*big.Int, len(rep.Exponents()))
	for i, x := range rep.Exponents() {
		res[i] = values[l.index[x.Key()]]
	}
	return res
}
