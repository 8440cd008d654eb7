package sigma

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/internal/common"
	"github.com/privacybydesign/zkscript/params"
	"github.com/privacybydesign/zkscript/script"
)

// Prover runs the prover side of the protocol over the representations registered in
// its environment, which must hold the values of all exponents.
type Prover struct {
	env    *script.Environment
	params *params.SystemParameters
	state  State

	exponents   *exponentList
	preset      map[script.Key]*big.Int
	randomizers []*big.Int
	commitments []*big.Int
	challenge   *big.Int
	responses   []*big.Int
}

func NewProver(env *script.Environment, params *params.SystemParameters) *Prover {
	return &Prover{
		env:    env,
		params: params,
		preset: map[script.Key]*big.Int{},
	}
}

func (p *Prover) State() State {
	return p.state
}

// SetRandomizer fixes the mask used for exponent exp instead of sampling one.
func (p *Prover) SetRandomizer(exp *script.Expr, r *big.Int) error {
	if p.state != Init {
		return stateError("set randomizer", p.state)
	}
	p.preset[exp.Key()] = new(big.Int).Set(r)
	return nil
}

// Commit samples a mask for every distinct exponent that has none yet, and returns the
// randomized commitment of every registered representation.
func (p *Prover) Commit() ([]*big.Int, error) {
	if p.state != Init {
		return nil, stateError("commit", p.state)
	}
	reps := p.env.Representations()
	if len(reps) == 0 {
		return nil, errors.New("no representations to prove")
	}

	p.exponents = newExponentList(reps)
	p.randomizers = make([]*big.Int, len(p.exponents.exprs))
	for i, x := range p.exponents.exprs {
		if r, ok := p.preset[x.Key()]; ok {
			p.randomizers[i] = r
		} else {
			p.randomizers[i] = common.FastRandomBits(p.params.MaskBits)
		}
	}

	p.commitments = make([]*big.Int, len(reps))
	for i, rep := range reps {
		a, err := rep.ValueWith(p.env, p.exponents.pick(rep, p.randomizers))
		if err != nil {
			return nil, err
		}
		p.commitments[i] = a
	}

	p.state = Committed
	return copyInts(p.commitments), nil
}

func (p *Prover) ReceiveChallenge(c *big.Int) error {
	if p.state != Committed {
		return stateError("receive challenge", p.state)
	}
	if c.Sign() < 0 {
		return errors.New("negative challenge")
	}
	p.challenge = new(big.Int).Set(c)
	p.state = Challenged
	return nil
}

// Respond computes s = r + c*x for every distinct exponent x with mask r. Responses are
// not reduced modulo any group order.
func (p *Prover) Respond() ([]*big.Int, error) {
	if p.state != Challenged {
		return nil, stateError("respond", p.state)
	}
	p.responses = make([]*big.Int, len(p.exponents.exprs))
	for i, x := range p.exponents.exprs {
		v, err := x.Eval(p.env)
		if err != nil {
			return nil, err
		}
		s := new(big.Int).Mul(p.challenge, v)
		p.responses[i] = s.Add(s, p.randomizers[i])
	}
	p.state = Responded
	return copyInts(p.responses), nil
}

// Proof returns the completed proof.
func (p *Prover) Proof() (*SigmaProof, error) {
	if p.state != Responded {
		return nil, stateError("produce proof", p.state)
	}
	proof := &SigmaProof{
		Commitments: p.commitments,
		Challenge:   p.challenge,
		Responses:   p.responses,
	}
	return proof.copy(), nil
}

// Transcript returns the proof together with all public values of the environment, and
// the values of the variables named in echo.
func (p *Prover) Transcript(echo ...string) (*Transcript, error) {
	proof, err := p.Proof()
	if err != nil {
		return nil, err
	}
	t := &Transcript{
		Public: map[string]*big.Int{},
		Proof:  *proof,
	}
	for name, v := range p.env.PublicValues() {
		t.Public[name] = big.Copy(v)
	}
	if len(echo) > 0 {
		t.Values = map[string]*big.Int{}
		for _, name := range echo {
			v, err := p.env.Value(name)
			if err != nil {
				return nil, err
			}
			t.Values[name] = big.Copy(v)
		}
	}
	return t, nil
}
