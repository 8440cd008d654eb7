package zkscript

import (
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/params"
	"github.com/privacybydesign/zkscript/script"
	"github.com/privacybydesign/zkscript/sigma"
)

// Prove proves knowledge of the exponents of all representations registered in env,
// deriving the challenge from context, nonce and the commitments. The transcript also
// contains the values of the variables named in echo.
func Prove(env *script.Environment, params *params.SystemParameters, context, nonce *big.Int, echo ...string) (*sigma.Transcript, error) {
	prover := sigma.NewProver(env, params)
	commitments, err := prover.Commit()
	if err != nil {
		return nil, err
	}
	c, err := sigma.FiatShamirChallenge(params, context, nonce, env, commitments)
	if err != nil {
		return nil, err
	}
	if err = prover.ReceiveChallenge(c); err != nil {
		return nil, err
	}
	if _, err = prover.Respond(); err != nil {
		return nil, err
	}
	return prover.Transcript(echo...)
}

// Verify stores the public values of t in env and checks its proof against the
// representations registered in env, for the given context and nonce.
func Verify(env *script.Environment, params *params.SystemParameters, context, nonce *big.Int, t *sigma.Transcript) bool {
	if err := t.Apply(env); err != nil {
		Logger.Warnf("proof rejected: %v", err)
		return false
	}
	for _, a := range t.Proof.Commitments {
		if a == nil {
			Logger.Warn("proof rejected: missing commitment")
			return false
		}
	}
	c, err := sigma.FiatShamirChallenge(params, context, nonce, env, t.Proof.Commitments)
	if err != nil {
		Logger.Warnf("proof rejected: %v", err)
		return false
	}
	verifier := sigma.NewVerifier(env, params)
	if err = verifier.SetChallenge(c); err != nil {
		Logger.Warnf("proof rejected: %v", err)
		return false
	}
	return verifier.Verify(&t.Proof)
}

// VerifyBinary decodes a transcript produced with Transcript.MarshalBinary and verifies it.
func VerifyBinary(env *script.Environment, params *params.SystemParameters, context, nonce *big.Int, data []byte) bool {
	t, err := sigma.UnmarshalTranscript(data)
	if err != nil {
		Logger.Warnf("proof rejected: %v", err)
		return false
	}
	return Verify(env, params, context, nonce, t)
}
