package sigma

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/script"
)

// Transcript is a proof message: optionally echoed values, the public values the
// verifier needs and the proof itself.
type Transcript struct {
	Values map[string]*big.Int `cbor:"values,omitempty"`
	Public map[string]*big.Int `cbor:"public"`
	Proof  SigmaProof          `cbor:"proof"`
}

const (
	maxArrayElements = 1024 * 256
	maxMapPairs      = 1024 * 256
)

var (
	// Core Deterministic Encoding, RFC 8949 section 4.2.1
	encOptions = cbor.EncOptions{
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,
		TagsMd:        cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength:       cbor.IndefLengthForbidden,
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements:  maxArrayElements,
		MaxMapPairs:       maxMapPairs,
		TagsMd:            cbor.TagsForbidden,
		TimeTag:           cbor.DecTagIgnored,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// transcript has the fields of Transcript but none of its methods, so that the CBOR
// encoder does not call back into MarshalBinary.
type transcript Transcript

// MarshalBinary encodes the transcript as deterministic CBOR.
func (t *Transcript) MarshalBinary() ([]byte, error) {
	return encMode.Marshal((*transcript)(t))
}

// UnmarshalTranscript decodes a transcript encoded with MarshalBinary.
func UnmarshalTranscript(data []byte) (*Transcript, error) {
	t := &Transcript{}
	if err := decMode.Unmarshal(data, (*transcript)(t)); err != nil {
		return nil, errors.WrapPrefix(err, "malformed transcript", 0)
	}
	if t.Proof.Challenge == nil {
		return nil, errors.New("transcript has no challenge")
	}
	return t, nil
}

// Apply stores the public values of the transcript in env. Variables must have been
// declared, and their values may not contradict values already present.
func (t *Transcript) Apply(env *script.Environment) error {
	for name, v := range t.Public {
		if old, err := env.Value(name); err == nil {
			if old.Cmp(v) != 0 {
				return errors.Errorf("transcript value of %s differs from known value", name)
			}
			continue
		}
		if err := env.SetValue(name, v); err != nil {
			return err
		}
	}
	return nil
}
