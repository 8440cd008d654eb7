// Package params contains the system parameters that bound the sizes of secrets,
// masks, challenges and precomputed tables.
package params

type (
	// SystemParameters holds the system parameters of a proof session.
	SystemParameters struct {
		BaseParameters
		DerivedParameters
	}

	// BaseParameters holds the base system parameters
	BaseParameters struct {
		Ln      uint // modulus length
		Lh      uint // challenge length
		Lm      uint // length of committed messages
		Lstatzk uint // statistical zero-knowledge security parameter

		WindowBits      uint // window size of fixed-base tables
		MultiWindowBits uint // window size per base of multi-base tables
	}

	// DerivedParameters holds system parameters that can be derived from base
	// systemparameters (BaseParameters)
	DerivedParameters struct {
		ExponentBits uint // bound on secret exponents
		MaskBits     uint // length of randomizers used in commitments
		TableBits    uint // bound on exponents served by precomputed tables
	}
)

// MakeDerivedParameters computes the derived system parameters
func MakeDerivedParameters(base BaseParameters) DerivedParameters {
	exponentBits := base.Ln + base.Lstatzk
	if base.Lm > exponentBits {
		exponentBits = base.Lm
	}
	maskBits := exponentBits + base.Lh + base.Lstatzk
	return DerivedParameters{
		ExponentBits: exponentBits,
		MaskBits:     maskBits,
		// responses r + c*x are at most one bit longer than the masks
		TableBits: maskBits + 1,
	}
}

// New returns the system parameters derived from base.
func New(base BaseParameters) *SystemParameters {
	return &SystemParameters{base, MakeDerivedParameters(base)}
}
