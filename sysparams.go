// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zkscript

import (
	"sort"

	"github.com/privacybydesign/zkscript/params"
)

// defaultBaseParameters holds per keylength the base parameters.
var defaultBaseParameters = map[int]params.BaseParameters{
	1024: {
		Ln:              1024,
		Lh:              256,
		Lm:              256,
		Lstatzk:         80,
		WindowBits:      5,
		MultiWindowBits: 1,
	},
	2048: {
		Ln:              2048,
		Lh:              256,
		Lm:              256,
		Lstatzk:         128,
		WindowBits:      5,
		MultiWindowBits: 1,
	},
	4096: {
		Ln:              4096,
		Lh:              256,
		Lm:              512,
		Lstatzk:         128,
		WindowBits:      5,
		MultiWindowBits: 1,
	},
}

// DefaultSystemParameters holds per keylength the default parameters.
var DefaultSystemParameters = map[int]*params.SystemParameters{
	1024: params.New(defaultBaseParameters[1024]),
	2048: params.New(defaultBaseParameters[2048]),
	4096: params.New(defaultBaseParameters[4096]),
}

// getAvailableKeyLengths returns the keylengths for the provided map of system
// parameters.
func getAvailableKeyLengths(sysParamsMap map[int]*params.SystemParameters) []int {
	lengths := make([]int, 0, len(sysParamsMap))
	for k := range sysParamsMap {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)
	return lengths
}

// DefaultKeyLengths is a slice of integers holding the keylengths for which
// system parameters are available.
var DefaultKeyLengths = getAvailableKeyLengths(DefaultSystemParameters)

// ParamsFor returns the default parameters for a modulus of the given length.
func ParamsFor(keylength int) (*params.SystemParameters, bool) {
	p, ok := DefaultSystemParameters[keylength]
	return p, ok
}
