// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zkscript is a runtime for scripts describing zero-knowledge proofs of
// knowledge of discrete-log representations, in safe-prime RSA groups and prime-order
// groups. Scripts are built in a script.Environment from typed variables, expressions
// and representations; the sigma package proves and verifies them, the rangeproof
// package adds inequality statements, and the expcache package speeds up the
// exponentiations involved. This package holds default parameters and a non-interactive
// proving flow. For now, see zkscript_test.go on how to use the library.
package zkscript
