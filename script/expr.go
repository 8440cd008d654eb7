package script

import (
	"encoding/binary"
	"fmt"

	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/zkscript/big"
)

// Op is the kind of an expression node.
type Op int

const (
	OpInt Op = iota
	OpIdent
	OpIdentSub
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
)

var opSymbols = map[Op]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

// Key identifies an expression by its structure. Structurally equal expressions have
// equal keys regardless of how they were built.
type Key string

// Expr is a node of an expression tree. Expressions are immutable once constructed.
type Expr struct {
	op    Op
	value *big.Int // OpInt
	name  string   // OpIdent, OpIdentSub
	left  *Expr    // operand of OpNeg, subscript of OpIdentSub
	right *Expr

	key  Key
	text string
	// contains a subscripted identifier, so its type may change with the subscript's value
	dynamic bool
}

func Int(v int64) *Expr {
	return IntValue(big.NewInt(v))
}

func IntValue(v *big.Int) *Expr {
	return newExpr(&Expr{op: OpInt, value: new(big.Int).Set(v)})
}

func Ident(name string) *Expr {
	return newExpr(&Expr{op: OpIdent, name: name})
}

// IdentSub refers to the variable name[v], where v is the value of sub.
func IdentSub(name string, sub *Expr) *Expr {
	return newExpr(&Expr{op: OpIdentSub, name: name, left: sub})
}

func Neg(x *Expr) *Expr {
	return newExpr(&Expr{op: OpNeg, left: x})
}

func Add(l, r *Expr) *Expr { return newExpr(&Expr{op: OpAdd, left: l, right: r}) }
func Sub(l, r *Expr) *Expr { return newExpr(&Expr{op: OpSub, left: l, right: r}) }
func Mul(l, r *Expr) *Expr { return newExpr(&Expr{op: OpMul, left: l, right: r}) }
func Div(l, r *Expr) *Expr { return newExpr(&Expr{op: OpDiv, left: l, right: r}) }
func Pow(l, r *Expr) *Expr { return newExpr(&Expr{op: OpPow, left: l, right: r}) }

func newExpr(e *Expr) *Expr {
	var payload []byte
	switch e.op {
	case OpInt:
		payload, _ = e.value.MarshalBinary()
		e.text = e.value.String()
	case OpIdent:
		payload = []byte(e.name)
		e.text = e.name
	case OpIdentSub:
		payload = []byte(e.name)
		e.text = e.name + "[" + e.left.text + "]"
		e.dynamic = true
	case OpNeg:
		e.text = "-" + e.left.paren()
		e.dynamic = e.left.dynamic
	default:
		e.text = e.left.paren() + opSymbols[e.op] + e.right.paren()
		e.dynamic = e.left.dynamic || e.right.dynamic
	}
	e.key = structuralKey(e.op, payload, e.left, e.right)
	return e
}

// structuralKey hashes the node's op, its own payload and the keys of its children,
// each length-prefixed.
func structuralKey(op Op, payload []byte, children ...*Expr) Key {
	buf := make([]byte, 0, 16+len(payload)+2*40)
	buf = appendUvarint(buf, uint64(op))
	buf = appendUvarint(buf, uint64(len(payload)))
	buf = append(buf, payload...)
	for _, c := range children {
		if c == nil {
			continue
		}
		buf = appendUvarint(buf, uint64(len(c.key)))
		buf = append(buf, c.key...)
	}
	return hashKey(buf)
}

func appendUvarint(buf []byte, x uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	return append(buf, tmp[:n]...)
}

func hashKey(data []byte) Key {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		panic(fmt.Sprintf("multihash failed: %v", err))
	}
	return Key(mh)
}

// paren returns the text of e, parenthesized unless e is atomic.
func (e *Expr) paren() string {
	switch e.op {
	case OpInt:
		if e.value.Sign() < 0 {
			return "(" + e.text + ")"
		}
		return e.text
	case OpIdent, OpIdentSub:
		return e.text
	default:
		return "(" + e.text + ")"
	}
}

func (e *Expr) Op() Op {
	return e.op
}

// Name returns the identifier of OpIdent and OpIdentSub nodes.
func (e *Expr) Name() string {
	return e.name
}

// Value returns the literal of OpInt nodes.
func (e *Expr) Value() *big.Int {
	return e.value
}

// Operands returns the children of the node: the subscript of OpIdentSub, the
// operand of OpNeg, and both sides of binary operations.
func (e *Expr) Operands() []*Expr {
	switch {
	case e.left == nil:
		return nil
	case e.right == nil:
		return []*Expr{e.left}
	default:
		return []*Expr{e.left, e.right}
	}
}

func (e *Expr) Key() Key {
	return e.key
}

func (e *Expr) String() string {
	return e.text
}
