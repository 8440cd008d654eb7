package script

import (
	"github.com/privacybydesign/zkscript/group"
)

// Kind is the algebraic category of a value. It selects the arithmetic applied to it.
type Kind int

const (
	Integer Kind = iota
	Modulus
	Exponent
	Element
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Modulus:
		return "modulus"
	case Exponent:
		return "exponent"
	case Element:
		return "element"
	default:
		return "invalid"
	}
}

// GroupID refers to a group in the environment's group table.
type GroupID = group.ID

// NoGroup is the group of values that are not bound to any group.
const NoGroup GroupID = ""

// Type describes a value: its kind, and for every kind but Integer the group it belongs to.
type Type struct {
	Group GroupID
	Kind  Kind
}

func IntegerType() Type {
	return Type{Kind: Integer}
}

func ModulusType(g GroupID) Type {
	return Type{Group: g, Kind: Modulus}
}

func ExponentType(g GroupID) Type {
	return Type{Group: g, Kind: Exponent}
}

func ElementType(g GroupID) Type {
	return Type{Group: g, Kind: Element}
}

func (t Type) String() string {
	if t.Group == NoGroup {
		return t.Kind.String()
	}
	return t.Kind.String() + "@" + string(t.Group)
}
