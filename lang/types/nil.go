package types

import "github.com/mna/lilypad/lang/hashing"

// NilType is the type of nil. Its only legal value is Nil. (We represent it as
// a number, not struct{}, so that Nil may be constant.)
//
// Nil is also the placeholder left in an argument slot after its value has
// been moved out (see Take).
type NilType byte

const Nil = NilType(0)

// NilTypeID is the type identity token of NilType.
var NilTypeID = hashing.NewTypeID("nil")

// Nil is a Value.
var _ Value = Nil

func (NilType) String() string          { return "nil" }
func (NilType) Type() string            { return "nil" }
func (NilType) TypeID() hashing.TypeID  { return NilTypeID }
