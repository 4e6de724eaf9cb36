package types

import "github.com/mna/lilypad/lang/hashing"

// Bool is the type of boolean values.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

// BoolTypeID is the type identity token of Bool.
var BoolTypeID = hashing.NewTypeID("bool")

// Bool is a Value.
var _ Value = True

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b Bool) Type() string           { return "bool" }
func (b Bool) TypeID() hashing.TypeID { return BoolTypeID }
