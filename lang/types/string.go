package types

import (
	"strconv"

	"github.com/mna/lilypad/lang/hashing"
)

// String is the type of a text string. It encapsulates an immutable sequence
// of bytes.
type String string

// StringTypeID is the type identity token of String.
var StringTypeID = hashing.NewTypeID("string")

var _ Value = String("")

func (s String) String() string         { return strconv.Quote(string(s)) }
func (s String) Type() string           { return "string" }
func (s String) TypeID() hashing.TypeID { return StringTypeID }
