package types

import (
	"strconv"

	"github.com/mna/lilypad/lang/hashing"
)

// Int is the type of integer values.
type Int int64

// IntTypeID is the type identity token of Int.
var IntTypeID = hashing.NewTypeID("int")

var _ Value = Int(0)

func (i Int) String() string         { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string           { return "int" }
func (i Int) TypeID() hashing.TypeID { return IntTypeID }
