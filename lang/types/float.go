package types

import (
	"strconv"

	"github.com/mna/lilypad/lang/hashing"
)

// Float is the type of a floating point number.
type Float float64

// FloatTypeID is the type identity token of Float.
var FloatTypeID = hashing.NewTypeID("float")

var _ Value = Float(0)

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

func (f Float) Type() string           { return "float" }
func (f Float) TypeID() hashing.TypeID { return FloatTypeID }
