// Package stdlib implements the built-in packages of functions that can be
// registered in an engine. Standard registers all of them.
package stdlib

import (
	"fmt"

	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
)

// Standard is the package of all built-in functions.
var Standard = machine.Packages{Core, Math, Strings, Arrays, Maps}

// maxVariadic is the highest arity registered for the built-ins that take a
// variable number of arguments (curry and call), the function pointer
// included.
const maxVariadic = 9

var (
	fnParam    = machine.Param{ID: machine.FnPtrTypeID, Name: "Fn"}
	intParam   = machine.P(types.Int(0))
	floatParam = machine.P(types.Float(0))
	strParam   = machine.P(types.String(""))
	bytesParam = machine.P(types.Bytes(""))
	arrayParam = machine.P(types.NewArray(nil))
	mapParam   = machine.P(types.NewMap(0))
)

// params is a shorthand to build a list of typed parameters.
func params(ps ...machine.Param) []machine.Param { return ps }

// arg returns the argument at index i converted to T, failing with an error
// that identifies the called function otherwise.
func arg[T types.Value](c *machine.Context, args []types.Value, i int) (T, error) {
	v, ok := types.Cast[T](args[i])
	if !ok {
		return v, fmt.Errorf("%s: argument %d: want %s, got %s", c.FnName(), i+1, types.TypeName[T](), args[i].Type())
	}
	return v, nil
}
