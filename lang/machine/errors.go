package machine

import (
	"fmt"
	"strings"

	"github.com/mna/lilypad/lang/token"
)

// InvalidFunctionNameError is returned when a function pointer is created
// with a name that is not a valid identifier.
type InvalidFunctionNameError struct {
	Name string
}

func (e *InvalidFunctionNameError) Error() string {
	return fmt.Sprintf("invalid function name: %q", e.Name)
}

// FunctionNotFoundError is returned when no function matches the signature
// of a call.
type FunctionNotFoundError struct {
	// Name is the name of the function, qualified with its namespace path if
	// the call was qualified (e.g. "math::trig::sin").
	Name string
	// ArgTypes are the type names of the arguments of the call.
	ArgTypes []string
	Pos      token.Pos
}

func (e *FunctionNotFoundError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("function not found: %s (%s)", e.Name, strings.Join(e.ArgTypes, ", ")))
}

// MismatchOutputTypeError is returned when the result of a call cannot be
// converted to the type requested by the caller.
type MismatchOutputTypeError struct {
	Want, Got string
	Pos       token.Pos
}

func (e *MismatchOutputTypeError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("output type mismatch: want %s, got %s", e.Want, e.Got))
}

// ModuleNotFoundError is returned by a ModuleResolver that cannot provide
// the requested module.
type ModuleNotFoundError struct {
	Path string
	Pos  token.Pos
}

func (e *ModuleNotFoundError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("module not found: %s", e.Path))
}

// VariableNotFoundError is returned when a namespace-qualified variable does
// not exist.
type VariableNotFoundError struct {
	// Name is the qualified name of the variable (e.g. "config::answer").
	Name string
	Pos  token.Pos
}

func (e *VariableNotFoundError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("variable not found: %s", e.Name))
}

func withPos(pos token.Pos, msg string) string {
	if pos.Unknown() {
		return msg
	}
	return pos.String() + ": " + msg
}

func qualifiedName(path []string, name string) string {
	if len(path) <= 1 {
		return name
	}
	return strings.Join(path[1:], "::") + "::" + name
}
