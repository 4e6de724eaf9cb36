package machine

import (
	"fmt"
	"strings"

	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
)

// NativeFunc is the implementation of a function. For a native function it
// is host code, for a script function it is the compiled body. The args
// slice is owned by the callee; for a method-style call of a Method function
// (or a script function), the value in args[0] when the function returns is
// stored back in the receiver.
type NativeFunc func(c *Context, args []types.Value) (types.Value, error)

// FuncKind indicates where a function is defined.
type FuncKind uint8

// List of function kinds.
const (
	NativeFn FuncKind = iota
	ScriptFn
)

func (k FuncKind) String() string {
	if k == ScriptFn {
		return "script"
	}
	return "native"
}

// A Function is a callable registered in a Module.
type Function struct {
	Name string
	// Arity is the number of parameters, including the receiver for methods.
	Arity int
	// Params are the type identities of the parameters. If nil, the function
	// is untyped and accepts arguments of any type.
	Params []hashing.TypeID
	// ParamNames are the type names corresponding to Params, for display.
	ParamNames []string
	Kind       FuncKind
	// Method is true if the function may mutate its first argument in place
	// when called method-style.
	Method bool
	// Pos is the position of the declaration of a script function.
	Pos token.Pos
	Fn  NativeFunc
}

// Signature returns a human-readable representation of the function's
// signature, e.g. "add(int, int)" or "apply/2" for untyped functions.
func (fn *Function) Signature() string {
	if fn.Params == nil {
		return fmt.Sprintf("%s/%d", fn.Name, fn.Arity)
	}
	return fmt.Sprintf("%s(%s)", fn.Name, strings.Join(fn.ParamNames, ", "))
}

func (fn *Function) String() string {
	var sb strings.Builder
	sb.WriteString(fn.Kind.String())
	if fn.Method {
		sb.WriteString(" method")
	}
	sb.WriteString(" ")
	sb.WriteString(fn.Signature())
	return sb.String()
}

// accepts returns true if args match the parameter types of the function.
func (fn *Function) accepts(args []types.Value) bool {
	if fn.Params == nil {
		return true
	}
	for i, p := range fn.Params {
		if args[i].TypeID() != p {
			return false
		}
	}
	return true
}

// A Param describes a typed parameter of a native function, see P.
type Param struct {
	ID   hashing.TypeID
	Name string
}

// P returns the Param corresponding to the type of the sample value v.
func P(v types.Value) Param {
	return Param{ID: v.TypeID(), Name: v.Type()}
}
