package machine

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
	"golang.org/x/exp/slices"
)

// FnPtrTypeID is the type identity token of *FnPtr.
var FnPtrTypeID = hashing.NewTypeID("Fn")

// A FnPtr is a function pointer: the name of a function and a list of
// curried argument values, which are passed to the function before the
// arguments provided at the call site. It does not reference the function
// itself, which is resolved by name in the call context when the pointer is
// called.
type FnPtr struct {
	name  string
	curry []types.Value
}

var (
	_ types.Value  = (*FnPtr)(nil)
	_ types.Cloner = (*FnPtr)(nil)
)

// NewFnPtr returns an uncurried function pointer to the function name. It
// fails with an *InvalidFunctionNameError if name is not a valid identifier.
func NewFnPtr(name string) (*FnPtr, error) {
	if !token.IsIdentifier(name) {
		return nil, &InvalidFunctionNameError{Name: name}
	}
	return newFnPtrUnchecked(name, nil), nil
}

// NewAnonymousFnPtr returns a function pointer with a unique synthesized
// name reserved for anonymous functions. The name cannot collide with a
// valid identifier.
func NewAnonymousFnPtr() *FnPtr {
	return newFnPtrUnchecked(AnonymousPrefix+strings.ReplaceAll(uuid.NewString(), "-", ""), nil)
}

// newFnPtrUnchecked returns a function pointer without validating name. It
// must only be called with names already validated or synthesized by the
// engine.
func newFnPtrUnchecked(name string, curry []types.Value) *FnPtr {
	return &FnPtr{name: name, curry: curry}
}

// Name returns the name of the function.
func (fp *FnPtr) Name() string { return fp.name }

// Curry returns the curried arguments. The caller must not modify the
// returned slice.
func (fp *FnPtr) Curry() []types.Value { return fp.curry }

// NumCurried returns the number of curried arguments.
func (fp *FnPtr) NumCurried() int { return len(fp.curry) }

// IsCurried returns true if the function pointer has curried arguments.
func (fp *FnPtr) IsCurried() bool { return len(fp.curry) > 0 }

// IsAnonymous returns true if the function pointer refers to an anonymous
// function.
func (fp *FnPtr) IsAnonymous() bool { return strings.HasPrefix(fp.name, AnonymousPrefix) }

// AddCurry appends v to the curried arguments and returns fp. A nil v is
// stored as types.Nil.
func (fp *FnPtr) AddCurry(v types.Value) *FnPtr {
	fp.curry = append(fp.curry, nilToNil(v))
	return fp
}

// SetCurry replaces the curried arguments with vs, in order, and returns fp.
// Nil values are stored as types.Nil.
func (fp *FnPtr) SetCurry(vs []types.Value) *FnPtr {
	fp.curry = make([]types.Value, len(vs))
	for i, v := range vs {
		fp.curry[i] = nilToNil(v)
	}
	return fp
}

func nilToNil(v types.Value) types.Value {
	if v == nil {
		return types.Nil
	}
	return v
}

// String returns "Fn(name)" for an uncurried function pointer, and
// "Fn(name, [v1, v2])" if it has curried arguments.
func (fp *FnPtr) String() string {
	var sb strings.Builder
	sb.WriteString("Fn(")
	sb.WriteString(fp.name)
	if len(fp.curry) > 0 {
		sb.WriteString(", [")
		for i, v := range fp.curry {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.String())
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(')')
	return sb.String()
}

func (fp *FnPtr) Type() string           { return "Fn" }
func (fp *FnPtr) TypeID() hashing.TypeID { return FnPtrTypeID }

// Clone returns a copy of the function pointer that does not share its
// curried arguments list with fp.
func (fp *FnPtr) Clone() types.Value {
	return newFnPtrUnchecked(fp.name, append([]types.Value(nil), fp.curry...))
}

// CallRaw calls the function with the curried arguments followed by args,
// through the caller c. If this is not nil, the call is method-style: this
// is the receiver, passed before all other arguments, and the callee may
// mutate it in place. The mutation is only written back to this if the call
// succeeds.
//
// The args are consumed: each value is moved out of its slot, which is left
// holding types.Nil. Callers that need the values after the call must copy
// them before calling CallRaw. Errors raised by the callee are returned
// unchanged.
func (fp *FnPtr) CallRaw(c Caller, this *types.Value, args []types.Value) (types.Value, error) {
	n := len(fp.curry) + len(args)
	vals := make([]types.Value, n)
	for i, v := range fp.curry {
		vals[i] = types.Clone(v)
	}
	for i := range args {
		vals[len(fp.curry)+i] = types.Take(&args[i])
	}

	isMethod := this != nil
	slots := make([]*types.Value, 0, n+1)
	if isMethod {
		slots = append(slots, this)
	}
	for i := range vals {
		slots = append(slots, &vals[i])
	}
	return c.CallFnRaw(fp.name, isMethod, isMethod, slots)
}

// Call calls the function pointer as a top-level call, in a fresh call
// context of the engine eng. The program prog provides the script-defined
// functions, it may be nil if fp refers to a native function. The result is
// converted to T, failing with a *MismatchOutputTypeError if that is not
// possible.
//
// The args are not consumed.
func Call[T types.Value](ctx context.Context, fp *FnPtr, eng *Engine, prog *Program, args ...types.Value) (T, error) {
	c := eng.NewContext(ctx, prog)
	return castResult[T](fp.CallRaw(c, nil, slices.Clone(args)))
}

// CallWithin calls the function pointer in the existing call context c,
// typically the context of a native function that received fp as argument.
// The result is converted to T, failing with a *MismatchOutputTypeError if
// that is not possible.
//
// The args are not consumed.
func CallWithin[T types.Value](c *Context, fp *FnPtr, args ...types.Value) (T, error) {
	return castResult[T](fp.CallRaw(c, nil, slices.Clone(args)))
}

func castResult[T types.Value](res types.Value, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if res == nil {
		res = types.Nil
	}
	v, ok := types.Cast[T](res)
	if !ok {
		return zero, &MismatchOutputTypeError{Want: types.TypeName[T](), Got: res.Type()}
	}
	return v, nil
}
