package stdlib

import (
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
)

// Core is the package of the core built-ins: type inspection and function
// pointers.
var Core = machine.PackageFunc(func(lib *machine.Module) {
	lib.SetAnyFn("type_of", 1, typeOf)
	lib.SetNativeFn("Fn", params(strParam), newFn)
	lib.SetNativeFn("is_anonymous", params(fnParam), isAnonymous)
	lib.SetNativeFn("name", params(fnParam), fnName)
	lib.SetNativeFn("num_curried", params(fnParam), numCurried)
	for n := 1; n <= maxVariadic; n++ {
		lib.SetAnyFn("curry", n, curry)
		lib.SetAnyFn("call", n, call)
	}
})

func typeOf(_ *machine.Context, args []types.Value) (types.Value, error) {
	return types.String(args[0].Type()), nil
}

func newFn(_ *machine.Context, args []types.Value) (types.Value, error) {
	fp, err := machine.NewFnPtr(string(args[0].(types.String)))
	if err != nil {
		return nil, err
	}
	return fp, nil
}

func isAnonymous(_ *machine.Context, args []types.Value) (types.Value, error) {
	return types.Bool(args[0].(*machine.FnPtr).IsAnonymous()), nil
}

func fnName(_ *machine.Context, args []types.Value) (types.Value, error) {
	return types.String(args[0].(*machine.FnPtr).Name()), nil
}

func numCurried(_ *machine.Context, args []types.Value) (types.Value, error) {
	return types.Int(args[0].(*machine.FnPtr).NumCurried()), nil
}

// curry returns a copy of the function pointer with the remaining arguments
// added to its curried arguments.
func curry(c *machine.Context, args []types.Value) (types.Value, error) {
	fp, err := arg[*machine.FnPtr](c, args, 0)
	if err != nil {
		return nil, err
	}
	cp := fp.Clone().(*machine.FnPtr)
	for _, v := range args[1:] {
		cp.AddCurry(v)
	}
	return cp, nil
}

// call calls the function pointer with the remaining arguments.
func call(c *machine.Context, args []types.Value) (types.Value, error) {
	fp, err := arg[*machine.FnPtr](c, args, 0)
	if err != nil {
		return nil, err
	}
	return fp.CallRaw(c, nil, args[1:])
}
