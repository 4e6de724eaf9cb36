package stdlib

import (
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
)

// Math is the package of arithmetic functions. The binary operations are
// overloaded for all combinations of int and float operands, a float operand
// makes the result a float.
var Math = machine.PackageFunc(func(lib *machine.Module) {
	arith(lib, "add",
		func(a, b types.Int) types.Int { return a + b },
		func(a, b types.Float) types.Float { return a + b })
	arith(lib, "sub",
		func(a, b types.Int) types.Int { return a - b },
		func(a, b types.Float) types.Float { return a - b })
	arith(lib, "mul",
		func(a, b types.Int) types.Int { return a * b },
		func(a, b types.Float) types.Float { return a * b })

	lib.SetNativeFn("neg", params(intParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return -args[0].(types.Int), nil
	})
	lib.SetNativeFn("neg", params(floatParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return -args[0].(types.Float), nil
	})
	lib.SetNativeFn("abs", params(intParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		if i := args[0].(types.Int); i < 0 {
			return -i, nil
		}
		return args[0], nil
	})
	lib.SetNativeFn("abs", params(floatParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		if f := args[0].(types.Float); f < 0 {
			return -f, nil
		}
		return args[0], nil
	})
})

func arith(lib *machine.Module, name string, iop func(a, b types.Int) types.Int, fop func(a, b types.Float) types.Float) {
	lib.SetNativeFn(name, params(intParam, intParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return iop(args[0].(types.Int), args[1].(types.Int)), nil
	})
	lib.SetNativeFn(name, params(floatParam, floatParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return fop(args[0].(types.Float), args[1].(types.Float)), nil
	})
	lib.SetNativeFn(name, params(intParam, floatParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return fop(types.Float(args[0].(types.Int)), args[1].(types.Float)), nil
	})
	lib.SetNativeFn(name, params(floatParam, intParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return fop(args[0].(types.Float), types.Float(args[1].(types.Int))), nil
	})
}
