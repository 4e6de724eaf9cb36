package stdlib

import (
	"fmt"

	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
)

// Arrays is the package of array functions. The higher-order functions call
// back the function pointer they receive in the call context of the
// built-in.
var Arrays = machine.PackageFunc(func(lib *machine.Module) {
	lib.SetNativeFn("len", params(arrayParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.Int(args[0].(*types.Array).Len()), nil
	})
	lib.SetFunction(&machine.Function{Name: "push", Arity: 2, Method: true, Fn: push})
	lib.SetNativeFn("get", params(arrayParam, intParam), get)
	lib.SetNativeFn("map", params(arrayParam, fnParam), mapArray)
	lib.SetNativeFn("filter", params(arrayParam, fnParam), filter)
	lib.SetAnyFn("reduce", 3, reduce)
})

// push appends the value to the array and returns the array.
func push(c *machine.Context, args []types.Value) (types.Value, error) {
	a, err := arg[*types.Array](c, args, 0)
	if err != nil {
		return nil, err
	}
	if err := a.Append(args[1]); err != nil {
		return nil, err
	}
	return a, nil
}

func get(_ *machine.Context, args []types.Value) (types.Value, error) {
	a, i := args[0].(*types.Array), int(args[1].(types.Int))
	if i < 0 || i >= a.Len() {
		return nil, fmt.Errorf("get: index %d out of range [0:%d]", i, a.Len())
	}
	return a.Index(i), nil
}

// each calls fn for each element of a, stopping at the first error.
func each(a *types.Array, fn func(v types.Value) error) error {
	it := a.Iterate()
	defer it.Done()

	var v types.Value
	for it.Next(&v) {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

func mapArray(c *machine.Context, args []types.Value) (types.Value, error) {
	a, fp := args[0].(*types.Array), args[1].(*machine.FnPtr)
	res := make([]types.Value, 0, a.Len())
	err := each(a, func(v types.Value) error {
		mv, err := machine.CallWithin[types.Value](c, fp, v)
		res = append(res, mv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return types.NewArray(res), nil
}

func filter(c *machine.Context, args []types.Value) (types.Value, error) {
	a, fp := args[0].(*types.Array), args[1].(*machine.FnPtr)
	var res []types.Value
	err := each(a, func(v types.Value) error {
		keep, err := machine.CallWithin[types.Bool](c, fp, v)
		if keep {
			res = append(res, v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return types.NewArray(res), nil
}

// reduce calls the function pointer with the accumulator, starting with the
// initial value, and each element of the array in turn. It returns the final
// accumulator.
func reduce(c *machine.Context, args []types.Value) (types.Value, error) {
	a, err := arg[*types.Array](c, args, 0)
	if err != nil {
		return nil, err
	}
	fp, err := arg[*machine.FnPtr](c, args, 1)
	if err != nil {
		return nil, err
	}
	acc := args[2]
	err = each(a, func(v types.Value) error {
		acc, err = machine.CallWithin[types.Value](c, fp, acc, v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}
