package stdlib

import (
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
)

// Maps is the package of map functions. Map keys must be nil, bool, int,
// float, string or bytes values.
var Maps = machine.PackageFunc(func(lib *machine.Module) {
	lib.SetNativeFn("map_len", params(mapParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.Int(args[0].(*types.Map).Len()), nil
	})
	lib.SetAnyFn("map_get", 2, mapGet)
	lib.SetAnyFn("map_has", 2, mapHas)
	lib.SetFunction(&machine.Function{Name: "map_set", Arity: 3, Method: true, Fn: mapSet})
})

// mapGet returns the value of the key, or nil if it is not set.
func mapGet(c *machine.Context, args []types.Value) (types.Value, error) {
	m, err := arg[*types.Map](c, args, 0)
	if err != nil {
		return nil, err
	}
	v, ok, err := m.Get(args[1])
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.Nil, nil
	}
	return v, nil
}

func mapHas(c *machine.Context, args []types.Value) (types.Value, error) {
	m, err := arg[*types.Map](c, args, 0)
	if err != nil {
		return nil, err
	}
	_, ok, err := m.Get(args[1])
	if err != nil {
		return nil, err
	}
	return types.Bool(ok), nil
}

// mapSet sets the key to the value and returns the map.
func mapSet(c *machine.Context, args []types.Value) (types.Value, error) {
	m, err := arg[*types.Map](c, args, 0)
	if err != nil {
		return nil, err
	}
	if err := m.SetKey(args[1], args[2]); err != nil {
		return nil, err
	}
	return m, nil
}
