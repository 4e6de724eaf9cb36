package machine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	name                  string
	isMethod, mutateFirst bool
	args                  []types.Value
}

// recordingCaller records the calls it receives and returns ret.
type recordingCaller struct {
	calls []recordedCall
	ret   types.Value
	err   error
}

func (rc *recordingCaller) Engine() *machine.Engine { return nil }

func (rc *recordingCaller) CallFnRaw(name string, isMethod, mutateFirst bool, args []*types.Value) (types.Value, error) {
	vals := make([]types.Value, len(args))
	for i, a := range args {
		vals[i] = *a
	}
	rc.calls = append(rc.calls, recordedCall{name: name, isMethod: isMethod, mutateFirst: mutateFirst, args: vals})
	return rc.ret, rc.err
}

func TestNewFnPtr(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"add", true},
		{"_private", true},
		{"snake_case2", true},
		{"héllo", true},
		{"", false},
		{"123bad", false},
		{"a-b", false},
		{"has space", false},
		{"_", false},
		{"anon$123", false},
		{"ns::fn", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fp, err := machine.NewFnPtr(c.name)
			if !c.ok {
				var ife *machine.InvalidFunctionNameError
				require.ErrorAs(t, err, &ife)
				assert.Equal(t, c.name, ife.Name)
				assert.Nil(t, fp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.name, fp.Name())
			assert.Equal(t, 0, fp.NumCurried())
			assert.False(t, fp.IsCurried())
			assert.False(t, fp.IsAnonymous())
		})
	}
}

func TestFnPtrCurry(t *testing.T) {
	fp, err := machine.NewFnPtr("add")
	require.NoError(t, err)

	fp.AddCurry(types.Int(1)).AddCurry(types.String("x"))
	assert.Equal(t, 2, fp.NumCurried())
	assert.True(t, fp.IsCurried())
	assert.Equal(t, []types.Value{types.Int(1), types.String("x")}, fp.Curry())
	assert.Equal(t, `Fn(add, [1, "x"])`, fp.String())

	in := []types.Value{types.Bool(true)}
	fp.SetCurry(in)
	in[0] = types.Nil
	assert.Equal(t, []types.Value{types.Bool(true)}, fp.Curry())
	assert.Equal(t, "Fn(add, [true])", fp.String())

	fp.SetCurry([]types.Value{nil, types.Int(2)})
	assert.Equal(t, []types.Value{types.Nil, types.Int(2)}, fp.Curry())
	assert.Equal(t, "Fn(add, [nil, 2])", fp.String())
	fp.AddCurry(nil)
	assert.Equal(t, types.Nil, fp.Curry()[2])
	assert.Equal(t, "Fn(add, [nil, 2, nil])", fp.String())

	fp.SetCurry(nil)
	assert.False(t, fp.IsCurried())
	assert.Equal(t, "Fn(add)", fp.String())
	assert.Equal(t, "Fn", fp.Type())
	assert.Equal(t, machine.FnPtrTypeID, fp.TypeID())
}

func TestFnPtrClone(t *testing.T) {
	fp, err := machine.NewFnPtr("f")
	require.NoError(t, err)
	fp.AddCurry(types.Int(1))

	cp := types.Clone(fp).(*machine.FnPtr)
	cp.AddCurry(types.Int(2))
	assert.Equal(t, 1, fp.NumCurried())
	assert.Equal(t, 2, cp.NumCurried())
}

func TestFnPtrIsAnonymous(t *testing.T) {
	prog := machine.NewProgram("main.lp")
	fp := prog.DefineAnonymous(0, token.MakePos(1, 1), func(c *machine.Context, args []types.Value) (types.Value, error) {
		return types.Nil, nil
	})
	assert.True(t, fp.IsAnonymous())
	assert.Contains(t, fp.Name(), machine.AnonymousPrefix)

	other := prog.DefineAnonymous(0, token.MakePos(2, 1), func(c *machine.Context, args []types.Value) (types.Value, error) {
		return types.Nil, nil
	})
	assert.NotEqual(t, fp.Name(), other.Name())
}

func TestFnPtrCallRaw(t *testing.T) {
	t.Run("function style", func(t *testing.T) {
		rc := &recordingCaller{ret: types.Int(42)}
		fp, err := machine.NewFnPtr("f")
		require.NoError(t, err)
		fp.SetCurry([]types.Value{types.Int(1), types.Int(2)})

		args := []types.Value{types.Int(3), types.String("s")}
		res, err := fp.CallRaw(rc, nil, args)
		require.NoError(t, err)
		assert.Equal(t, types.Int(42), res)

		require.Len(t, rc.calls, 1)
		call := rc.calls[0]
		assert.Equal(t, "f", call.name)
		assert.False(t, call.isMethod)
		assert.False(t, call.mutateFirst)
		assert.Equal(t, []types.Value{types.Int(1), types.Int(2), types.Int(3), types.String("s")}, call.args)

		// args are consumed, curried values are not
		assert.Equal(t, []types.Value{types.Nil, types.Nil}, args)
		assert.Equal(t, []types.Value{types.Int(1), types.Int(2)}, fp.Curry())
	})

	t.Run("method style", func(t *testing.T) {
		rc := &recordingCaller{}
		fp, err := machine.NewFnPtr("m")
		require.NoError(t, err)

		var this types.Value = types.String("receiver")
		_, err = fp.CallRaw(rc, &this, []types.Value{types.Int(1)})
		require.NoError(t, err)

		require.Len(t, rc.calls, 1)
		call := rc.calls[0]
		assert.True(t, call.isMethod)
		assert.True(t, call.mutateFirst)
		assert.Equal(t, []types.Value{types.String("receiver"), types.Int(1)}, call.args)
	})

	t.Run("curried values are cloned", func(t *testing.T) {
		arr := types.NewArray([]types.Value{types.Int(1)})
		fp, err := machine.NewFnPtr("f")
		require.NoError(t, err)
		fp.AddCurry(arr)

		rc := &recordingCaller{}
		_, err = fp.CallRaw(rc, nil, nil)
		require.NoError(t, err)
		require.Len(t, rc.calls, 1)
		got := rc.calls[0].args[0].(*types.Array)
		assert.NotSame(t, arr, got)
		require.NoError(t, got.Append(types.Int(2)))
		assert.Equal(t, 1, arr.Len())
	})

	t.Run("error passthrough", func(t *testing.T) {
		myErr := errors.New("boom")
		rc := &recordingCaller{err: myErr}
		fp, err := machine.NewFnPtr("f")
		require.NoError(t, err)

		_, err = fp.CallRaw(rc, nil, nil)
		assert.Same(t, myErr, err)
	})
}

func newEngine(t *testing.T) *machine.Engine {
	t.Helper()
	eng, err := machine.New(machine.DefaultConfig())
	require.NoError(t, err)
	return eng
}

func addInts(c *machine.Context, args []types.Value) (types.Value, error) {
	return args[0].(types.Int) + args[1].(types.Int), nil
}

func TestCall(t *testing.T) {
	eng := newEngine(t)
	eng.Global().SetNativeFn("add", []machine.Param{machine.P(types.Int(0)), machine.P(types.Int(0))}, addInts)

	prog := machine.NewProgram("main.lp")
	prog.Define("double", 1, token.MakePos(1, 1), func(c *machine.Context, args []types.Value) (types.Value, error) {
		return c.Call("add", args[0], args[0])
	})

	ctx := context.Background()

	t.Run("native", func(t *testing.T) {
		fp, err := machine.NewFnPtr("add")
		require.NoError(t, err)
		fp.AddCurry(types.Int(40))

		args := []types.Value{types.Int(2)}
		res, err := machine.Call[types.Int](ctx, fp, eng, nil, args...)
		require.NoError(t, err)
		assert.Equal(t, types.Int(42), res)
		assert.Equal(t, types.Int(2), args[0], "args are not consumed")
	})

	t.Run("script", func(t *testing.T) {
		fp, err := machine.NewFnPtr("double")
		require.NoError(t, err)

		res, err := machine.Call[types.Int](ctx, fp, eng, prog, types.Int(21))
		require.NoError(t, err)
		assert.Equal(t, types.Int(42), res)
	})

	t.Run("as Value", func(t *testing.T) {
		fp, err := machine.NewFnPtr("add")
		require.NoError(t, err)

		res, err := machine.Call[types.Value](ctx, fp, eng, nil, types.Int(1), types.Int(2))
		require.NoError(t, err)
		assert.Equal(t, types.Int(3), res)
	})

	t.Run("output mismatch", func(t *testing.T) {
		fp, err := machine.NewFnPtr("add")
		require.NoError(t, err)

		_, err = machine.Call[types.String](ctx, fp, eng, nil, types.Int(1), types.Int(2))
		var mot *machine.MismatchOutputTypeError
		require.ErrorAs(t, err, &mot)
		assert.Equal(t, "string", mot.Want)
		assert.Equal(t, "int", mot.Got)
	})

	t.Run("not found", func(t *testing.T) {
		fp, err := machine.NewFnPtr("double")
		require.NoError(t, err)

		// script function not visible without its program
		_, err = machine.Call[types.Int](ctx, fp, eng, nil, types.Int(1))
		var fnf *machine.FunctionNotFoundError
		require.ErrorAs(t, err, &fnf)
		assert.Equal(t, "double", fnf.Name)
		assert.Equal(t, []string{"int"}, fnf.ArgTypes)
	})

	t.Run("wrong arity", func(t *testing.T) {
		fp, err := machine.NewFnPtr("add")
		require.NoError(t, err)

		_, err = machine.Call[types.Int](ctx, fp, eng, nil, types.Int(1))
		var fnf *machine.FunctionNotFoundError
		require.ErrorAs(t, err, &fnf)
	})

	t.Run("wrong types", func(t *testing.T) {
		fp, err := machine.NewFnPtr("add")
		require.NoError(t, err)

		_, err = machine.Call[types.Int](ctx, fp, eng, nil, types.Int(1), types.String("x"))
		var fnf *machine.FunctionNotFoundError
		require.ErrorAs(t, err, &fnf)
		assert.Equal(t, []string{"int", "string"}, fnf.ArgTypes)
		assert.Contains(t, err.Error(), "function not found: add (int, string)")
	})

	t.Run("error identity", func(t *testing.T) {
		myErr := errors.New("failed")
		eng.Global().SetAnyFn("fail", 0, func(c *machine.Context, args []types.Value) (types.Value, error) {
			return nil, myErr
		})
		fp, err := machine.NewFnPtr("fail")
		require.NoError(t, err)

		_, err = machine.Call[types.Value](ctx, fp, eng, nil)
		assert.Same(t, myErr, err)
	})
}

func TestCallWithin(t *testing.T) {
	eng := newEngine(t)
	eng.Global().SetNativeFn("add", []machine.Param{machine.P(types.Int(0)), machine.P(types.Int(0))}, addInts)

	// apply(fp, v) calls fp with v from within the native function's context
	eng.Global().SetNativeFn("apply", []machine.Param{{ID: machine.FnPtrTypeID, Name: "Fn"}, machine.P(types.Int(0))},
		func(c *machine.Context, args []types.Value) (types.Value, error) {
			assert.Equal(t, "apply", c.FnName())
			assert.Equal(t, 1, c.Thread().Depth())
			return machine.CallWithin[types.Int](c, args[0].(*machine.FnPtr), args[1])
		})

	prog := machine.NewProgram("main.lp")
	inc := prog.DefineAnonymous(1, token.MakePos(3, 5), func(c *machine.Context, args []types.Value) (types.Value, error) {
		assert.Equal(t, 2, c.Thread().Depth())
		return c.Call("add", args[0], types.Int(1))
	})

	apply, err := machine.NewFnPtr("apply")
	require.NoError(t, err)
	res, err := machine.Call[types.Int](context.Background(), apply, eng, prog, inc, types.Int(41))
	require.NoError(t, err)
	assert.Equal(t, types.Int(42), res)
}

func TestCallMethodWriteBack(t *testing.T) {
	eng := newEngine(t)
	eng.Global().SetMethodFn("bump", []machine.Param{machine.P(types.Int(0))}, func(c *machine.Context, args []types.Value) (types.Value, error) {
		args[0] = args[0].(types.Int) + 1
		return types.Nil, nil
	})
	eng.Global().SetNativeFn("peek", []machine.Param{machine.P(types.Int(0))}, func(c *machine.Context, args []types.Value) (types.Value, error) {
		args[0] = types.Int(-1)
		return types.Nil, nil
	})
	prog := machine.NewProgram("")
	prog.Define("reset", 1, token.NoPos, func(c *machine.Context, args []types.Value) (types.Value, error) {
		args[0] = types.Int(0)
		return types.Nil, nil
	})
	c := eng.NewContext(context.Background(), prog)

	bump, err := machine.NewFnPtr("bump")
	require.NoError(t, err)
	var recv types.Value = types.Int(1)
	_, err = bump.CallRaw(c, &recv, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Int(2), recv)

	// not a method: receiver left untouched
	peek, err := machine.NewFnPtr("peek")
	require.NoError(t, err)
	_, err = peek.CallRaw(c, &recv, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Int(2), recv)

	// script functions may always mutate their receiver
	reset, err := machine.NewFnPtr("reset")
	require.NoError(t, err)
	_, err = reset.CallRaw(c, &recv, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Int(0), recv)

	// a failed call leaves the receiver unchanged
	errBump := errors.New("bump failed")
	eng.Global().SetMethodFn("bumpfail", []machine.Param{machine.P(types.Int(0))}, func(c *machine.Context, args []types.Value) (types.Value, error) {
		args[0] = args[0].(types.Int) + 1
		return nil, errBump
	})
	bumpFail, err := machine.NewFnPtr("bumpfail")
	require.NoError(t, err)
	_, err = bumpFail.CallRaw(c, &recv, nil)
	require.ErrorIs(t, err, errBump)
	assert.Equal(t, types.Int(0), recv)
}
