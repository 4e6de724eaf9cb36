package maincmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
	"github.com/mna/mainer"
)

func (c *Cmd) Call(ctx context.Context, stdio mainer.Stdio, args []string) error {
	eng, err := c.newEngine(stdio)
	if err != nil {
		return printError(stdio, err)
	}
	return printError(stdio, CallFn(ctx, stdio, eng, args[0], args[1:]...))
}

// CallFn calls the function fn of the engine with args, parsed with
// ParseArg, and prints the result. If fn is namespace-qualified (e.g.
// "geo::inc"), it is resolved in the engine's modules.
func CallFn(ctx context.Context, stdio mainer.Stdio, eng *machine.Engine, fn string, args ...string) error {
	vals := make([]types.Value, len(args))
	for i, a := range args {
		vals[i] = ParseArg(a)
	}

	var (
		res types.Value
		err error
	)
	if segs := strings.Split(fn, "::"); len(segs) > 1 {
		path := append([]string{""}, segs[:len(segs)-1]...)
		slots := make([]*types.Value, len(vals))
		for i := range vals {
			slots[i] = &vals[i]
		}
		res, err = eng.NewContext(ctx, nil).CallQualified(path, segs[len(segs)-1], slots)
	} else {
		fp, ferr := machine.NewFnPtr(fn)
		if ferr != nil {
			return ferr
		}
		res, err = machine.Call[types.Value](ctx, fp, eng, nil, vals...)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdio.Stdout, res)
	return err
}

// ParseArg parses a command-line argument as a value: nil, true and false,
// an int, a float, a quoted string or, if none of those apply, a bare
// string.
func ParseArg(s string) types.Value {
	switch s {
	case "nil":
		return types.Nil
	case "true":
		return types.True
	case "false":
		return types.False
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return types.Float(f)
	}
	if strings.HasPrefix(s, `"`) {
		if us, err := strconv.Unquote(s); err == nil {
			return types.String(us)
		}
	}
	return types.String(s)
}
