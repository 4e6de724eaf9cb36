package maincmd_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/lilypad/internal/filetest"
	"github.com/mna/lilypad/internal/maincmd"
	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/stdlib"
	"github.com/mna/lilypad/lang/types"
	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modulesDir = filepath.Join("testdata", "modules")

func TestCallGolden(t *testing.T) {
	filetest.Run(t, filepath.Join("testdata", "call"), ".args", func(t *testing.T, input string, stdout, stderr io.Writer) {
		eng, err := machine.New(machine.Config{ModulePath: modulesDir})
		require.NoError(t, err)
		eng.RegisterPackage(stdlib.Standard)

		args := strings.Fields(input)
		require.NotEmpty(t, args)
		stdio := mainer.Stdio{Stdout: stdout, Stderr: stderr}
		if err := maincmd.CallFn(context.Background(), stdio, eng, args[0], args[1:]...); err != nil {
			fmt.Fprintln(stderr, err)
		}
	})
}

func TestParseArg(t *testing.T) {
	cases := []struct {
		in   string
		want types.Value
	}{
		{"nil", types.Nil},
		{"true", types.True},
		{"false", types.False},
		{"42", types.Int(42)},
		{"-3", types.Int(-3)},
		{"1.5", types.Float(1.5)},
		{"1e3", types.Float(1000)},
		{`"quoted str"`, types.String("quoted str")},
		{`"42"`, types.String("42")},
		{"bare", types.String("bare")},
		{`"unterminated`, types.String(`"unterminated`)},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, maincmd.ParseArg(c.in))
		})
	}
}

func TestHashSignatures(t *testing.T) {
	var buf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf}

	err := maincmd.HashSignatures(stdio, nil, "foo/2", "a::b::foo/2", "a::b::x", "x")
	require.NoError(t, err)

	want := fmt.Sprintf("foo/2\tfn\t%016x\na::b::foo/2\tfn\t%016x\na::b::x\tvar\t%016x\nx\tvar\t%016x\n",
		uint64(hashing.FnHash("foo", 2)),
		uint64(hashing.QualifiedFnHash([]string{"", "a", "b"}, "foo", 2)),
		uint64(hashing.QualifiedVarHash([]string{"", "a", "b"}, "x")),
		uint64(hashing.QualifiedVarHash(nil, "x")))
	assert.Equal(t, want, buf.String())

	buf.Reset()
	err = maincmd.HashSignatures(stdio, []string{"int", " string"}, "m::f/2")
	require.NoError(t, err)
	key := hashing.QualifiedFnHash([]string{"", "m"}, "f", 2)
	params := hashing.FnParamsHash([]hashing.TypeID{types.IntTypeID, types.StringTypeID})
	assert.Equal(t, fmt.Sprintf("m::f/2\tfn\t%016x\t%016x\t%016x\n", uint64(key), uint64(params), uint64(key^params)), buf.String())

	cases := []struct {
		types []string
		sig   string
		err   string
	}{
		{nil, "f/x", `f/x: invalid arity: "x"`},
		{nil, "f/-1", `f/-1: invalid arity: "-1"`},
		{nil, "1m::f/1", `1m::f/1: invalid module name: "1m"`},
		{nil, "m::/1", `m::/1: invalid name: ""`},
		{[]string{"int"}, "x", "x: parameter types only apply to functions"},
		{[]string{"int"}, "f/2", "f/2: 1 parameter types for arity 2"},
		{[]string{"integer"}, "f/1", `unknown type: "integer"`},
	}
	for _, c := range cases {
		t.Run(c.sig, func(t *testing.T) {
			err := maincmd.HashSignatures(stdio, c.types, c.sig)
			assert.EqualError(t, err, c.err)
		})
	}
}

func TestPrintFuncs(t *testing.T) {
	lib := machine.NewModule("")
	lib.SetNativeFn("add", []machine.Param{machine.P(types.Int(0)), machine.P(types.Int(0))}, nil)
	lib.SetAnyFn("apply", 2, nil)
	lib.SetFunction(&machine.Function{Name: "push", Arity: 2, Method: true})

	var buf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf}
	require.NoError(t, maincmd.PrintFuncs(stdio, false, lib.Functions()))
	assert.Equal(t, "add\t2\tint,int\tnative\napply\t2\t*\tnative\npush\t2\t*\tnative method\n", buf.String())

	buf.Reset()
	require.NoError(t, maincmd.PrintFuncs(stdio, true, lib.Functions()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[3], "push")
}

func TestListModules(t *testing.T) {
	var buf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf}
	require.NoError(t, maincmd.ListModules(stdio, machine.NewFileResolver(modulesDir)))
	assert.Equal(t, "colors\t1\t0\t-\ngeo\t3\t1\tunits\n", buf.String())
}

func TestCmdMain(t *testing.T) {
	cases := []struct {
		args []string
		code mainer.ExitCode
		out  string
		err  string
	}{
		{args: []string{"-h"}, code: mainer.Success, out: "usage: lilypad"},
		{args: []string{"--version"}, code: mainer.Success, out: "lilypad 1.0 2026-01-01"},
		{args: []string{}, code: mainer.InvalidArgs, err: "no command specified"},
		{args: []string{"nope"}, code: mainer.InvalidArgs, err: "unknown command: nope"},
		{args: []string{"hash"}, code: mainer.InvalidArgs, err: "hash: at least one argument must be provided"},
		{args: []string{"funcs", "x"}, code: mainer.InvalidArgs, err: "funcs: no argument expected"},
		{args: []string{"--types", "int", "funcs"}, code: mainer.InvalidArgs, err: "funcs: invalid flag 'types'"},
		{args: []string{"call", "add", "1", "2"}, code: mainer.Success, out: "3\n"},
		{args: []string{"call", "add", "1", "x"}, code: mainer.Failure, err: "function not found: add (int, string)"},
		{args: []string{"--types", "int", "hash", "f/1"}, code: mainer.Success, out: "f/1\tfn\t"},
		{args: []string{"funcs"}, code: mainer.Success, out: "reduce\t3\t*\tnative\n"},
		{args: []string{"--module-path", modulesDir, "modules"}, code: mainer.Success, out: "geo\t3\t1\tunits\n"},
		{args: []string{"--module-path", modulesDir, "call", "geo::inc", "1"}, code: mainer.Success, out: "2\n"},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			var out, eout bytes.Buffer
			stdio := mainer.Stdio{Stdout: &out, Stderr: &eout}
			cmd := maincmd.Cmd{BuildVersion: "1.0", BuildDate: "2026-01-01"}

			code := cmd.Main(append([]string{"lilypad"}, c.args...), stdio)
			assert.Equal(t, c.code, code, "stderr: %s", eout.String())
			if c.out != "" {
				assert.Contains(t, out.String(), c.out)
			}
			if c.err != "" {
				assert.Contains(t, eout.String(), c.err)
			}
		})
	}
}
