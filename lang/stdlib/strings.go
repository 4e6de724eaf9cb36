package stdlib

import (
	"strings"
	"unicode/utf8"

	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/types"
)

// Strings is the package of string functions.
var Strings = machine.PackageFunc(func(lib *machine.Module) {
	// len of a string is its number of characters, of bytes its number of
	// bytes.
	lib.SetNativeFn("len", params(strParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.Int(utf8.RuneCountInString(string(args[0].(types.String)))), nil
	})
	lib.SetNativeFn("len", params(bytesParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.Int(args[0].(types.Bytes).Len()), nil
	})
	lib.SetNativeFn("upper", params(strParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.String(strings.ToUpper(string(args[0].(types.String)))), nil
	})
	lib.SetNativeFn("lower", params(strParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.String(strings.ToLower(string(args[0].(types.String)))), nil
	})
	lib.SetNativeFn("concat", params(strParam, strParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return args[0].(types.String) + args[1].(types.String), nil
	})
	lib.SetNativeFn("contains", params(strParam, strParam), func(_ *machine.Context, args []types.Value) (types.Value, error) {
		return types.Bool(strings.Contains(string(args[0].(types.String)), string(args[1].(types.String)))), nil
	})
})
