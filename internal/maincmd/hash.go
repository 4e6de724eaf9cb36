package maincmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
	"github.com/mna/mainer"
)

// typeIDs maps the type names accepted by the --types flag to their type
// identity.
var typeIDs = map[string]hashing.TypeID{
	"nil":    types.NilTypeID,
	"bool":   types.BoolTypeID,
	"int":    types.IntTypeID,
	"float":  types.FloatTypeID,
	"string": types.StringTypeID,
	"bytes":  types.BytesTypeID,
	"array":  types.ArrayTypeID,
	"map":    types.MapTypeID,
	"Fn":     machine.FnPtrTypeID,
}

func (c *Cmd) Hash(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var typeNames []string
	if c.Types != "" {
		typeNames = strings.Split(c.Types, ",")
	}
	return printError(stdio, HashSignatures(stdio, typeNames, args...))
}

// A sigArg is a parsed signature argument, as accepted by the hash
// command.
type sigArg struct {
	modules []string // namespace path, including the root segment
	name    string
	arity   int // < 0 for a variable
}

func (s sigArg) isFn() bool { return s.arity >= 0 }

// parseSig parses a signature argument of the form
// [mod::]...name[/arity].
func parseSig(s string) (sigArg, error) {
	sa := sigArg{arity: -1}

	segs := strings.Split(s, "::")
	last := segs[len(segs)-1]
	if name, ar, ok := strings.Cut(last, "/"); ok {
		n, err := strconv.Atoi(ar)
		if err != nil || n < 0 {
			return sa, fmt.Errorf("%s: invalid arity: %q", s, ar)
		}
		last, sa.arity = name, n
	}

	for _, seg := range segs[:len(segs)-1] {
		if !token.IsIdentifier(seg) {
			return sa, fmt.Errorf("%s: invalid module name: %q", s, seg)
		}
	}
	if !token.IsIdentifier(last) {
		return sa, fmt.Errorf("%s: invalid name: %q", s, last)
	}
	sa.name = last
	if len(segs) > 1 {
		// the root segment is never hashed
		sa.modules = append([]string{""}, segs[:len(segs)-1]...)
	}
	return sa, nil
}

// HashSignatures prints the signature hash of each sig as a tab-separated
// line: the signature, its kind (fn or var) and the hash. If typeNames is
// not empty, the parameter types hash and the combined hash are also
// printed for function signatures.
func HashSignatures(stdio mainer.Stdio, typeNames []string, sigs ...string) error {
	ids := make([]hashing.TypeID, len(typeNames))
	for i, name := range typeNames {
		id, ok := typeIDs[strings.TrimSpace(name)]
		if !ok {
			return fmt.Errorf("unknown type: %q", name)
		}
		ids[i] = id
	}

	for _, s := range sigs {
		sa, err := parseSig(s)
		if err != nil {
			return err
		}

		if !sa.isFn() {
			if len(ids) > 0 {
				return fmt.Errorf("%s: parameter types only apply to functions", s)
			}
			fmt.Fprintf(stdio.Stdout, "%s\tvar\t%016x\n", s, uint64(hashing.QualifiedVarHash(sa.modules, sa.name)))
			continue
		}

		key := hashing.QualifiedFnHash(sa.modules, sa.name, sa.arity)
		if len(ids) == 0 {
			fmt.Fprintf(stdio.Stdout, "%s\tfn\t%016x\n", s, uint64(key))
			continue
		}
		if len(ids) != sa.arity {
			return fmt.Errorf("%s: %d parameter types for arity %d", s, len(ids), sa.arity)
		}
		params := hashing.FnParamsHash(ids)
		fmt.Fprintf(stdio.Stdout, "%s\tfn\t%016x\t%016x\t%016x\n", s, uint64(key), uint64(params), uint64(hashing.Combine(key, params)))
	}
	return nil
}
