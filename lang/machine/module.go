package machine

import (
	"github.com/dolthub/swiss"
	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/types"
	"golang.org/x/exp/slices"
)

// A Module is a namespace of functions, variables and sub-modules. Functions
// and variables are stored in tables keyed by their signature hash.
//
// A Module is not safe for concurrent modification; it is typically built
// once (e.g. by a Package) and then only read.
type Module struct {
	Name string

	fns      fnIndex
	funcs    []*Function // registration order, for listing and indexing
	vars     *swiss.Map[hashing.Signature, types.Value]
	varNames []string
	subs     map[string]*Module
	subNames []string
}

// NewModule creates an empty module with the provided name.
func NewModule(name string) *Module {
	return &Module{
		Name: name,
		fns:  newFnIndex(),
		vars: swiss.NewMap[hashing.Signature, types.Value](0),
		subs: make(map[string]*Module),
	}
}

// IsEmpty returns true if the module has no function, variable or
// sub-module.
func (m *Module) IsEmpty() bool {
	return len(m.funcs) == 0 && len(m.varNames) == 0 && len(m.subNames) == 0
}

// SetNativeFn registers a native function with typed parameters. It returns
// the coarse (name and arity) signature of the function. Registering a
// function with the same name and parameter types replaces the previous one.
func (m *Module) SetNativeFn(name string, params []Param, fn NativeFunc) hashing.Signature {
	return m.set(newTypedFunction(name, params, NativeFn, fn))
}

// SetMethodFn is like SetNativeFn, but the registered function may mutate
// its first argument (the receiver) when called method-style.
func (m *Module) SetMethodFn(name string, params []Param, fn NativeFunc) hashing.Signature {
	f := newTypedFunction(name, params, NativeFn, fn)
	f.Method = true
	return m.set(f)
}

// SetAnyFn registers an untyped native function of the provided arity, which
// accepts arguments of any type. An untyped function is the fallback when
// no typed overload of the same name and arity matches a call.
func (m *Module) SetAnyFn(name string, arity int, fn NativeFunc) hashing.Signature {
	return m.set(&Function{Name: name, Arity: arity, Kind: NativeFn, Fn: fn})
}

// SetScriptFn registers a script-defined (untyped) function of the provided
// arity, with body being its compiled code.
func (m *Module) SetScriptFn(name string, arity int, body NativeFunc) hashing.Signature {
	return m.set(&Function{Name: name, Arity: arity, Kind: ScriptFn, Fn: body})
}

// SetFunction registers fn as-is.
func (m *Module) SetFunction(fn *Function) hashing.Signature {
	return m.set(fn)
}

func (m *Module) set(fn *Function) hashing.Signature {
	sig := hashing.FnHash(fn.Name, fn.Arity)
	if old := m.fns.add(sig, fn); old != nil {
		if i := slices.Index(m.funcs, old); i >= 0 {
			m.funcs[i] = fn
			return sig
		}
	}
	m.funcs = append(m.funcs, fn)
	return sig
}

// Fn returns the function that matches the unqualified call of name with
// args, if any.
func (m *Module) Fn(name string, args []types.Value) (*Function, bool) {
	fn, _ := m.fns.resolve(hashing.FnHash(name, len(args)), args)
	return fn, fn != nil
}

// Functions returns the functions registered in the module, sorted by name
// and arity.
func (m *Module) Functions() []*Function {
	fns := slices.Clone(m.funcs)
	slices.SortStableFunc(fns, func(a, b *Function) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		return a.Arity - b.Arity
	})
	return fns
}

// SetVar sets the variable name to v.
func (m *Module) SetVar(name string, v types.Value) {
	sig := hashing.QualifiedVarHash(nil, name)
	if !m.vars.Has(sig) {
		m.varNames = append(m.varNames, name)
	}
	m.vars.Put(sig, v)
}

// Var returns the value of the variable name, if it exists.
func (m *Module) Var(name string) (types.Value, bool) {
	return m.vars.Get(hashing.QualifiedVarHash(nil, name))
}

// VarNames returns the names of the module's variables in the order they
// were first set. The caller must not modify the returned slice.
func (m *Module) VarNames() []string { return m.varNames }

// SetSubModule adds sub as a sub-module accessible under name.
func (m *Module) SetSubModule(name string, sub *Module) {
	if _, ok := m.subs[name]; !ok {
		m.subNames = append(m.subNames, name)
	}
	m.subs[name] = sub
}

// SubModule returns the sub-module registered under name, if any.
func (m *Module) SubModule(name string) (*Module, bool) {
	sub, ok := m.subs[name]
	return sub, ok
}

// SubModuleNames returns the names of the sub-modules in registration
// order. The caller must not modify the returned slice.
func (m *Module) SubModuleNames() []string { return m.subNames }

func newTypedFunction(name string, params []Param, kind FuncKind, fn NativeFunc) *Function {
	ids := make([]hashing.TypeID, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		ids[i] = p.ID
		names[i] = p.Name
	}
	return &Function{
		Name:       name,
		Arity:      len(params),
		Params:     ids,
		ParamNames: names,
		Kind:       kind,
		Fn:         fn,
	}
}

// fnIndex indexes functions by coarse signature (name and arity, possibly
// namespace-qualified) and by fine signature (the coarse signature combined
// with the parameter types hash).
type fnIndex struct {
	coarse *swiss.Map[hashing.Signature, []*Function]
	fine   *swiss.Map[hashing.Signature, *Function]
}

func newFnIndex() fnIndex {
	return fnIndex{
		coarse: swiss.NewMap[hashing.Signature, []*Function](0),
		fine:   swiss.NewMap[hashing.Signature, *Function](0),
	}
}

// add indexes fn under the coarse signature sig. It returns the function it
// replaced, if any.
func (x fnIndex) add(sig hashing.Signature, fn *Function) *Function {
	overloads, _ := x.coarse.Get(sig)

	var old *Function
	if fn.Params != nil {
		fine := hashing.Combine(sig, hashing.FnParamsHash(fn.Params))
		old, _ = x.fine.Get(fine)
		x.fine.Put(fine, fn)
	} else {
		for _, o := range overloads {
			if o.Params == nil {
				old = o
				break
			}
		}
	}

	if i := slices.Index(overloads, old); old != nil && i >= 0 {
		overloads[i] = fn
	} else {
		overloads = append(overloads, fn)
	}
	x.coarse.Put(sig, overloads)
	return old
}

func (x fnIndex) has(sig hashing.Signature) bool { return x.coarse.Has(sig) }

// resolve returns the function indexed under the coarse signature sig that
// matches args, or nil. When a single overload exists for sig, the parameter
// types hash is not computed and single is true.
func (x fnIndex) resolve(sig hashing.Signature, args []types.Value) (fn *Function, single bool) {
	overloads, ok := x.coarse.Get(sig)
	if !ok {
		return nil, false
	}
	if len(overloads) == 1 {
		if fn := overloads[0]; fn.accepts(args) {
			return fn, true
		}
		return nil, true
	}

	var buf [8]hashing.TypeID
	ids := buf[:0]
	for _, arg := range args {
		ids = append(ids, arg.TypeID())
	}
	if fn, ok := x.fine.Get(hashing.Combine(sig, hashing.FnParamsHash(ids))); ok {
		return fn, false
	}
	for _, fn := range overloads {
		if fn.Params == nil {
			return fn, false
		}
	}
	return nil, false
}
