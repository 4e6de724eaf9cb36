package machine

import (
	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
)

// A Caller dispatches calls by name. It is the interface through which a
// function pointer performs its calls; *Context is the engine's
// implementation.
type Caller interface {
	// Engine returns the engine of the caller.
	Engine() *Engine

	// CallFnRaw calls the function name with the values in the args slots.
	// If isMethod is true, the first slot is the receiver of a method-style
	// call, and if mutateFirst is also true the callee may update it in
	// place. Errors raised by the callee are returned unchanged.
	CallFnRaw(name string, isMethod, mutateFirst bool, args []*types.Value) (types.Value, error)
}

// A Context is the active call context: the engine, the libraries of the
// compiled program being executed and the thread holding the call stack. A
// native function receives the context of its own call, which it can use to
// call back into functions (e.g. function pointers received as arguments).
type Context struct {
	eng    *Engine
	thread *Thread
	libs   []*Module
	source string
	fnName string
	pos    token.Pos
}

var _ Caller = (*Context)(nil)

// Engine returns the engine of the call context.
func (c *Context) Engine() *Engine { return c.eng }

// Thread returns the thread of the call context.
func (c *Context) Thread() *Thread { return c.thread }

// FnName returns the name of the function being called in this context. It
// is empty for a top-level context.
func (c *Context) FnName() string { return c.fnName }

// Source returns the source path of the program executed in this context,
// if any.
func (c *Context) Source() string { return c.source }

// Position returns the position of the current call site, if known.
func (c *Context) Position() token.Pos { return c.pos }

// At returns a copy of the context with the current call site position set
// to pos. Script function bodies use it so that errors report the position
// of the failing call.
func (c *Context) At(pos token.Pos) *Context {
	cc := *c
	cc.pos = pos
	return &cc
}

// CallFnRaw implements Caller. Functions are resolved first in the libraries
// of the program, then in the engine's global module.
func (c *Context) CallFnRaw(name string, isMethod, mutateFirst bool, args []*types.Value) (types.Value, error) {
	vals := derefSlots(args)
	fn := c.resolve(hashing.FnHash(name, len(vals)), vals)
	if fn == nil {
		c.eng.logger.Debug("function not found", "fn", name, "arity", len(vals), "pos", c.pos)
		return nil, c.notFound(name, vals)
	}
	return c.invoke(fn, isMethod && mutateFirst, args, vals)
}

// CallQualified calls the function name accessed via the namespace path, with
// the values in the args slots. As for all namespace paths, the first
// segment of path is ignored. If the module designated by the second segment
// is not registered in the engine, it is resolved with the engine's module
// resolver.
func (c *Context) CallQualified(path []string, name string, args []*types.Value) (types.Value, error) {
	vals := derefSlots(args)
	fn, err := c.eng.resolveQualifiedFn(c.source, path, name, vals, c.pos)
	if err != nil {
		return nil, err
	}
	return c.invoke(fn, false, args, vals)
}

// Call is a convenience method that calls the function name with args.
// Unlike CallFnRaw, it does not consume the provided values.
func (c *Context) Call(name string, args ...types.Value) (types.Value, error) {
	slots := make([]*types.Value, len(args))
	for i := range args {
		slots[i] = &args[i]
	}
	return c.CallFnRaw(name, false, false, slots)
}

func (c *Context) resolve(sig hashing.Signature, args []types.Value) *Function {
	if fn, ok := c.thread.cache.Get(sig); ok && fn.accepts(args) {
		return fn
	}

	// a function is only cached if no library before it has overloads for the
	// same name and arity, otherwise a cache hit could shadow them.
	cacheable := true
	for _, lib := range c.libs {
		fn, single := lib.fns.resolve(sig, args)
		if fn != nil {
			if single && cacheable {
				c.thread.cache.Put(sig, fn)
			}
			return fn
		}
		if lib.fns.has(sig) {
			cacheable = false
		}
	}
	fn, single := c.eng.global.fns.resolve(sig, args)
	if fn != nil && single && cacheable {
		c.thread.cache.Put(sig, fn)
	}
	return fn
}

func (c *Context) invoke(fn *Function, mutateFirst bool, slots []*types.Value, vals []types.Value) (types.Value, error) {
	th := c.thread
	if err := th.push(fn, c.pos); err != nil {
		return nil, err
	}
	defer th.pop()

	callee := &Context{
		eng:    c.eng,
		thread: th,
		libs:   c.libs,
		source: c.source,
		fnName: fn.Name,
	}
	res, err := fn.Fn(callee, vals)
	if err != nil {
		// the receiver is only written back on success
		return nil, err
	}
	if mutateFirst && len(slots) > 0 && (fn.Method || fn.Kind == ScriptFn) {
		*slots[0] = vals[0]
	}
	if res == nil {
		res = types.Nil
	}
	return res, nil
}

func (c *Context) notFound(name string, args []types.Value) error {
	return &FunctionNotFoundError{Name: name, ArgTypes: typeNames(args), Pos: c.pos}
}

func derefSlots(slots []*types.Value) []types.Value {
	vals := make([]types.Value, len(slots))
	for i, s := range slots {
		if v := *s; v != nil {
			vals[i] = v
		} else {
			vals[i] = types.Nil
		}
	}
	return vals
}

func typeNames(args []types.Value) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Type()
	}
	return names
}
