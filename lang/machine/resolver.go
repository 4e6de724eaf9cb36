package machine

import (
	"errors"
	"sync"

	"github.com/mna/lilypad/lang/token"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// A ModuleResolver provides the modules accessed via namespace-qualified
// paths that are not registered in the engine. The source is the path of the
// source file of the program that requires the module, if any, path is the
// name of the module and pos is the position of the access in source.
//
// A resolver that cannot provide the module must return a
// *ModuleNotFoundError. Any other error aborts the resolution.
type ModuleResolver interface {
	Resolve(eng *Engine, source, path string, pos token.Pos) (*Module, error)
}

// DummyResolver is a ModuleResolver that never resolves any module. It is the
// default resolver of an engine, which forbids loading external modules.
type DummyResolver struct{}

// Resolve implements ModuleResolver, it always fails with a
// *ModuleNotFoundError.
func (DummyResolver) Resolve(_ *Engine, _, path string, pos token.Pos) (*Module, error) {
	return nil, &ModuleNotFoundError{Path: path, Pos: pos}
}

// StaticResolver is a ModuleResolver backed by a registry of modules, added
// with Add. It is safe for concurrent use.
type StaticResolver struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewStaticResolver returns a StaticResolver that resolves the provided
// modules, using their Name as path.
func NewStaticResolver(modules ...*Module) *StaticResolver {
	r := &StaticResolver{modules: make(map[string]*Module, len(modules))}
	for _, m := range modules {
		r.modules[m.Name] = m
	}
	return r
}

// Add registers m under path, replacing any module previously registered
// under that path.
func (r *StaticResolver) Add(path string, m *Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.modules == nil {
		r.modules = make(map[string]*Module)
	}
	r.modules[path] = m
}

// Paths returns the sorted paths of the registered modules.
func (r *StaticResolver) Paths() []string {
	r.mu.RLock()
	paths := maps.Keys(r.modules)
	r.mu.RUnlock()
	slices.Sort(paths)
	return paths
}

// Resolve implements ModuleResolver.
func (r *StaticResolver) Resolve(_ *Engine, _, path string, pos token.Pos) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.modules[path]; ok {
		return m, nil
	}
	return nil, &ModuleNotFoundError{Path: path, Pos: pos}
}

// ChainResolver is a ModuleResolver that tries each resolver in order until
// one provides the module. A resolver that fails with a *ModuleNotFoundError
// passes to the next one, any other error stops the resolution. Nil
// resolvers are ignored.
type ChainResolver []ModuleResolver

// Resolve implements ModuleResolver.
func (cr ChainResolver) Resolve(eng *Engine, source, path string, pos token.Pos) (*Module, error) {
	for _, r := range cr {
		if r == nil {
			continue
		}
		m, err := r.Resolve(eng, source, path, pos)
		if err == nil {
			return m, nil
		}
		var mnf *ModuleNotFoundError
		if !errors.As(err, &mnf) {
			return nil, err
		}
	}
	return nil, &ModuleNotFoundError{Path: path, Pos: pos}
}
