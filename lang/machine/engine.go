package machine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dolthub/swiss"
	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// An Engine holds the functions available to programs: the global module,
// populated by packages, and the modules accessible via namespace-qualified
// paths, either registered explicitly or provided on demand by the module
// resolver.
//
// Packages must be registered before the engine is used to run calls.
// Modules may be registered and resolved concurrently with calls.
type Engine struct {
	cfg    Config
	logger *log.Logger
	global *Module

	mu       sync.RWMutex
	resolver ModuleResolver
	modules  map[string]*Module
	// qualified functions and variables of all registered modules, keyed by
	// their namespace-qualified signature.
	qualFns  fnIndex
	qualVars *swiss.Map[hashing.Signature, types.Value]
}

// New creates an engine configured with cfg. If cfg.ModulePath is set, the
// module resolver is a FileResolver rooted at that path, otherwise it is a
// DummyResolver that forbids loading external modules.
func New(cfg Config) (*Engine, error) {
	lvl := log.WarnLevel
	if cfg.LogLevel != "" {
		l, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		lvl = l
	}
	eng := &Engine{
		cfg:      cfg,
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "lilypad", Level: lvl}),
		global:   NewModule(""),
		resolver: DummyResolver{},
		modules:  make(map[string]*Module),
		qualFns:  newFnIndex(),
		qualVars: swiss.NewMap[hashing.Signature, types.Value](0),
	}
	if cfg.ModulePath != "" {
		eng.resolver = NewFileResolver(cfg.ModulePath)
	}
	return eng, nil
}

// Config returns the configuration of the engine.
func (eng *Engine) Config() Config { return eng.cfg }

// Logger returns the logger of the engine.
func (eng *Engine) Logger() *log.Logger { return eng.logger }

// SetLogger sets the logger of the engine.
func (eng *Engine) SetLogger(l *log.Logger) { eng.logger = l }

// Global returns the global module of the engine, where packages register
// their functions.
func (eng *Engine) Global() *Module { return eng.global }

// RegisterPackage initializes each package in the global module of the
// engine.
func (eng *Engine) RegisterPackage(pkgs ...Package) {
	for _, pkg := range pkgs {
		n := len(eng.global.funcs)
		pkg.Init(eng.global)
		eng.logger.Debug("package registered", "functions", len(eng.global.funcs)-n)
	}
}

// Functions returns the functions of the global module.
func (eng *Engine) Functions() []*Function { return eng.global.Functions() }

// SetResolver sets the module resolver of the engine. A nil resolver
// installs a DummyResolver.
func (eng *Engine) SetResolver(r ModuleResolver) {
	if r == nil {
		r = DummyResolver{}
	}
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.resolver = r
}

// Resolver returns the module resolver of the engine.
func (eng *Engine) Resolver() ModuleResolver {
	eng.mu.RLock()
	defer eng.mu.RUnlock()
	return eng.resolver
}

// RegisterModule registers m under name, making its functions, variables and
// sub-modules accessible via namespace-qualified paths starting with name. A
// module registered under an existing name does not remove the previous
// module's entries, it shadows those with the same signature.
func (eng *Engine) RegisterModule(name string, m *Module) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.registerModuleLocked(name, m)
}

func (eng *Engine) registerModuleLocked(name string, m *Module) {
	eng.modules[name] = m
	// the first segment of a path is never hashed, it only needs to be present
	eng.indexModule([]string{"", name}, m)
	eng.logger.Debug("module registered", "module", name, "functions", len(m.funcs), "vars", len(m.varNames))
}

func (eng *Engine) indexModule(path []string, m *Module) {
	for _, fn := range m.funcs {
		eng.qualFns.add(hashing.QualifiedFnHash(path, fn.Name, fn.Arity), fn)
	}
	for _, name := range m.varNames {
		v, _ := m.Var(name)
		eng.qualVars.Put(hashing.QualifiedVarHash(path, name), v)
	}
	for _, name := range m.subNames {
		eng.indexModule(append(slices.Clip(path), name), m.subs[name])
	}
}

// Module returns the module registered under name, if any.
func (eng *Engine) Module(name string) (*Module, bool) {
	eng.mu.RLock()
	defer eng.mu.RUnlock()
	m, ok := eng.modules[name]
	return m, ok
}

// ModuleNames returns the sorted names of the registered modules.
func (eng *Engine) ModuleNames() []string {
	eng.mu.RLock()
	names := maps.Keys(eng.modules)
	eng.mu.RUnlock()
	slices.Sort(names)
	return names
}

// NewContext returns a fresh top-level call context for the engine and the
// compiled program prog, which may be nil. Functions defined by prog take
// precedence over the engine's global functions.
func (eng *Engine) NewContext(ctx context.Context, prog *Program) *Context {
	c := &Context{
		eng:    eng,
		thread: newThread(ctx, eng.cfg),
	}
	if prog != nil {
		c.source = prog.Source
		if prog.Lib != nil && !prog.Lib.IsEmpty() {
			c.libs = []*Module{prog.Lib}
		}
	}
	return c
}

// QualifiedVar returns the value of the variable name accessed via the
// namespace path. As for all namespace paths, the first segment of path is
// ignored.
func (eng *Engine) QualifiedVar(path []string, name string) (types.Value, error) {
	return eng.resolveQualifiedVar("", path, name, token.NoPos)
}

func (eng *Engine) resolveQualifiedVar(source string, path []string, name string, pos token.Pos) (types.Value, error) {
	sig := hashing.QualifiedVarHash(path, name)

	lookup := func() (types.Value, bool) {
		eng.mu.RLock()
		defer eng.mu.RUnlock()
		return eng.qualVars.Get(sig)
	}
	if v, ok := lookup(); ok {
		return v, nil
	}

	loaded, err := eng.loadModule(source, path, pos)
	if err != nil {
		return nil, err
	}
	if loaded {
		if v, ok := lookup(); ok {
			return v, nil
		}
	}
	return nil, &VariableNotFoundError{Name: qualifiedName(path, name), Pos: pos}
}

func (eng *Engine) resolveQualifiedFn(source string, path []string, name string, args []types.Value, pos token.Pos) (*Function, error) {
	sig := hashing.QualifiedFnHash(path, name, len(args))

	lookup := func() *Function {
		eng.mu.RLock()
		defer eng.mu.RUnlock()
		fn, _ := eng.qualFns.resolve(sig, args)
		return fn
	}
	if fn := lookup(); fn != nil {
		return fn, nil
	}

	loaded, err := eng.loadModule(source, path, pos)
	if err != nil {
		return nil, err
	}
	if loaded {
		if fn := lookup(); fn != nil {
			return fn, nil
		}
	}
	eng.logger.Debug("qualified function not found", "fn", qualifiedName(path, name), "arity", len(args))
	return nil, &FunctionNotFoundError{Name: qualifiedName(path, name), ArgTypes: typeNames(args), Pos: pos}
}

// loadModule loads the module designated by the second segment of path via
// the module resolver, if it is not registered yet. It returns true if a
// module was loaded.
func (eng *Engine) loadModule(source string, path []string, pos token.Pos) (bool, error) {
	if len(path) < 2 {
		return false, nil
	}
	name := path[1]

	eng.mu.RLock()
	_, ok := eng.modules[name]
	r := eng.resolver
	eng.mu.RUnlock()
	if ok {
		return false, nil
	}

	m, err := r.Resolve(eng, source, name, pos)
	if err != nil {
		var mnf *ModuleNotFoundError
		if errors.As(err, &mnf) {
			eng.logger.Debug("module not found", "module", name, "source", source)
		}
		return false, err
	}

	eng.mu.Lock()
	defer eng.mu.Unlock()
	if _, ok := eng.modules[name]; ok {
		// resolved concurrently
		return true, nil
	}
	eng.registerModuleLocked(name, m)
	return true, nil
}
