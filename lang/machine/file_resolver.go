package machine

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mna/lilypad/lang/token"
	"github.com/mna/lilypad/lang/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// ModuleExt is the file extension of module manifests loaded by a
// FileResolver.
const ModuleExt = ".yaml"

// FileResolver is a ModuleResolver that loads modules from YAML manifest
// files. The module "name" is loaded from the file "name.yaml" in the
// directory of the source file of the requiring program, or in the base
// directory if the program has no source file.
//
// A manifest declares variables, function aliases and nested sub-modules:
//
//	vars:
//	  answer: 42
//	  primes: [2, 3, 5]
//	functions:
//	  inc: {fn: add, curry: [1], arity: 1}
//	modules:
//	  nested:
//	    vars:
//	      pi: 3.14
//
// A function alias is stored as a function pointer variable of the module.
// If it declares an arity, it is also registered as a function of the module
// that calls the function pointer with its arguments, the target being
// resolved in the caller's context.
//
// Loaded modules are cached by file path. It is safe for concurrent use.
type FileResolver struct {
	Base string

	mu    sync.Mutex
	cache map[string]*Module
}

var _ ModuleResolver = (*FileResolver)(nil)

// NewFileResolver returns a FileResolver rooted at base.
func NewFileResolver(base string) *FileResolver {
	return &FileResolver{Base: base, cache: make(map[string]*Module)}
}

// Resolve implements ModuleResolver.
func (r *FileResolver) Resolve(_ *Engine, source, path string, pos token.Pos) (*Module, error) {
	if !token.IsIdentifier(path) {
		return nil, &ModuleNotFoundError{Path: path, Pos: pos}
	}

	dir := r.Base
	if source != "" {
		dir = filepath.Dir(source)
	}
	file := filepath.Join(dir, path+ModuleExt)

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.cache[file]; ok {
		return m, nil
	}

	b, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ModuleNotFoundError{Path: path, Pos: pos}
		}
		return nil, err
	}

	var man manifest
	if err := yaml.Unmarshal(b, &man); err != nil {
		return nil, fmt.Errorf("module %s: %w", path, err)
	}
	m, err := man.build(path)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", path, err)
	}

	if r.cache == nil {
		r.cache = make(map[string]*Module)
	}
	r.cache[file] = m
	return m, nil
}

// Clear empties the cache of loaded modules.
func (r *FileResolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

// List returns the sorted names of the modules available in the base
// directory.
func (r *FileResolver) List() ([]string, error) {
	entries, err := os.ReadDir(r.Base)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ModuleExt {
			continue
		}
		if name := strings.TrimSuffix(e.Name(), ModuleExt); token.IsIdentifier(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

type manifest struct {
	Vars      map[string]any       `yaml:"vars"`
	Functions map[string]fnAlias   `yaml:"functions"`
	Modules   map[string]*manifest `yaml:"modules"`
}

type fnAlias struct {
	Fn    string `yaml:"fn"`
	Curry []any  `yaml:"curry"`
	Arity *int   `yaml:"arity"`
}

func (man *manifest) build(name string) (*Module, error) {
	m := NewModule(name)
	if man == nil {
		// an empty manifest entry decodes to nil
		return m, nil
	}

	// maps are decoded in random order, sort for a stable registration order
	names := maps.Keys(man.Vars)
	slices.Sort(names)
	for _, n := range names {
		v, err := valueFromYAML(man.Vars[n])
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", n, err)
		}
		m.SetVar(n, v)
	}

	names = maps.Keys(man.Functions)
	slices.Sort(names)
	for _, n := range names {
		if err := man.Functions[n].register(m, n); err != nil {
			return nil, fmt.Errorf("function %s: %w", n, err)
		}
	}

	names = maps.Keys(man.Modules)
	slices.Sort(names)
	for _, n := range names {
		if !token.IsIdentifier(n) {
			return nil, fmt.Errorf("invalid module name: %q", n)
		}
		sub, err := man.Modules[n].build(n)
		if err != nil {
			return nil, err
		}
		m.SetSubModule(n, sub)
	}
	return m, nil
}

func (a fnAlias) register(m *Module, name string) error {
	if !token.IsIdentifier(name) {
		return &InvalidFunctionNameError{Name: name}
	}
	fp, err := NewFnPtr(a.Fn)
	if err != nil {
		return err
	}
	curry := make([]types.Value, len(a.Curry))
	for i, c := range a.Curry {
		v, err := valueFromYAML(c)
		if err != nil {
			return fmt.Errorf("curried argument %d: %w", i, err)
		}
		curry[i] = v
	}
	fp.SetCurry(curry)
	m.SetVar(name, fp)

	if a.Arity != nil {
		if *a.Arity < 0 {
			return fmt.Errorf("invalid arity: %d", *a.Arity)
		}
		m.SetAnyFn(name, *a.Arity, func(c *Context, args []types.Value) (types.Value, error) {
			return fp.CallRaw(c, nil, args)
		})
	}
	return nil
}

func valueFromYAML(v any) (types.Value, error) {
	switch v := v.(type) {
	case nil:
		return types.Nil, nil
	case bool:
		return types.Bool(v), nil
	case int:
		return types.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of range: %d", v)
		}
		return types.Int(v), nil
	case float64:
		return types.Float(v), nil
	case string:
		return types.String(v), nil
	case []any:
		elems := make([]types.Value, len(v))
		for i, e := range v {
			ev, err := valueFromYAML(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return types.NewArray(elems), nil
	case map[string]any:
		keys := maps.Keys(v)
		slices.Sort(keys)
		m := types.NewMap(len(keys))
		for _, k := range keys {
			ev, err := valueFromYAML(v[k])
			if err != nil {
				return nil, err
			}
			if err := m.SetKey(types.String(k), ev); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
