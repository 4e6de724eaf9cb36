package machine

// A Package is a set of functions that can be registered in a module. The
// engine's global module is typically populated by packages.
type Package interface {
	Init(lib *Module)
}

// PackageFunc is a function that implements Package.
type PackageFunc func(lib *Module)

// Init implements Package by calling fn(lib).
func (fn PackageFunc) Init(lib *Module) { fn(lib) }

// Packages combines multiple packages in a single one, initialized in
// order.
type Packages []Package

// Init implements Package.
func (ps Packages) Init(lib *Module) {
	for _, p := range ps {
		p.Init(lib)
	}
}
