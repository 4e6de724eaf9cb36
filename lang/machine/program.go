package machine

import "github.com/mna/lilypad/lang/token"

// AnonymousPrefix is the reserved prefix of the names of anonymous
// functions (closures). Since it is not valid identifier syntax, those names
// cannot collide with user-defined functions.
const AnonymousPrefix = "anon$"

// A Program is a compiled program: the library of script-defined functions
// produced by the compiler for a source file.
type Program struct {
	// Source is the path of the source file, if any. Module resolvers may use
	// it to resolve modules relative to it.
	Source string
	Lib    *Module
}

// NewProgram returns an empty program for the source file path.
func NewProgram(source string) *Program {
	return &Program{Source: source, Lib: NewModule(source)}
}

// Define adds the compiled script function name taking arity parameters to
// the program, declared at pos.
func (p *Program) Define(name string, arity int, pos token.Pos, body NativeFunc) {
	p.Lib.SetFunction(&Function{Name: name, Arity: arity, Kind: ScriptFn, Pos: pos, Fn: body})
}

// DefineAnonymous adds an anonymous script function (a closure) taking arity
// parameters to the program and returns a function pointer to it.
func (p *Program) DefineAnonymous(arity int, pos token.Pos, body NativeFunc) *FnPtr {
	fp := NewAnonymousFnPtr()
	p.Define(fp.name, arity, pos, body)
	return fp
}
