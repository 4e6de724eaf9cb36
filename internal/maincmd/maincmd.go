package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/stdlib"
	"github.com/mna/mainer"
)

const binName = "lilypad"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<arg>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Function dispatch tool for the %[1]s scripting engine.

The <command> can be one of:
       call <fn> [<arg>...]      Call the standard function <fn> with
                                 the provided arguments and print the
                                 result. Arguments are parsed as nil,
                                 bool, int, float or quoted string,
                                 and are bare strings otherwise. A
                                 namespace-qualified <fn> (e.g.
                                 geo::inc) is loaded from the module
                                 path.
       funcs                     List the functions of the standard
                                 package.
       hash <sig>...             Print the signature hash of each
                                 <sig>, which is either a function
                                 (e.g. geo::units::convert/2) or a
                                 variable (e.g. geo::answer).
       modules                   List the modules available in the
                                 module path.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --debug                   Print debug logs of the engine.

Valid flag options for the <hash> command are:
       -t --types <list>         Comma-separated list of parameter
                                 types, also print the parameter
                                 types hash and the combined hash.

Valid flag options for the <call> and <modules> commands are:
       -m --module-path <dir>    Directory of the module files,
                                 overrides the LILYPAD_MODULE_PATH
                                 environment variable.

More information on the %[1]s repository:
       https://github.com/mna/lilypad
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Debug   bool `flag:"debug"`

	Types      string `flag:"t,types"`
	ModulePath string `flag:"m,module-path"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	switch cmdName {
	case "hash", "call":
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one argument must be provided", cmdName)
		}
	case "funcs", "modules":
		if len(c.args[1:]) > 0 {
			return fmt.Errorf("%s: no argument expected", cmdName)
		}
	}

	if (c.flags["t"] || c.flags["types"]) && cmdName != "hash" {
		return fmt.Errorf("%s: invalid flag 'types'", cmdName)
	}
	if (c.flags["m"] || c.flags["module-path"]) && cmdName != "call" && cmdName != "modules" {
		return fmt.Errorf("%s: invalid flag 'module-path'", cmdName)
	}

	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // configuration from the environment is loaded by the engine
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// newEngine creates an engine with the standard package registered,
// configured from the environment and the command's flags.
func (c *Cmd) newEngine(stdio mainer.Stdio) (*machine.Engine, error) {
	cfg, err := machine.LoadConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if c.ModulePath != "" {
		cfg.ModulePath = c.ModulePath
	}
	if c.Debug {
		cfg.LogLevel = log.DebugLevel.String()
	}

	eng, err := machine.New(cfg)
	if err != nil {
		return nil, err
	}
	if stdio.Stderr != nil {
		eng.Logger().SetOutput(stdio.Stderr)
	}
	eng.RegisterPackage(stdlib.Standard)
	return eng, nil
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
