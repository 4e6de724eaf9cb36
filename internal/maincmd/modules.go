package maincmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/lilypad/lang/token"
	"github.com/mna/mainer"
)

func (c *Cmd) Modules(ctx context.Context, stdio mainer.Stdio, args []string) error {
	eng, err := c.newEngine(stdio)
	if err != nil {
		return printError(stdio, err)
	}
	r, ok := eng.Resolver().(*machine.FileResolver)
	if !ok {
		return printError(stdio, errors.New("modules: no module path"))
	}
	return printError(stdio, ListModules(stdio, r))
}

// ListModules prints the modules available to the file resolver r, one per
// line, with the tab-separated number of variables, of functions and the
// comma-separated names of its sub-modules.
func ListModules(stdio mainer.Stdio, r *machine.FileResolver) error {
	names, err := r.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		m, err := r.Resolve(nil, "", name, token.NoPos)
		if err != nil {
			return err
		}
		subs := strings.Join(m.SubModuleNames(), ",")
		if subs == "" {
			subs = "-"
		}
		if _, err := fmt.Fprintf(stdio.Stdout, "%s\t%d\t%d\t%s\n", name, len(m.VarNames()), len(m.Functions()), subs); err != nil {
			return err
		}
	}
	return nil
}
