package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mna/lilypad/lang/machine"
	"github.com/mna/mainer"
)

func (c *Cmd) Funcs(ctx context.Context, stdio mainer.Stdio, args []string) error {
	eng, err := c.newEngine(stdio)
	if err != nil {
		return printError(stdio, err)
	}
	return printError(stdio, PrintFuncs(stdio, isTerminal(stdio.Stdout), eng.Functions()))
}

// isTerminal returns true if w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintFuncs prints the functions, one per line. If styled is false, each
// line has the tab-separated name, arity, parameter types (* if untyped)
// and kind of the function, otherwise the functions are printed as a
// table for display on a terminal.
func PrintFuncs(stdio mainer.Stdio, styled bool, fns []*machine.Function) error {
	rows := make([][]string, 0, len(fns))
	for _, fn := range fns {
		params := "*"
		if fn.Params != nil {
			params = strings.Join(fn.ParamNames, ",")
		}
		kind := fn.Kind.String()
		if fn.Method {
			kind += " method"
		}
		rows = append(rows, []string{fn.Name, strconv.Itoa(fn.Arity), params, kind})
	}

	if !styled {
		for _, row := range rows {
			if _, err := fmt.Fprintln(stdio.Stdout, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	}

	headers := []string{"NAME", "ARITY", "PARAMS", "KIND"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))
	nameStyle := lipgloss.NewStyle().
		Bold(true)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	render := func(cells []string, styles ...lipgloss.Style) string {
		var sb strings.Builder
		for i, cell := range cells {
			st := styles[min(i, len(styles)-1)]
			sb.WriteString(st.Width(widths[i] + 2).Render(cell))
		}
		return strings.TrimRight(sb.String(), " ")
	}

	if _, err := fmt.Fprintln(stdio.Stdout, render(headers, headerStyle)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(stdio.Stdout, render(row, nameStyle, valueStyle)); err != nil {
			return err
		}
	}
	return nil
}
