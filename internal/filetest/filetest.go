// Package filetest implements golden file tests: each input file of a test
// directory is processed by a test function and its outputs are compared to
// the expected results stored alongside it.
package filetest

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var testUpdateGolden = flag.Bool("test.update-golden", false, "If set, replace the golden files with the actual results.")

// Inputs returns the sorted paths of the regular files in dir with the
// extension ext.
func Inputs(t *testing.T, dir, ext string) []string {
	t.Helper()

	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}

	dents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := make([]string, 0, len(dents))
	for _, dent := range dents {
		if !dent.Type().IsRegular() {
			continue
		}
		if ext != "" && filepath.Ext(dent.Name()) != ext {
			continue
		}
		res = append(res, filepath.Join(dir, dent.Name()))
	}
	return res
}

// Run calls fn in a subtest for each input file of dir with the extension
// ext, providing the content of the file. What fn writes to stdout is
// compared to the golden file with the same name plus ".want", and what it
// writes to stderr to the one plus ".err". A missing golden file is the
// same as an empty one.
func Run(t *testing.T, dir, ext string, fn func(t *testing.T, input string, stdout, stderr io.Writer)) {
	t.Helper()

	for _, file := range Inputs(t, dir, ext) {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			b, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}

			var out, eout bytes.Buffer
			fn(t, string(b), &out, &eout)
			diffOrUpdate(t, "output", file+".want", out.String())
			diffOrUpdate(t, "errors", file+".err", eout.String())
		})
	}
}

func diffOrUpdate(t *testing.T, label, goldFile, output string) {
	t.Helper()

	if *testUpdateGolden {
		if output == "" {
			if err := os.Remove(goldFile); err != nil && !os.IsNotExist(err) {
				t.Fatal(err)
			}
			return
		}
		if err := os.WriteFile(goldFile, []byte(output), 0600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldFile)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	want := string(wantb)
	if testing.Verbose() {
		t.Logf("got %s:\n%s\n", label, output)
	}
	if patch := diff.Diff(want, output); patch != "" {
		if testing.Verbose() {
			t.Logf("want %s:\n%s\n", label, want)
		}
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
