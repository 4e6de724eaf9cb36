package main

import (
	"os"
	"runtime/debug"
	"strings"

	"github.com/mna/lilypad/internal/maincmd"
	"github.com/mna/mainer"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD

	readBuildInfo = debug.ReadBuildInfo
)

func main() {
	v, d := buildInfo(version, buildDate)
	c := maincmd.Cmd{BuildVersion: v, BuildDate: d}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}

// buildInfo returns the version and build date to report. Placeholders left
// unreplaced (e.g. with go install) are filled from the binary's embedded
// build information when available.
func buildInfo(v, d string) (string, string) {
	if !isPlaceholder(v) && !isPlaceholder(d) {
		return v, d
	}
	bi, ok := readBuildInfo()
	if !ok {
		return v, d
	}
	if isPlaceholder(v) && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v = strings.TrimPrefix(bi.Main.Version, "v")
	}
	if isPlaceholder(d) {
		for _, s := range bi.Settings {
			// vcs.time is in RFC3339 format, keep the date part
			if s.Key == "vcs.time" && len(s.Value) >= len("2006-01-02") {
				d = s.Value[:len("2006-01-02")]
				break
			}
		}
	}
	return v, d
}

func isPlaceholder(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}
