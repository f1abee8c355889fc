// Command spate is the out-of-scope-but-consumed CLI front-end named in
// spec §6: load/save/echo/draw and each to_<target> exporter, wired
// together with this project's logging, configuration, and telemetry
// packages. It is the one place in this codebase allowed to call
// os.Exit, matching the teacher's cmd/<binary>/main.go convention of a
// thin entrypoint delegating to an internal command tree.
package main

import (
	"fmt"
	"os"

	"github.com/ajmazurie/spate/cmd/spate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
