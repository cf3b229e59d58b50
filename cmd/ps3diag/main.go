// Command ps3diag exercises the drivers on the console or, with --sim, on
// the simulated console.
//
//	ps3diag [--config file] [--sim] [--log-level level] <command>
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
