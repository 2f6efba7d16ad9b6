// Command patrol runs the guard patrol simulation and the loop-placement
// search on a grid read from a file, stdin, or the built-in scenario catalog.
package main

import (
	"os"

	"github.com/martinemde/patrol/patrol"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if patrol.IsInputError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
