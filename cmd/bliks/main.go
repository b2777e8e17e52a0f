// Command bliks is the command-line front end for the Bliks scripting
// language: compiling and running scripts, dropping into a line-by-line
// prompt, and dumping a resolved program for inspection.
//
// Grounded on lookbusy1344-arm_emulator's main.go (flag parsing, version
// vars settable via -ldflags) and CWBudde-go-dws's cmd/dwscript split
// between a thin main package and a cmd subpackage holding the actual
// cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/RiskoZoSlovenska/bliks-lang/cmd/bliks/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
