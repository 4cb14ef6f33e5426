// Command icarusc drives the Icarus compiler core over a pre-built AST
// fixture (see internal/astfixture): verify a module's types, or verify
// and print the IR an executable's entry point lowers to.
package main

import (
	"fmt"
	"os"

	"github.com/icarus-lang/icarus/cmd/icarusc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
