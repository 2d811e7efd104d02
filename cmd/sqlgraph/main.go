package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/conduit-lang/sqlgraph/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprint(os.Stderr, commands.FormatError(err, color.NoColor))
		os.Exit(1)
	}
}
