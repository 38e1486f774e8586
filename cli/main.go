package main

import (
	"os"

	"github.com/satishbabariya/dsolve/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
