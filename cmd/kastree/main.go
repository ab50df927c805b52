package main

import (
	"os"

	"github.com/kastree-lang/kastree/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
