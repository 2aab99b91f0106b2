package main

import (
	"os"

	"pinmap/cmd/pinmap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
