// patrol CLI - guard patrol simulator.
package main

import (
	"os"

	"github.com/erikhoward/patrol/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
