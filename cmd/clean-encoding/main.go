// Command clean-encoding replaces mis-encoded byte sequences in a file
// using a persistent mappings table, and records new ones for review.
package main

import (
	"os"

	"github.com/alphagov/character-encoding-cleaner/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
