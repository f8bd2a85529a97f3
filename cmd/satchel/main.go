// Package main provides the satchel CLI entry point.
package main

import (
	"os"

	"github.com/mesh-intelligence/satchel/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
