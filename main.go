// Package main is the entry point for the esgcat CLI application.
// It queries the ESGF federation search API for CMIP6 model output.
package main

import (
	"esgcat/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
