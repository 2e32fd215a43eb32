// Package main is the entry point for the rpcsh CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/rpcsh/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
