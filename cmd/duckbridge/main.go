// Package main is the entry point for the duckbridge CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/duckbridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
