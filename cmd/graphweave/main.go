// Package main provides the entry point for the graphweave CLI.
package main

import (
	"os"

	"github.com/amancerp/graphweave/cmd/graphweave/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
