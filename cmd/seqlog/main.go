// Package main is the entry point for the seqlog CLI.
package main

import (
	"os"

	"github.com/seqlog-io/seqlog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
