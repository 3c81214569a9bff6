// Package main provides the sql2extension CLI.
package main

import (
	"os"

	"github.com/pgmp/sql2extension/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
