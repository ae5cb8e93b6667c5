// Package main is the entry point for the barctl operator CLI.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/mamadbah2/pillars/cmd/barctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
