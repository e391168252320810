// Package main is the entry point for the rankguard server.
package main

import (
	"os"

	"github.com/asoguard/rankguard/cmd/rankguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
