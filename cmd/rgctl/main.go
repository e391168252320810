// Package main is the entry point for the rgctl CLI.
package main

import (
	"github.com/asoguard/rankguard/cmd/rgctl/cmd"
)

func main() {
	cmd.Execute()
}
