// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

// Package main is the entry point for the simili-sync CLI.
package main

import (
	"os"

	"github.com/similigh/simili-sync/cmd/simili-sync/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
