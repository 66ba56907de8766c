// Package main provides the entry point for the macsetup CLI.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(exitStatus(err))
	}
}
