package main

import (
	"fmt"

	"airbutler/pkg/version"
)

// printVersion prints the version information
func printVersion() {
	fmt.Println(version.Details())
}
