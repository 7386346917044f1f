// Package main is the entry point for the jetdeps CLI.
package main

import "jetdeps.dev/pkg/jetdeps/cmd"

func main() {
	cmd.Execute()
}
