// Package main is the entry point for the triage CLI.
package main

import "gooze.dev/pkg/triage/cmd"

func main() {
	cmd.Execute()
}
