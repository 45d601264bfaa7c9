package main

import "github.com/khanhnv2901/csf-cli/cmd"

// execCmd is indirected so tests can intercept the CLI entry point.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
