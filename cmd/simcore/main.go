// Package main is the single-binary entrypoint for simcore.
package main

import "github.com/stagelight/simcore/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
