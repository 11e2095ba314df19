package main

import (
	"github.com/cnosuke/cabin-tools/cmd"
)

var (
	// Version, Revision and CommitDate are replaced when building
	// via -ldflags "-X main.Version=...".
	Version    = "0.0.1"
	Revision   = ""
	CommitDate = ""

	Name = "cabin-tools"
)

func main() {
	cmd.Execute(Name, Version, Revision, CommitDate)
}
