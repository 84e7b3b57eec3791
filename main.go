package main

import (
	"github.com/giantswarm/agentharness/cmd"
	"github.com/giantswarm/agentharness/pkg/mcpbridge"
)

// version, commit, and date are set at build time via -ldflags.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	// The re-entrant MCP serving sentinel is checked before any other setup:
	// a spawned agent CLI re-launches this same executable to reconnect to
	// its own toolkit over stdio (§4.4, §9). Cobra, flag parsing, and every
	// other ambient concern below is irrelevant to that code path.
	if mcpbridge.IsMCPServerMode() {
		if err := cmd.RunDefaultMCPServer(); err != nil {
			panic(err)
		}
		return
	}

	cmd.SetVersion(version, commit, date)
	cmd.Execute()
}
