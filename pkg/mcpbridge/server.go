package mcpbridge

import (
	"github.com/giantswarm/agentharness/pkg/project"

	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds the in-process MCP server a spawned agent CLI reconnects
// to over its own stdio (§4.4, §9 "re-entrant serving"). It registers the
// ToolkitTrio synthesized from one target schema plus any extra caller tools.
// Grounded on klaus's pkg/mcp/server.go (NewMCPServer), transport switched
// from StreamableHTTP to stdio per original_source/mcp/src/server.rs's
// ServerHandler, which only ever serves over stdio.
func NewServer(trio ToolkitTrio, extra ...server.ServerTool) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		project.Name,
		project.Version(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(
			"This server exposes tools for producing schema-validated structured output. "+
				"Call "+trio.Example.Tool.Name+" to see the expected shape, "+
				trio.Validate.Tool.Name+" to check a candidate before committing to it, "+
				"and "+trio.Submit.Tool.Name+" exactly once when you are confident the data is correct.",
		),
	)

	mcpServer.AddTools(trio.Example, trio.Validate, trio.Submit)
	if len(extra) > 0 {
		mcpServer.AddTools(extra...)
	}

	return mcpServer
}

// Serve blocks serving mcpServer over stdio until the client disconnects.
// This is what a process launched via the AGENTHARNESS_MCP_SERVER=1
// re-entrant sentinel (§9) runs instead of its normal CLI entry point. The
// caller is expected to bound the process's lifetime externally: ServeStdio
// returns when the agent CLI that launched this process closes its stdio,
// and on timeout the parent Runner signals that agent CLI process (§4.3),
// not this server directly. ServeStdio is not itself given a cancellable
// context here.
func Serve(mcpServer *server.MCPServer) error {
	return server.ServeStdio(mcpServer)
}

// NoopResult is a SubmitCallback that accepts anything and returns a fixed
// success message, useful for manual testing via cmd/mcpserve.go where no
// caller process is waiting on the submitted value.
func NoopResult(_ any) string {
	return "Successfully submitted."
}
