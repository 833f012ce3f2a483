package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/egobogo/trellofn/internal/function"
)

// Name is the server name announced to MCP clients.
const Name = "Trello Functions"

// New returns an MCP server exposing every catalog function as a tool.
func New(catalog *function.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
	)

	for _, d := range function.Definitions() {
		s.AddTool(Tool(d), Handler(catalog, d.Name))
	}
	return s
}

// Tool converts a descriptor into an MCP tool declaration.
func Tool(d function.FunctionDescriptor) mcp.Tool {
	schema, _ := json.Marshal(d.Schema())

	return mcp.Tool{
		Name:           d.Name,
		Description:    d.Description,
		RawInputSchema: schema,
	}
}

// Handler returns the tool handler invoking the named catalog function.
func Handler(catalog *function.Catalog, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.Params.Arguments)

		if err != nil {
			return errorResult(err), nil
		}

		env, err := catalog.Call(ctx, name, args)

		if err != nil {
			log.Warn().Err(err).Str("tool", name).Msg("tool call rejected")
			return errorResult(err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(env.Text),
			},
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(err.Error()),
		},
		IsError: true,
	}
}

// ServeStdio serves the catalog over stdin/stdout until the client hangs up.
func ServeStdio(catalog *function.Catalog, version string) error {
	return server.ServeStdio(New(catalog, version))
}
