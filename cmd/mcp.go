package cmd

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/scale"
	"github.com/jsphweid/fretboard/shape"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpAPI string

func init() {
	addAPIFlag(mcpCmd, &mcpAPI)
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serves the scale resolver as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ServeStdio(newMCPServer(newResolver(mcpAPI)))
	},
}

func newMCPServer(resolver scale.Resolver) *server.MCPServer {
	s := server.NewMCPServer("fretboard", "1.0.0", server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("scale_positions",
		mcp.WithDescription("Fretboard positions of a key on a 6 string guitar in standard tuning, frets 0-20. String 0 is low E."),
		mcp.WithString("root", mcp.Required(), mcp.Description("root note, e.g. C, F#, Bb")),
		mcp.WithString("scale", mcp.Required(), mcp.Description("major or minor")),
		mcp.WithString("shape", mcp.Description("shape id from list_shapes; all when omitted")),
	), scalePositionsHandler(resolver))

	s.AddTool(mcp.NewTool("list_shapes",
		mcp.WithDescription("Shapes that can narrow scale_positions to one area of the neck."),
	), listShapesHandler)

	return s
}

func scalePositionsHandler(resolver scale.Resolver) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := request.RequireString("root")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		quality, err := request.RequireString("scale")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		q, err := parseScaleArgs([]string{root, quality}, request.GetString("shape", shape.AllID))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := resolver.Resolve(ctx, q)
		if err != nil {
			if errors.Is(err, scale.ErrUnknownRoot) || errors.Is(err, shape.ErrUnknownShape) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}
		return jsonResult(res.Response())
	}
}

func listShapesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(model.ShapesResponse{Shapes: shape.Summaries()})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
