package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"confluenz/internal/application"
	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// Wiki bundles what the tools operate on. Index and Reader may be nil, in
// which case search only matches page paths.
type Wiki struct {
	Engine   *application.Engine
	Renderer ports.Renderer
	Index    ports.PageIndex
	Reader   ports.DocumentReader
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	msg := application.Describe(err)
	if detail := err.Error(); detail != msg {
		msg += " (" + detail + ")"
	}
	return mcp.NewToolResultError(msg), nil
}

func requireString(req mcp.CallToolRequest, name string) (string, error) {
	v := strings.TrimSpace(req.GetString(name, ""))
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func renderTree(sb *strings.Builder, tree *domain.PageTree) {
	if tree.Home != nil {
		fmt.Fprintf(sb, "/  %s\n", tree.Home.StoragePath)
	}
	var walk func(node *domain.PageNode, prefix string)
	walk = func(node *domain.PageNode, prefix string) {
		for _, child := range node.SortedChildren() {
			switch {
			case child.Document != nil:
				fmt.Fprintf(sb, "%s%s  %s\n", prefix, child.Segment, child.Document.StoragePath)
			default:
				fmt.Fprintf(sb, "%s%s/\n", prefix, child.Segment)
			}
			walk(child, prefix+"  ")
		}
	}
	walk(tree.Root, "")
}

// handle wraps a command style function as a tool handler
func handle(fn func(ctx context.Context, req mcp.CallToolRequest) (string, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := fn(ctx, req)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(text), nil
	}
}
