package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"confluenz/internal/application/commands"
)

// RegisterReadTools adds all read-only wiki tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, w *Wiki) {
	s.AddTool(treeTool(), treeHandler(w))
	s.AddTool(readPageTool(), readPageHandler(w))
	s.AddTool(renderPageTool(), renderPageHandler(w))
	s.AddTool(searchTool(), searchHandler(w))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Reload and display the wiki page tree. Pages are shown with their storage path; folders without a page end in /."),
	)
}

func treeHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, _ mcp.CallToolRequest) (string, error) {
		result, err := commands.NewLoadTreeCommand(w.Engine).Execute(ctx)
		if err != nil {
			return "", err
		}
		if result.Tree.Len() == 0 && !result.Tree.Root.HasChildren() {
			return "The wiki is empty.", nil
		}

		var sb strings.Builder
		renderTree(&sb, result.Tree)
		return sb.String(), nil
	})
}

// --- read_page ---

func readPageTool() mcp.Tool {
	return mcp.NewTool("read_page",
		mcp.WithDescription("Read the Markdown of a page. The first line carries the version stamp needed by save_page."),
		mcp.WithString("storage_path",
			mcp.Description("Storage path of the page (e.g. guide/install/index.md)"),
			mcp.Required(),
		),
	)
}

func readPageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		path, err := requireString(req, "storage_path")
		if err != nil {
			return "", err
		}

		result, err := commands.NewOpenPageCommand(w.Engine, path).Execute(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("version_stamp: %s\n\n%s", result.Document.VersionStamp, result.Document.Text), nil
	})
}

// --- render_page ---

func renderPageTool() mcp.Tool {
	return mcp.NewTool("render_page",
		mcp.WithDescription("Render a page to HTML."),
		mcp.WithString("storage_path",
			mcp.Description("Storage path of the page"),
			mcp.Required(),
		),
	)
}

func renderPageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		path, err := requireString(req, "storage_path")
		if err != nil {
			return "", err
		}

		result, err := commands.NewRenderPageCommand(w.Engine, w.Renderer, path).Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	})
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search pages by title and content. Returns matching storage paths."),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
	)
}

func searchHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		query, err := requireString(req, "query")
		if err != nil {
			return "", err
		}

		if w.Index != nil && w.Reader != nil {
			if _, err := w.Index.Sync(ctx, w.Engine.Tree(), w.Reader); err != nil {
				return "", err
			}
		}

		results, err := commands.NewSearchCommand(w.Index, w.Engine.Tree(), query).Execute(ctx)
		if err != nil {
			return "", err
		}
		if len(results) == 0 {
			return "No results found.", nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  %s\n", r.StoragePath, r.Title, r.MatchedText)
		}
		return sb.String(), nil
	})
}
