package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"confluenz/internal/application/commands"
	"confluenz/internal/domain"
)

// RegisterWriteTools adds all write wiki tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, w *Wiki) {
	s.AddTool(createPageTool(), createPageHandler(w))
	s.AddTool(createSubpageTool(), createSubpageHandler(w))
	s.AddTool(createFolderTool(), createFolderHandler(w))
	s.AddTool(savePageTool(), savePageHandler(w))
	s.AddTool(deletePageTool(), deletePageHandler(w))
	s.AddTool(renamePageTool(), renamePageHandler(w))
}

// --- create_page ---

func createPageTool() mcp.Tool {
	return mcp.NewTool("create_page",
		mcp.WithDescription("Create a page at a slash separated path. Missing folders are created implicitly."),
		mcp.WithString("path",
			mcp.Description("Logical page path (e.g. guide/install)"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Initial Markdown. Omit for a page template."),
		),
	)
}

func createPageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		cmd := commands.NewCreatePageCommand(w.Engine, req.GetString("path", ""), req.GetString("content", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.Message + "\n" + result.StoragePath, nil
	})
}

// --- create_subpage ---

func createSubpageTool() mcp.Tool {
	return mcp.NewTool("create_subpage",
		mcp.WithDescription("Create a page beneath an existing page."),
		mcp.WithString("parent_storage_path",
			mcp.Description("Storage path of the parent page (e.g. guide/index.md)"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new page; a single path segment"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Initial Markdown. Omit for a page template."),
		),
	)
}

func createSubpageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		cmd := commands.NewCreateSubpageCommand(w.Engine,
			req.GetString("parent_storage_path", ""),
			req.GetString("name", ""),
			req.GetString("content", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.Message + "\n" + result.StoragePath, nil
	})
}

// --- create_folder ---

func createFolderTool() mcp.Tool {
	return mcp.NewTool("create_folder",
		mcp.WithDescription("Create an empty folder that can hold pages later."),
		mcp.WithString("path",
			mcp.Description("Logical folder path (e.g. drafts)"),
			mcp.Required(),
		),
	)
}

func createFolderHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		result, err := commands.NewCreateFolderCommand(w.Engine, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.Message, nil
	})
}

// --- save_page ---

func savePageTool() mcp.Tool {
	return mcp.NewTool("save_page",
		mcp.WithDescription("Replace the Markdown of a page. Fails if the page changed since it was read; read it again and retry."),
		mcp.WithString("storage_path",
			mcp.Description("Storage path of the page"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("New Markdown"),
			mcp.Required(),
		),
		mcp.WithString("version_stamp",
			mcp.Description("Version stamp returned by read_page"),
			mcp.Required(),
		),
	)
}

func savePageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		buf := &domain.EditBuffer{
			StoragePath:      req.GetString("storage_path", ""),
			Text:             req.GetString("content", ""),
			BaseVersionStamp: req.GetString("version_stamp", ""),
		}
		result, err := commands.NewSavePageCommand(w.Engine, buf).Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.Message + "\nversion_stamp: " + result.VersionStamp, nil
	})
}

// --- delete_page ---

func deletePageTool() mcp.Tool {
	return mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page. Its subpages are kept."),
		mcp.WithString("storage_path",
			mcp.Description("Storage path of the page"),
			mcp.Required(),
		),
	)
}

func deletePageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		result, err := commands.NewDeletePageCommand(w.Engine, req.GetString("storage_path", "")).Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.Message, nil
	})
}

// --- rename_page ---

func renamePageTool() mcp.Tool {
	return mcp.NewTool("rename_page",
		mcp.WithDescription("Move a page and all of its subpages to a new path."),
		mcp.WithString("storage_path",
			mcp.Description("Storage path of the page"),
			mcp.Required(),
		),
		mcp.WithString("new_path",
			mcp.Description("New logical page path (e.g. docs/install)"),
			mcp.Required(),
		),
	)
}

func renamePageHandler(w *Wiki) server.ToolHandlerFunc {
	return handle(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		cmd := commands.NewRenamePageCommand(w.Engine, req.GetString("storage_path", ""), req.GetString("new_path", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return "", err
		}
		return result.Message, nil
	})
}
