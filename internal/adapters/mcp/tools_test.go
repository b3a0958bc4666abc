package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"confluenz/internal/adapters/filesystem"
	"confluenz/internal/adapters/markdown"
	"confluenz/internal/application"
)

func setupWiki(t *testing.T, files map[string]string) (*Wiki, string) {
	t.Helper()

	dir := t.TempDir()
	for p, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}

	store := filesystem.NewStore(dir)
	engine := application.NewEngine(store)
	if _, err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return &Wiki{Engine: engine, Renderer: markdown.NewRenderer(), Reader: store}, dir
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestTreeTool(t *testing.T) {
	w, _ := setupWiki(t, map[string]string{
		"index.md":           "# Home",
		"guide/index.md":     "# Guide",
		"guide/faq/index.md": "# FAQ",
		"drafts/.gitkeep":    "",
	})

	out, isErr := call(t, treeHandler(w), nil)
	if isErr {
		t.Fatalf("tree failed: %s", out)
	}

	want := "/  index.md\ndrafts/\nguide  guide/index.md\n  faq  guide/faq/index.md\n"
	if out != want {
		t.Errorf("tree output:\n%s\nwant:\n%s", out, want)
	}
}

func TestTreeTool_Empty(t *testing.T) {
	w, _ := setupWiki(t, nil)
	if out, _ := call(t, treeHandler(w), nil); out != "The wiki is empty." {
		t.Errorf("unexpected output %q", out)
	}
}

func TestReadAndSavePage(t *testing.T) {
	w, dir := setupWiki(t, map[string]string{"guide/index.md": "# Guide"})

	out, isErr := call(t, readPageHandler(w), map[string]any{"storage_path": "guide/index.md"})
	if isErr {
		t.Fatalf("read_page failed: %s", out)
	}
	header, body, _ := strings.Cut(out, "\n\n")
	stamp := strings.TrimPrefix(header, "version_stamp: ")
	if body != "# Guide" || stamp == "" {
		t.Fatalf("unexpected read output %q", out)
	}

	out, isErr = call(t, savePageHandler(w), map[string]any{
		"storage_path":  "guide/index.md",
		"content":       "# Guide v2",
		"version_stamp": stamp,
	})
	if isErr {
		t.Fatalf("save_page failed: %s", out)
	}
	if content, _ := os.ReadFile(filepath.Join(dir, "guide", "index.md")); string(content) != "# Guide v2" {
		t.Errorf("unexpected content %q", content)
	}

	out, isErr = call(t, savePageHandler(w), map[string]any{
		"storage_path":  "guide/index.md",
		"content":       "# Stale",
		"version_stamp": stamp,
	})
	if !isErr || !strings.Contains(out, "changed since you opened it") {
		t.Errorf("expected a conflict, got %q", out)
	}
}

func TestRenderPage(t *testing.T) {
	w, _ := setupWiki(t, map[string]string{"index.md": "# Hello"})

	out, isErr := call(t, renderPageHandler(w), map[string]any{"storage_path": "index.md"})
	if isErr || !strings.Contains(out, "<h1") {
		t.Errorf("unexpected render %q", out)
	}

	out, isErr = call(t, renderPageHandler(w), map[string]any{})
	if !isErr || !strings.Contains(out, "storage_path is required") {
		t.Errorf("expected required error, got %q", out)
	}
}

func TestWriteTools(t *testing.T) {
	w, dir := setupWiki(t, map[string]string{"guide/index.md": "# Guide"})

	steps := []struct {
		name    string
		handler server.ToolHandlerFunc
		args    map[string]any
		wantErr bool
		exists  string
	}{
		{
			name:    "create page",
			handler: createPageHandler(w),
			args:    map[string]any{"path": "ops/runbook", "content": "# Runbook"},
			exists:  "ops/runbook/index.md",
		},
		{
			name:    "create subpage",
			handler: createSubpageHandler(w),
			args:    map[string]any{"parent_storage_path": "guide/index.md", "name": "faq"},
			exists:  "guide/faq/index.md",
		},
		{
			name:    "create folder",
			handler: createFolderHandler(w),
			args:    map[string]any{"path": "drafts"},
			exists:  "drafts/.gitkeep",
		},
		{
			name:    "duplicate page",
			handler: createPageHandler(w),
			args:    map[string]any{"path": "ops/runbook"},
			wantErr: true,
		},
		{
			name:    "rename page",
			handler: renamePageHandler(w),
			args:    map[string]any{"storage_path": "guide/index.md", "new_path": "manual"},
			exists:  "manual/faq/index.md",
		},
		{
			name:    "delete page",
			handler: deletePageHandler(w),
			args:    map[string]any{"storage_path": "ops/runbook/index.md"},
		},
		{
			name:    "invalid path",
			handler: createPageHandler(w),
			args:    map[string]any{"path": "a//b"},
			wantErr: true,
		},
	}

	for _, step := range steps {
		out, isErr := call(t, step.handler, step.args)
		if isErr != step.wantErr {
			t.Fatalf("%s: isErr = %v, output %q", step.name, isErr, out)
		}
		if step.exists != "" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(step.exists))); err != nil {
				t.Errorf("%s: expected %s to exist", step.name, step.exists)
			}
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "ops")); !os.IsNotExist(err) {
		t.Error("deleting the only page should remove its folder")
	}
}

func TestSearchTool_PathsOnly(t *testing.T) {
	w, _ := setupWiki(t, map[string]string{
		"guide/install/index.md": "# Install",
		"recipes/index.md":       "# Recipes",
	})

	out, isErr := call(t, searchHandler(w), map[string]any{"query": "install"})
	if isErr || !strings.Contains(out, "guide/install/index.md") || strings.Contains(out, "recipes") {
		t.Errorf("unexpected search output %q", out)
	}

	if out, _ := call(t, searchHandler(w), map[string]any{"query": "zzz"}); out != "No results found." {
		t.Errorf("unexpected output %q", out)
	}
}
