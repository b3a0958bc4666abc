package commands

import (
	"context"
	"errors"
	"testing"

	"confluenz/internal/application"
)

func TestCreatePageCommand_Validate(t *testing.T) {
	tests := []struct {
		name        string
		logicalPath string
		wantErr     bool
		errMsg      string
	}{
		{name: "valid path", logicalPath: "guide/install"},
		{name: "single segment", logicalPath: "guide"},
		{name: "empty path", logicalPath: "", wantErr: true, errMsg: "logical path is required"},
		{name: "blank path", logicalPath: "   ", wantErr: true, errMsg: "logical path is required"},
		{name: "double slash", logicalPath: "guide//install", wantErr: true, errMsg: "invalid logical path"},
		{name: "reserved name", logicalPath: "guide/index.md", wantErr: true, errMsg: "invalid logical path"},
		{name: "dot dot", logicalPath: "../etc", wantErr: true, errMsg: "invalid logical path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &CreatePageCommand{LogicalPath: tt.logicalPath}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreatePageCommand_Execute(t *testing.T) {
	engine, dir := setupEngine(t, map[string]string{"index.md": "# Home"})
	ctx := context.Background()

	result, err := NewCreatePageCommand(engine, "guide/install", "").Execute(ctx)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.StoragePath != "guide/install/index.md" {
		t.Errorf("expected guide/install/index.md, got %s", result.StoragePath)
	}
	if !contains(result.Message, "guide/install") {
		t.Errorf("unexpected message: %s", result.Message)
	}
	if content := readFile(t, dir, "guide/install/index.md"); !contains(content, "# Install") {
		t.Errorf("expected page template, got %q", content)
	}

	node := engine.Tree().Find([]string{"guide", "install"})
	if node == nil || node.Document == nil {
		t.Fatal("new page should be in the tree after create")
	}
	if guide := engine.Tree().Find([]string{"guide"}); guide == nil || guide.Document != nil {
		t.Error("intermediate folder should exist without a document")
	}

	_, err = NewCreatePageCommand(engine, "guide/install", "again").Execute(ctx)
	if !errors.Is(err, application.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreatePageCommand_KeepsGivenText(t *testing.T) {
	engine, dir := setupEngine(t, nil)

	if _, err := NewCreatePageCommand(engine, "notes", "hello").Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if content := readFile(t, dir, "notes/index.md"); content != "hello" {
		t.Errorf("expected given text, got %q", content)
	}
}

func TestCreateSubpageCommand(t *testing.T) {
	engine, dir := setupEngine(t, map[string]string{"guide/index.md": "# Guide"})
	ctx := context.Background()

	result, err := NewCreateSubpageCommand(engine, "guide/index.md", " faq ", "# FAQ").Execute(ctx)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.StoragePath != "guide/faq/index.md" {
		t.Errorf("expected guide/faq/index.md, got %s", result.StoragePath)
	}
	if content := readFile(t, dir, "guide/faq/index.md"); content != "# FAQ" {
		t.Errorf("unexpected content %q", content)
	}

	tests := []struct {
		name   string
		parent string
		child  string
		kind   error
	}{
		{name: "parent is not a page", parent: "guide", child: "x", kind: application.ErrInvalidParent},
		{name: "parent is a marker", parent: "guide/.gitkeep", child: "x", kind: application.ErrInvalidParent},
		{name: "child has slash", parent: "guide/index.md", child: "a/b", kind: application.ErrInvalidPath},
		{name: "reserved child", parent: "guide/index.md", child: ".gitkeep", kind: application.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCreateSubpageCommand(engine, tt.parent, tt.child, "").Execute(ctx)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestCreateFolderCommand(t *testing.T) {
	engine, dir := setupEngine(t, nil)
	ctx := context.Background()

	result, err := NewCreateFolderCommand(engine, "drafts").Execute(ctx)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.MarkerPath != "drafts/.gitkeep" {
		t.Errorf("expected drafts/.gitkeep, got %s", result.MarkerPath)
	}
	if content := readFile(t, dir, "drafts/.gitkeep"); content != "" {
		t.Errorf("marker should be empty, got %q", content)
	}

	node := engine.Tree().Find([]string{"drafts"})
	if node == nil {
		t.Fatal("folder should appear in the tree")
	}
	if node.Document != nil || node.HasChildren() {
		t.Error("placeholder folder should have no document or children")
	}

	if _, err := NewCreateFolderCommand(engine, "drafts").Execute(ctx); !errors.Is(err, application.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}
