package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"confluenz/internal/application"
	"confluenz/internal/domain"
)

// CreatePageResult contains the result of creating a page
type CreatePageResult struct {
	StoragePath string
	Message     string
}

// CreatePageCommand creates a page at a logical path like "guide/install"
type CreatePageCommand struct {
	engine      *application.Engine
	LogicalPath string
	Text        string // page template when empty
}

// NewCreatePageCommand creates a new CreatePageCommand
func NewCreatePageCommand(engine *application.Engine, logicalPath, text string) *CreatePageCommand {
	return &CreatePageCommand{
		engine:      engine,
		LogicalPath: logicalPath,
		Text:        text,
	}
}

// Validate checks if the create operation is valid
func (c *CreatePageCommand) Validate() error {
	_, err := application.ValidateLogicalPath("logicalPath", c.LogicalPath)
	return err
}

// Execute runs the create page command
func (c *CreatePageCommand) Execute(ctx context.Context) (*CreatePageResult, error) {
	segments, err := application.ValidateLogicalPath("logicalPath", c.LogicalPath)
	if err != nil {
		return nil, err
	}

	storagePath, err := domain.ToStoragePath(segments)
	if err != nil {
		return nil, err
	}

	text := initialText(c.Text, segments[len(segments)-1])
	if err := c.engine.CreatePage(ctx, segments, text); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &CreatePageResult{
		StoragePath: storagePath,
		Message:     fmt.Sprintf("Created page: %s", domain.JoinLogicalPath(segments)),
	}, nil
}

// CreateSubpageCommand creates a page beneath an existing page
type CreateSubpageCommand struct {
	engine            *application.Engine
	ParentStoragePath string
	Name              string
	Text              string
}

// NewCreateSubpageCommand creates a new CreateSubpageCommand
func NewCreateSubpageCommand(engine *application.Engine, parentStoragePath, name, text string) *CreateSubpageCommand {
	return &CreateSubpageCommand{
		engine:            engine,
		ParentStoragePath: parentStoragePath,
		Name:              name,
		Text:              text,
	}
}

// Validate checks if the create operation is valid
func (c *CreateSubpageCommand) Validate() error {
	if err := application.ValidateRequired("parentStoragePath", c.ParentStoragePath); err != nil {
		return err
	}
	if !domain.IsDocument(c.ParentStoragePath) {
		return &application.ValidationError{
			Field:   "parentStoragePath",
			Message: fmt.Sprintf("%s is not a page", c.ParentStoragePath),
			Kind:    application.ErrInvalidParent,
		}
	}
	if err := application.ValidateRequired("segment", c.Name); err != nil {
		return err
	}
	if err := domain.ValidateSegment(strings.TrimSpace(c.Name)); err != nil {
		return &application.ValidationError{
			Field:   "segment",
			Message: fmt.Sprintf("invalid page name: %q", c.Name),
			Kind:    application.ErrInvalidPath,
		}
	}
	return nil
}

// Execute runs the create subpage command
func (c *CreateSubpageCommand) Execute(ctx context.Context) (*CreatePageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.Name)
	parent, err := domain.ParentLogicalPath(c.ParentStoragePath)
	if err != nil {
		return nil, err
	}
	segments := append(parent, name)
	storagePath, err := domain.ToStoragePath(segments)
	if err != nil {
		return nil, err
	}

	text := initialText(c.Text, name)
	if err := c.engine.CreateSubpage(ctx, c.ParentStoragePath, name, text); err != nil {
		return nil, fmt.Errorf("failed to create subpage: %w", err)
	}

	return &CreatePageResult{
		StoragePath: storagePath,
		Message:     fmt.Sprintf("Created subpage: %s", domain.JoinLogicalPath(segments)),
	}, nil
}

// CreateFolderResult contains the result of creating a folder
type CreateFolderResult struct {
	MarkerPath string
	Message    string
}

// CreateFolderCommand creates an empty folder that can later hold pages
type CreateFolderCommand struct {
	engine      *application.Engine
	LogicalPath string
}

// NewCreateFolderCommand creates a new CreateFolderCommand
func NewCreateFolderCommand(engine *application.Engine, logicalPath string) *CreateFolderCommand {
	return &CreateFolderCommand{
		engine:      engine,
		LogicalPath: logicalPath,
	}
}

// Execute runs the create folder command
func (c *CreateFolderCommand) Execute(ctx context.Context) (*CreateFolderResult, error) {
	segments, err := application.ValidateLogicalPath("logicalPath", c.LogicalPath)
	if err != nil {
		return nil, err
	}

	markerPath, err := domain.FolderMarkerPath(segments)
	if err != nil {
		return nil, err
	}

	if err := c.engine.CreateFolder(ctx, segments); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return &CreateFolderResult{
		MarkerPath: markerPath,
		Message:    fmt.Sprintf("Created folder: %s", domain.JoinLogicalPath(segments)),
	}, nil
}

func initialText(text, segment string) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	return domain.PageTemplate(segment, time.Now())
}
