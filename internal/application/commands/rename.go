package commands

import (
	"context"
	"fmt"

	"confluenz/internal/application"
	"confluenz/internal/domain"
)

// RenamePageResult contains the result of a rename operation
type RenamePageResult struct {
	OriginalPath string
	StoragePath  string
	Message      string
}

// RenamePageCommand moves a page and its subpages to a new logical path
type RenamePageCommand struct {
	engine      *application.Engine
	StoragePath string
	NewPath     string
}

// NewRenamePageCommand creates a new RenamePageCommand
func NewRenamePageCommand(engine *application.Engine, storagePath, newPath string) *RenamePageCommand {
	return &RenamePageCommand{
		engine:      engine,
		StoragePath: storagePath,
		NewPath:     newPath,
	}
}

// Validate checks if the rename operation is valid
func (c *RenamePageCommand) Validate() error {
	if err := application.ValidateDocumentPath("storagePath", c.StoragePath); err != nil {
		return err
	}
	if c.StoragePath == domain.DocumentName {
		return &application.ValidationError{
			Field:   "storagePath",
			Message: "the home page cannot be renamed",
			Kind:    application.ErrInvalidPath,
		}
	}
	_, err := application.ValidateLogicalPath("newPath", c.NewPath)
	return err
}

// Execute runs the rename command
func (c *RenamePageCommand) Execute(ctx context.Context) (*RenamePageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	segments, err := application.ValidateLogicalPath("newPath", c.NewPath)
	if err != nil {
		return nil, err
	}
	target, err := domain.ToStoragePath(segments)
	if err != nil {
		return nil, err
	}

	if err := c.engine.RenamePage(ctx, c.StoragePath, segments); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &RenamePageResult{
		OriginalPath: c.StoragePath,
		StoragePath:  target,
		Message:      fmt.Sprintf("Renamed %s to %s", c.StoragePath, target),
	}, nil
}
