package commands

import (
	"context"
	"fmt"

	"confluenz/internal/application"
)

// DeletePageResult contains the result of deleting a page
type DeletePageResult struct {
	StoragePath string
	Message     string
}

// DeletePageCommand deletes a page document. Subpages are kept.
type DeletePageCommand struct {
	engine      *application.Engine
	StoragePath string
}

// NewDeletePageCommand creates a new DeletePageCommand
func NewDeletePageCommand(engine *application.Engine, storagePath string) *DeletePageCommand {
	return &DeletePageCommand{
		engine:      engine,
		StoragePath: storagePath,
	}
}

// Validate checks if the delete operation is valid
func (c *DeletePageCommand) Validate() error {
	return application.ValidateDocumentPath("storagePath", c.StoragePath)
}

// Execute runs the delete page command
func (c *DeletePageCommand) Execute(ctx context.Context) (*DeletePageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.engine.DeleteDocument(ctx, c.StoragePath); err != nil {
		return nil, fmt.Errorf("failed to delete page: %w", err)
	}

	return &DeletePageResult{
		StoragePath: c.StoragePath,
		Message:     fmt.Sprintf("Deleted %s", c.StoragePath),
	}, nil
}
