package commands

import (
	"context"
	"fmt"

	"confluenz/internal/application"
	"confluenz/internal/domain"
)

// SavePageResult contains the result of saving a page
type SavePageResult struct {
	StoragePath  string
	VersionStamp string
	Message      string
}

// SavePageCommand writes an edited page back, provided nobody changed it
// since it was opened
type SavePageCommand struct {
	engine *application.Engine
	Buffer *domain.EditBuffer
}

// NewSavePageCommand creates a new SavePageCommand
func NewSavePageCommand(engine *application.Engine, buf *domain.EditBuffer) *SavePageCommand {
	return &SavePageCommand{
		engine: engine,
		Buffer: buf,
	}
}

// Validate checks if the save operation is valid
func (c *SavePageCommand) Validate() error {
	if c.Buffer == nil {
		return &application.ValidationError{
			Field:   "storagePath",
			Message: "nothing to save",
		}
	}
	if err := application.ValidateDocumentPath("storagePath", c.Buffer.StoragePath); err != nil {
		return err
	}
	if c.Buffer.BaseVersionStamp == "" {
		return &application.ValidationError{
			Field:   "baseVersionStamp",
			Message: "base version stamp is required; open the page before saving",
			Kind:    application.ErrVersionConflict,
		}
	}
	return nil
}

// Execute runs the save page command
func (c *SavePageCommand) Execute(ctx context.Context) (*SavePageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	stamp, err := c.engine.SaveDocument(ctx, c.Buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to save page: %w", err)
	}

	return &SavePageResult{
		StoragePath:  c.Buffer.StoragePath,
		VersionStamp: stamp,
		Message:      fmt.Sprintf("Saved %s", c.Buffer.StoragePath),
	}, nil
}
