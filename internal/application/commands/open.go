package commands

import (
	"context"
	"fmt"

	"confluenz/internal/application"
	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// OpenPageResult contains a page as read from the remote store
type OpenPageResult struct {
	Document *domain.OpenedDocument
	Buffer   *domain.EditBuffer
	Message  string
}

// OpenPageCommand reads a page for viewing or editing
type OpenPageCommand struct {
	engine      *application.Engine
	StoragePath string
}

// NewOpenPageCommand creates a new OpenPageCommand
func NewOpenPageCommand(engine *application.Engine, storagePath string) *OpenPageCommand {
	return &OpenPageCommand{
		engine:      engine,
		StoragePath: storagePath,
	}
}

// Validate checks if the open operation is valid
func (c *OpenPageCommand) Validate() error {
	return application.ValidateDocumentPath("storagePath", c.StoragePath)
}

// Execute runs the open page command
func (c *OpenPageCommand) Execute(ctx context.Context) (*OpenPageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc, err := c.engine.OpenDocument(ctx, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &OpenPageResult{
		Document: doc,
		Buffer:   domain.NewEditBuffer(doc),
		Message:  fmt.Sprintf("Opened %s", doc.StoragePath),
	}, nil
}

// RenderPageResult contains a page rendered to HTML
type RenderPageResult struct {
	StoragePath string
	HTML        string
}

// RenderPageCommand reads a page and renders its Markdown
type RenderPageCommand struct {
	engine      *application.Engine
	renderer    ports.Renderer
	StoragePath string
}

// NewRenderPageCommand creates a new RenderPageCommand
func NewRenderPageCommand(engine *application.Engine, renderer ports.Renderer, storagePath string) *RenderPageCommand {
	return &RenderPageCommand{
		engine:      engine,
		renderer:    renderer,
		StoragePath: storagePath,
	}
}

// Execute runs the render page command
func (c *RenderPageCommand) Execute(ctx context.Context) (*RenderPageResult, error) {
	if err := application.ValidateDocumentPath("storagePath", c.StoragePath); err != nil {
		return nil, err
	}

	html, err := c.engine.RenderDocument(ctx, c.StoragePath, c.renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	return &RenderPageResult{StoragePath: c.StoragePath, HTML: html}, nil
}
