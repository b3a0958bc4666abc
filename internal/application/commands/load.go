package commands

import (
	"context"
	"fmt"

	"confluenz/internal/application"
	"confluenz/internal/domain"
)

// LoadTreeResult contains the freshly loaded page tree
type LoadTreeResult struct {
	Tree     *domain.PageTree
	Pages    int
	Rejected []string
	Message  string
}

// LoadTreeCommand reloads the page tree from the remote store
type LoadTreeCommand struct {
	engine *application.Engine
}

// NewLoadTreeCommand creates a new LoadTreeCommand
func NewLoadTreeCommand(engine *application.Engine) *LoadTreeCommand {
	return &LoadTreeCommand{engine: engine}
}

// Execute runs the load tree command
func (c *LoadTreeCommand) Execute(ctx context.Context) (*LoadTreeResult, error) {
	tree, err := c.engine.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}

	msg := fmt.Sprintf("Loaded %d pages", tree.Len())
	if n := len(tree.Rejected); n > 0 {
		msg += fmt.Sprintf(" (%d invalid paths ignored)", n)
	}

	return &LoadTreeResult{
		Tree:     tree,
		Pages:    tree.Len(),
		Rejected: tree.Rejected,
		Message:  msg,
	}, nil
}
