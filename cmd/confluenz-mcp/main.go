package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "confluenz/internal/adapters/mcp"
	"confluenz/internal/bootstrap"
	"confluenz/internal/config"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to the config file")
	dirFlag := flag.String("dir", "", "use a local wiki directory")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("confluenz-mcp: %v", err)
	}
	if *dirFlag != "" {
		cfg.Dir = *dirFlag
	}

	// stdout carries the protocol
	wiki, err := bootstrap.Open(context.Background(), cfg, cfg.NewLogger(os.Stderr))
	if err != nil {
		log.Fatalf("confluenz-mcp: %v", err)
	}
	defer wiki.Close()

	mcpServer := server.NewMCPServer(
		"confluenz-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	w := &mcpadapter.Wiki{
		Engine:   wiki.Engine,
		Renderer: wiki.Renderer,
		Index:    wiki.PageIndex(),
		Reader:   wiki.Store,
	}
	mcpadapter.RegisterReadTools(mcpServer, w)
	mcpadapter.RegisterWriteTools(mcpServer, w)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("confluenz-mcp: %v", err)
	}
}
