package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"confluenz/internal/adapters/editor"
	"confluenz/internal/adapters/tui"
	"confluenz/internal/bootstrap"
	"confluenz/internal/config"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to the config file")
	dirFlag := flag.String("dir", "", "use a local wiki directory")
	repoFlag := flag.String("repo", "", "GitHub repository (owner/name)")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dirFlag != "" {
		cfg.Dir = *dirFlag
	}
	if *repoFlag != "" {
		cfg.Repository = *repoFlag
		cfg.Dir = ""
	}

	// The terminal belongs to the UI; logs go to a file.
	logFile, closeLog := openLog()
	defer closeLog()

	wiki, err := bootstrap.Open(context.Background(), cfg, cfg.NewLogger(logFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer wiki.Close()

	app := tui.NewApp(wiki.Engine, tui.Options{
		Editor: editor.NewOpener(),
		Index:  wiki.PageIndex(),
		Reader: wiki.Store,
		Web:    wiki.Web,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openLog() (io.Writer, func()) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return io.Discard, func() {}
	}
	path := filepath.Join(dir, "confluenz", "confluenz.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return io.Discard, func() {}
	}
	f, err := tea.LogToFile(path, "confluenz")
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
