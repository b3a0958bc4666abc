// Package bootstrap assembles a wiki session from configuration: the
// remote store, the engine on top of it, the renderer and the search index.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v66/github"

	"confluenz/internal/adapters/auth"
	"confluenz/internal/adapters/filesystem"
	ghstore "confluenz/internal/adapters/github"
	"confluenz/internal/adapters/markdown"
	"confluenz/internal/adapters/sqlite"
	"confluenz/internal/adapters/web"
	"confluenz/internal/application"
	"confluenz/internal/config"
	"confluenz/internal/ports"
)

// Wiki is everything a front end needs to work on one wiki
type Wiki struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    ports.RemoteStore
	Engine   *application.Engine
	Renderer *markdown.Renderer
	Index    *sqlite.Index // nil when the index could not be opened
	Web      *web.Opener
}

// Open builds the wiki selected by cfg. The tree is not loaded yet.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Wiki, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	renderer := markdown.NewRenderer()
	w := &Wiki{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Engine:   application.NewEngine(store, application.WithLogger(logger)),
		Renderer: renderer,
	}

	if fs, ok := store.(*filesystem.Store); ok {
		w.Web, err = web.NewFileOpener(fs.Root())
	} else {
		w.Web, err = web.NewGitHubOpener(cfg.AuthURL, cfg.Repository, cfg.Branch)
	}
	if err != nil {
		return nil, err
	}

	index := sqlite.NewIndex(sqlite.WithTitler(renderer.Title))
	if err := index.Open(cfg.RepoKey()); err != nil {
		logger.Warn("search index unavailable", "err", err)
	} else {
		w.Index = index
	}

	return w, nil
}

func newStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.RemoteStore, error) {
	if cfg.Dir != "" {
		logger.Debug("using local wiki", "dir", cfg.Dir)
		return filesystem.NewStore(cfg.Dir), nil
	}

	opts := ghstore.Options{
		Repository: cfg.Repository,
		Branch:     cfg.Branch,
		APIURL:     cfg.APIURL,
		Logger:     logger,
	}
	if cfg.CommitterName != "" && cfg.CommitterEmail != "" {
		opts.Committer = &github.CommitAuthor{
			Name:  github.String(cfg.CommitterName),
			Email: github.String(cfg.CommitterEmail),
		}
	}

	ts, err := Credentials(cfg).TokenSource()
	switch {
	case errors.Is(err, auth.ErrNoCredentials):
		logger.Warn("no credentials found, the repository is read anonymously")
	case err != nil:
		return nil, err
	default:
		opts.TokenSource = ts
	}

	store, err := ghstore.NewStore(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	logger.Debug("using GitHub wiki", "repository", cfg.Repository, "branch", cfg.Branch)
	return store, nil
}

// Credentials returns where the token for cfg is looked up and saved
func Credentials(cfg config.Config) *auth.Credentials {
	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile = auth.DefaultTokenFile()
	}
	return auth.NewCredentials(tokenFile)
}

// PageIndex returns the index as a port, or nil when there is none
func (w *Wiki) PageIndex() ports.PageIndex {
	if w.Index == nil {
		return nil
	}
	return w.Index
}

// Close releases the index
func (w *Wiki) Close() error {
	if w.Index == nil {
		return nil
	}
	return w.Index.Close()
}
