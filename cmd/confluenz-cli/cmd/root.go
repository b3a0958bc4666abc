package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"confluenz/internal/bootstrap"
	"confluenz/internal/config"
	"confluenz/internal/domain"
)

var (
	configPath string
	dirFlag    string
	repoFlag   string
	branchFlag string
	verbose    bool

	cfg  config.Config
	wiki *bootstrap.Wiki
)

// skipWiki marks commands that run without opening the wiki
const skipWiki = "skip-wiki"

var (
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "confluenz-cli",
	Short: "CLI for wikis stored in a git repository",
	Long: `confluenz-cli edits a wiki kept as Markdown files in a GitHub repository
or a local directory. Every page is a folder holding an index.md; subpages are
nested folders.

Page paths are written without the index.md suffix, e.g. guide/install.
Use / for the home page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dirFlag != "" {
			cfg.Dir = dirFlag
		}
		if repoFlag != "" {
			cfg.Repository = repoFlag
			cfg.Dir = ""
		}
		if branchFlag != "" {
			cfg.Branch = branchFlag
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		if cmd.Annotations[skipWiki] == "true" {
			return nil
		}

		wiki, err = bootstrap.Open(cmd.Context(), cfg, cfg.NewLogger(os.Stderr))
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if wiki == nil {
			return nil
		}
		return wiki.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "use a local wiki directory")
	rootCmd.PersistentFlags().StringVarP(&repoFlag, "repo", "r", "", "GitHub repository (owner/name)")
	rootCmd.PersistentFlags().StringVarP(&branchFlag, "branch", "b", "", "branch holding the wiki")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
}

// loadTree lists the repository so later commands see the current tree
func loadTree(ctx context.Context) (*domain.PageTree, error) {
	tree, err := wiki.Engine.Load(ctx)
	if err != nil {
		return nil, err
	}
	if n := len(tree.Rejected); n > 0 {
		fmt.Fprintln(os.Stderr, warning(fmt.Sprintf("%d invalid paths ignored", n)))
	}
	return tree, nil
}

// storagePath turns a page argument into the path of its index.md.
// "/" is the home page; arguments already ending in index.md are kept.
func storagePath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "/" || arg == "" {
		return domain.DocumentName, nil
	}
	if domain.IsDocument(arg) {
		return arg, nil
	}
	segments, err := domain.SplitLogicalPath(strings.Trim(arg, "/"))
	if err != nil {
		return "", err
	}
	return domain.ToStoragePath(segments)
}
