package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"confluenz/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the wiki",
	Long: `Search page titles and text.

The local index is brought up to date first, reading only pages that changed
since the last search. Results are ranked by relevance using fuzzy matching.

Examples:
  confluenz-cli search install
  confluenz-cli search "release notes"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(cmd.Context())
		if err != nil {
			return err
		}

		index := wiki.PageIndex()
		if index != nil {
			stats, err := index.Sync(cmd.Context(), tree, wiki.Store)
			if err != nil {
				fmt.Fprintln(os.Stderr, warning("index sync failed, matching page paths only: "+err.Error()))
				index = nil
			} else if verbose {
				fmt.Fprintf(os.Stderr, "indexed: %d added, %d updated, %d deleted in %s\n",
					stats.PagesAdded, stats.PagesUpdated, stats.PagesDeleted, stats.Duration)
			}
		}

		results, err := commands.NewSearchCommand(index, tree, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s  %s\n", bold(r.Title), faint(r.StoragePath))
			if r.MatchedText != "" && r.MatchedText != r.Title {
				fmt.Printf("    %s\n", r.MatchedText)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
