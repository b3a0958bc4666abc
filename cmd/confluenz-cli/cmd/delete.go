package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"confluenz/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <page>",
	Short: "Delete a page",
	Long: `Delete the index.md of a page. Subpages are kept; the page becomes a
folder while anything remains below it.

Example:
  confluenz-cli delete guide/install`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := storagePath(args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewDeletePageCommand(wiki.Engine, path).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(success(result.Message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
