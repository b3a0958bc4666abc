package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"confluenz/internal/application"
	"confluenz/internal/application/commands"
)

var mvCmd = &cobra.Command{
	Use:     "mv <page> <new-path>",
	Aliases: []string{"rename"},
	Short:   "Rename or move a page with its subpages",
	Long: `Move a page and everything below it to a new path.

Every file is copied first; if any copy fails the copies are removed and the
original is left untouched.

Examples:
  confluenz-cli mv guide/install guide/setup
  confluenz-cli mv drafts/idea ideas`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := storagePath(args[0])
		if err != nil {
			return err
		}
		if _, err := loadTree(cmd.Context()); err != nil {
			return err
		}

		result, err := commands.NewRenamePageCommand(wiki.Engine, path, args[1]).Execute(cmd.Context())
		var rename *application.RenameError
		if errors.As(err, &rename) && len(rename.Moved) > 0 {
			fmt.Fprintln(os.Stderr, warning(fmt.Sprintf("%d files were moved before the failure:", len(rename.Moved))))
			for _, p := range rename.Moved {
				fmt.Fprintln(os.Stderr, "  "+p)
			}
		}
		if err != nil {
			return err
		}
		fmt.Println(success(result.Message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
