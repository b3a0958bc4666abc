package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"confluenz/internal/adapters/editor"
	"confluenz/internal/application"
	"confluenz/internal/application/commands"
)

var editCmd = &cobra.Command{
	Use:   "edit <page>",
	Short: "Edit a page in $EDITOR",
	Long: `Open a page in $EDITOR (or $VISUAL) and save it when the editor exits.

If the page changed in the meantime the save is rejected and the edited
text is left in a temporary file.

Example:
  confluenz-cli edit guide/install`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := storagePath(args[0])
		if err != nil {
			return err
		}

		opened, err := commands.NewOpenPageCommand(wiki.Engine, path).Execute(cmd.Context())
		if err != nil {
			return err
		}

		session, err := editor.NewSession(opened.Buffer)
		if err != nil {
			return err
		}
		if err := editor.NewOpener().OpenFile(session.Path()); err != nil {
			session.Cleanup()
			return fmt.Errorf("editor failed: %w", err)
		}

		buf, changed, err := session.Result()
		if err != nil {
			return err
		}
		if !changed {
			session.Cleanup()
			fmt.Println("No changes")
			return nil
		}

		result, err := commands.NewSavePageCommand(wiki.Engine, buf).Execute(cmd.Context())
		if err != nil {
			if errors.Is(err, application.ErrVersionConflict) || errors.Is(err, application.ErrRemoteUnavailable) {
				fmt.Println(warning("Your text is kept in " + session.Path()))
			} else {
				session.Cleanup()
			}
			return err
		}

		session.Cleanup()
		fmt.Println(success(result.Message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
