package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"confluenz/internal/application"
	"confluenz/internal/application/commands"
	"confluenz/internal/domain"
)

var (
	saveStamp string
	saveFile  string
)

var saveCmd = &cobra.Command{
	Use:   "save <page> --stamp <version>",
	Short: "Replace a page's text",
	Long: `Replace the text of a page. The save only succeeds while the page is
still at the version given with --stamp, as printed by show.

Examples:
  confluenz-cli show guide/install > install.md
  confluenz-cli save guide/install --stamp 3b18e51 --file install.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := storagePath(args[0])
		if err != nil {
			return err
		}
		if saveFile == "" {
			saveFile = "-"
		}
		text, err := readText(saveFile)
		if err != nil {
			return err
		}

		buf := &domain.EditBuffer{StoragePath: path, Text: text, BaseVersionStamp: saveStamp}
		result, err := commands.NewSavePageCommand(wiki.Engine, buf).Execute(cmd.Context())
		if errors.Is(err, application.ErrVersionConflict) {
			return fmt.Errorf("%s\n%w", application.Describe(err), err)
		}
		if err != nil {
			return err
		}
		fmt.Println(success(result.Message))
		fmt.Println(faint("version_stamp: " + result.VersionStamp))
		return nil
	},
}

func init() {
	saveCmd.Flags().StringVarP(&saveStamp, "stamp", "s", "", "version the edit is based on")
	saveCmd.Flags().StringVarP(&saveFile, "file", "f", "", "new page text (default stdin)")
	saveCmd.MarkFlagRequired("stamp")
	rootCmd.AddCommand(saveCmd)
}
