package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"confluenz/internal/application/commands"
)

var (
	showHTML bool
	showWeb  bool
)

var showCmd = &cobra.Command{
	Use:   "show <page>",
	Short: "Print a page",
	Long: `Print the Markdown of a page, or its HTML with --html.

The version stamp is printed to stderr; pass it to save to update the page.

Examples:
  confluenz-cli show guide/install
  confluenz-cli show / --html
  confluenz-cli show guide --web`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := storagePath(args[0])
		if err != nil {
			return err
		}

		if showWeb {
			fmt.Println(wiki.Web.BuildURL(path))
			return wiki.Web.OpenPage(path)
		}

		if showHTML {
			result, err := commands.NewRenderPageCommand(wiki.Engine, wiki.Renderer, path).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(result.HTML)
			return nil
		}

		result, err := commands.NewOpenPageCommand(wiki.Engine, path).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, faint("version_stamp: "+result.Document.VersionStamp))
		fmt.Print(result.Document.Text)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showHTML, "html", false, "render the page as HTML")
	showCmd.Flags().BoolVar(&showWeb, "web", false, "open the page in a browser")
	rootCmd.AddCommand(showCmd)
}
