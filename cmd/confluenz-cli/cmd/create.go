package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"confluenz/internal/application/commands"
)

var createFile string

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Create a page",
	Long: `Create a page at a path. Missing parent folders are created with it.

The page starts from a template unless --file is given (- reads stdin).

Examples:
  confluenz-cli create guide/install
  confluenz-cli create guide/faq --file faq.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(createFile)
		if err != nil {
			return err
		}
		if _, err := loadTree(cmd.Context()); err != nil {
			return err
		}

		result, err := commands.NewCreatePageCommand(wiki.Engine, args[0], text).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(success(result.Message))
		return nil
	},
}

var subpageCmd = &cobra.Command{
	Use:   "subpage <parent> <name>",
	Short: "Create a page under an existing page",
	Long: `Create a page one level below an existing page.

Examples:
  confluenz-cli subpage guide install
  confluenz-cli subpage / about`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := storagePath(args[0])
		if err != nil {
			return err
		}
		text, err := readText(createFile)
		if err != nil {
			return err
		}
		if _, err := loadTree(cmd.Context()); err != nil {
			return err
		}

		result, err := commands.NewCreateSubpageCommand(wiki.Engine, parent, args[1], text).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(success(result.Message))
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create an empty folder",
	Long: `Create a folder without a page. A placeholder file keeps it in the
repository until a page is added.

Example:
  confluenz-cli mkdir guide/reference`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadTree(cmd.Context()); err != nil {
			return err
		}
		result, err := commands.NewCreateFolderCommand(wiki.Engine, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(success(result.Message))
		return nil
	},
}

// readText reads a page body from path, stdin for "-", or nothing for ""
func readText(path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "initial page text (- for stdin)")
	subpageCmd.Flags().StringVarP(&createFile, "file", "f", "", "initial page text (- for stdin)")
	rootCmd.AddCommand(createCmd, subpageCmd, mkdirCmd)
}
