package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"confluenz/internal/application/commands"
	"confluenz/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the page tree",
	Long: `Display every page and folder of the wiki.

Folders without a page of their own end with a slash.

Example:
  confluenz-cli tree`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewLoadTreeCommand(wiki.Engine).Execute(cmd.Context())
		if err != nil {
			return err
		}

		if result.Pages == 0 && !result.Tree.Root.HasChildren() {
			fmt.Println("The wiki is empty")
			return nil
		}

		printTree(result.Tree)
		fmt.Println(faint(result.Message))
		return nil
	},
}

func printTree(tree *domain.PageTree) {
	if tree.Home != nil {
		fmt.Println(bold("/"))
	}

	var walk func(node *domain.PageNode, depth int)
	walk = func(node *domain.PageNode, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, child := range node.SortedChildren() {
			if child.IsPage() {
				fmt.Printf("%s%s\n", indent, child.Segment)
			} else {
				fmt.Printf("%s%s\n", indent, faint(child.Segment+"/"))
			}
			walk(child, depth+1)
		}
	}
	walk(tree.Root, 0)
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
