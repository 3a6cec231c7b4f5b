package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake/clientcli"
)

var editTitle string

var editCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Replace the body of a text item",
	Long: `Replace the body of an existing text item.

Pass "-" as the text to read from stdin. The title is kept unless
--title is given.

Examples:
  keepsake-cli edit 1b4e28ba "milk, eggs, bread, coffee"
  cat notes.txt | keepsake-cli edit 1b4e28ba -`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title for the item")
}

func runEdit(_ *cobra.Command, args []string) error {
	text, err := readTextArg(args[1])
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.EditText(context.Background(), clientcli.EditTextOptions{
		ID:    args[0],
		Text:  text,
		Title: editTitle,
	})
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatText(os.Stdout, result)
}
