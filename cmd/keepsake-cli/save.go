package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake/clientcli"
)

var saveTitle string

var saveCmd = &cobra.Command{
	Use:   "save <text>",
	Short: "Save a text snippet",
	Long: `Save a text snippet as a new item.

Pass "-" to read the text from stdin. Without --title the server derives
a title from the start of the text.

Examples:
  keepsake-cli save "milk, eggs, bread"
  keepsake-cli save --title "Shopping list" "milk, eggs, bread"
  cat notes.txt | keepsake-cli save -`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveTitle, "title", "", "title for the snippet")
}

func runSave(_ *cobra.Command, args []string) error {
	text, err := readTextArg(args[0])
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.SaveText(context.Background(), clientcli.SaveTextOptions{
		Text:  text,
		Title: saveTitle,
	})
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatText(os.Stdout, result)
}

// readTextArg returns the argument, or stdin's contents when it is "-".
func readTextArg(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
