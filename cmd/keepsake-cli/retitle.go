package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake/clientcli"
)

var retitleCmd = &cobra.Command{
	Use:   "retitle <id> <title>",
	Short: "Rename an item",
	Long: `Rename an existing item without touching its contents.

Examples:
  keepsake-cli retitle 1b4e28ba "Vacation plans"`,
	Args: cobra.ExactArgs(2),
	RunE: runRetitle,
}

func runRetitle(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.RetitleOptions{
		ID:    args[0],
		Title: args[1],
	}

	if err := client.Retitle(context.Background(), opts); err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatRetitle(os.Stdout, opts)
}
