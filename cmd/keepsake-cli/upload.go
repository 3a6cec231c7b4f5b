package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake/clientcli"
)

var uploadContentType string

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a file to the server",
	Long: `Upload a local file as a new item.

The content type is detected from the file extension unless overridden.

Examples:
  keepsake-cli upload ./photo.jpg
  keepsake-cli upload --content-type application/json ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "override content-type")
}

func runUpload(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Upload(context.Background(), clientcli.UploadOptions{
		LocalPath:   args[0],
		ContentType: uploadContentType,
	})
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatUpload(os.Stdout, result)
}
