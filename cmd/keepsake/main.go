package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "keepsake",
	Short:   "Personal file and text vault server",
	Long: `Keepsake is a personal save vault: authenticated users upload files
or text snippets, payloads land in object storage, and metadata records
land in a document or relational database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		var files []string
		if configFile != "" {
			files = []string{configFile}
		}

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		setupLogging(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: mongo, postgres, sqlite (env: KEEPSAKE_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (env: KEEPSAKE_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("db-name", "", "database name for the mongo backend (env: KEEPSAKE_DATABASE_NAME)")
	rootCmd.PersistentFlags().String("storage-type", "", "storage backend: s3, fs (env: KEEPSAKE_STORAGE_TYPE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
