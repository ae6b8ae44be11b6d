package cli

import (
	"github.com/spf13/cobra"

	"Chococu/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "cafe",
	Short:         "Chococu café storefront API",
	Long:          "Serves the Chococu product catalog, café information and contact form.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
