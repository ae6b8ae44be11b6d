package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"Chococu/internal/config"
	"Chococu/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres schema and load the default fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store.Driver != config.DriverPostgres {
			return errors.New("migrate requires store.driver=postgres")
		}

		conn, err := db.Connect(cmd.Context(), cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if _, err := preparePostgres(cmd.Context(), conn, cfg.Store.Seed); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}
