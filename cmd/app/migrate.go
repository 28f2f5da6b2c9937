package main

import (
	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/migrations"

	"github.com/spf13/cobra"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(c *cobra.Command, _ []string) error {
		db, err := cmd.OpenDatabase(config, logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if migrateDown {
			return migrations.Down(sqlDB, logger)
		}
		return migrations.Up(sqlDB, logger)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "revert the last applied migration")
}
