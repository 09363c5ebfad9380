package main

import (
	"fmt"

	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/appconfig"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the appointments table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load()
		if err != nil {
			return err
		}
		logger := runtime.NewLogger(cfg.Service)
		_, closeStore, err := openStore(cmd.Context(), cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		closeStore()
		fmt.Fprintln(cmd.OutOrStdout(), "appointments table is ready")
		return nil
	},
}
