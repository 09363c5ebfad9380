package main

import (
	"fmt"
	"os"

	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "booking-agent",
	Short: "Appointment booking agent",
	Long: `booking-agent books, finds, updates and cancels appointments through a
tool-calling chat model. It serves an HTTP API, runs an interactive chat in the
terminal, and bootstraps its database table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return runtime.LoadDotEnv()
		}
		return runtime.LoadDotEnv(envFile)
	},
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.AddCommand(serveCmd, chatCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
