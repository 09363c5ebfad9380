package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/agent"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/appconfig"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the booking agent in the terminal",
	Long:  `Reads one message per line from stdin and prints the agent's reply. Type "exit" to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load()
		if err != nil {
			return err
		}
		// Logs go to stderr so they do not interleave with the conversation.
		logger := runtime.NewLoggerTo(os.Stderr, cfg.Service, runtime.ParseLevel(os.Getenv("LOG_LEVEL")))

		ctx, stop := runtime.SignalContext(cmd.Context())
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()
		if a.agent == nil {
			return errors.New("chat needs an LLM api key (OPENAI_API_KEY or ANTHROPIC_API_KEY)")
		}

		fmt.Fprintln(cmd.OutOrStdout(), `Appointment assistant ready. Type "exit" to quit.`)
		err = agent.Chat(ctx, a.agent.NewSession(), cmd.InOrStdin(), cmd.OutOrStdout())
		if errors.Is(err, ctx.Err()) {
			return nil
		}
		return err
	},
}
