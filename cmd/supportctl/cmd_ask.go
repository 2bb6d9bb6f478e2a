package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkeep/intelligent-support-form/internal/app"
	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/model"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Run one arbitration and print the outcome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := app.NewLogger(cfg.LogLevel)

			arb := app.NewArbitrator(cfg, log)
			conv := &model.ConversationState{}
			outcome := arb.Arbitrate(context.Background(), strings.Join(args, " "), conv)
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"outcome":      outcome,
				"conversation": conv,
			})
		},
	}
}
