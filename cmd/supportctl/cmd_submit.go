package main

import (
	"github.com/spf13/cobra"

	"github.com/inkeep/intelligent-support-form/internal/app"
	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/events"
	"github.com/inkeep/intelligent-support-form/internal/service"
)

func newSubmitCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create a helpdesk ticket from a ticket JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := app.NewLogger(cfg.LogLevel)

			tickets := service.NewTicketService(cfg.Zendesk, service.NewZendeskClient(cfg.Zendesk, log), nil, events.Discard(), log)
			record, err := tickets.CreateFromJSON(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Ticket JSON file (default stdin)")
	return cmd
}
