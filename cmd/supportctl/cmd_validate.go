package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/inkeep/intelligent-support-form/internal/schema"
)

var errInvalidTicket = errors.New("ticket is invalid")

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a ticket JSON against the form schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			ticket, errs := schema.ParseTicket(raw)
			if !errs.Empty() {
				if err := printJSON(cmd.OutOrStdout(), map[string]any{"errors": errs}); err != nil {
					return err
				}
				return errInvalidTicket
			}
			return printJSON(cmd.OutOrStdout(), ticket)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Ticket JSON file (default stdin)")
	return cmd
}
