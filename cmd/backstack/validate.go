package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a route table for consistency",
		Long:  `Validates the document against the route schema and builds the table, reporting missing index routes, duplicate keys and extra wildcards.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadTable(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Route table is valid: %d routes, index %q ✅\n", len(table.Keys()), table.IndexRoute().Key)
			return nil
		},
	}
}
