package main

import (
	"fmt"
	"os"

	"github.com/aretw0/backstack/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes <file>",
		Short: "List the routes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			md := "# Routes\n\n" + tui.RoutesMarkdown(table.Definitions(), table.IndexRoute().Key)

			plain, _ := cmd.Flags().GetBool("plain")
			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); ok && !plain && tui.IsTerminal(f) {
				render, err := tui.NewRenderer()
				if err != nil {
					return err
				}
				rendered, err := render(md)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			}
			fmt.Fprint(out, md)
			return nil
		},
	}
	cmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
	return cmd
}
