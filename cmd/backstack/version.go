package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/backstack"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of backstack",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "backstack version %s\n", strings.TrimSpace(backstack.Version))
		},
	}
}
