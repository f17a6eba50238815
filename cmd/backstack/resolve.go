package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/backstack/internal/presentation/tui"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <file> <key>",
		Short: "Resolve a key to its screen and merged params",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pairs, _ := cmd.Flags().GetStringArray("params")
			params, err := parseParams(pairs)
			if err != nil {
				return err
			}

			scene, err := table.Scene(domain.Route(args[1], params))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:      %s\n", args[1])
			fmt.Fprintf(out, "screen:   %v\n", scene.Definition.Render)
			if scene.Definition.IsWildcard() {
				fmt.Fprintf(out, "fallback: %s\n", domain.WildcardKey)
			}
			fmt.Fprintf(out, "params:   %s\n", tui.FormatParams(scene.Params))
			fmt.Fprintf(out, "back:     %s\n", armedLabel(scene.Back.Armed))
			return nil
		},
	}
	cmd.Flags().StringArray("params", nil, "Instance param as key=value (repeatable)")
	return cmd
}

func armedLabel(armed bool) string {
	if armed {
		return "armed"
	}
	return "disarmed"
}

// parseParams turns key=value pairs into params. Values that read as
// booleans or numbers are typed so "back=false" disarms the screen.
func parseParams(pairs []string) (domain.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(domain.Params, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		params[k] = parseValue(v)
	}
	return params, nil
}

func parseValue(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
