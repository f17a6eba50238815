package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/backstack"
	"github.com/aretw0/backstack/internal/presentation/tui"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/spf13/cobra"
)

// backType is the script-only envelope type for a platform back press.
const backType domain.ActionType = "platform/back"

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <config> <script.jsonl>",
		Short: "Apply a script of actions and print each state",
		Long: `Reads one action envelope per line ({"type": "router/push", "payload": {...}})
and applies it to a fresh stack started on the index route.
{"type": "platform/back"} simulates the hardware back button.
Blank lines and lines starting with # are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFrom(cmd)
			if err != nil {
				return err
			}
			_, table, err := loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			script, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer script.Close()

			strict, _ := cmd.Flags().GetBool("strict")
			return runReplay(cmd.Context(), table, script, cmd.OutOrStdout(), logger, strict)
		},
	}
	cmd.Flags().Bool("strict", false, "Stop at the first failing action")
	return cmd
}

func runReplay(ctx context.Context, table *routes.Table, script io.Reader, w io.Writer, logger *slog.Logger, strict bool) error {
	nav, err := backstack.NewFromTable(table, backstack.WithLogger(logger), backstack.WithName("replay"))
	if err != nil {
		return err
	}
	printer := tui.NewStackPrinter(w)

	state, err := nav.Start(ctx)
	if err != nil {
		return err
	}
	printer.Step(0, "start", state, false, nil)

	scanner := bufio.NewScanner(script)
	line, step, failures := 0, 0, 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		step++

		var env domain.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		before := nav.State()
		if env.Type == backType {
			nav.Back(ctx)
			after := nav.State()
			printer.Step(step, backType, after, after == before, nil)
			continue
		}

		action, err := env.Action()
		if err == nil {
			err = nav.Dispatch(ctx, action)
		}
		after := nav.State()
		printer.Step(step, env.Type, after, after == before, err)
		if err != nil {
			failures++
			if strict {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d actions failed", failures, step)
	}
	return nil
}
