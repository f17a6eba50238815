package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// RoutesMarkdown builds a markdown table of route definitions.
// The index route is marked and the wildcard is listed last.
func RoutesMarkdown(defs []domain.RouteDefinition, indexKey string) string {
	var b strings.Builder
	b.WriteString("| Key | Screen | Default params |\n")
	b.WriteString("|---|---|---|\n")
	for _, def := range defs {
		key := "`" + def.Key + "`"
		switch {
		case def.IsWildcard():
			key += " (fallback)"
		case def.Key == indexKey:
			key += " (index)"
		}
		fmt.Fprintf(&b, "| %s | %v | %s |\n", key, def.Render, FormatParams(def.DefaultParams))
	}
	return b.String()
}

// FormatParams prints params as sorted k=v pairs, or "-" when empty.
func FormatParams(p domain.Params) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return strings.Join(pairs, " ")
}
