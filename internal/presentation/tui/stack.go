package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/muesli/termenv"
)

// StackPrinter writes one line per replayed action.
type StackPrinter struct {
	out *termenv.Output
	w   io.Writer
}

// NewStackPrinter writes to w. Colors follow the terminal profile of w,
// so redirected output stays plain.
func NewStackPrinter(w io.Writer) *StackPrinter {
	return &StackPrinter{out: termenv.NewOutput(w), w: w}
}

// Step prints the result of one action. A nil err with same==true is a no-op.
func (p *StackPrinter) Step(n int, action domain.ActionType, state *domain.NavigationState, same bool, err error) {
	head := fmt.Sprintf("%3d %-22s", n, action)
	switch {
	case err != nil:
		fmt.Fprintf(p.w, "%s %s\n", head, p.out.String("error: "+err.Error()).Foreground(p.out.Color("#f87171")))
	case same:
		fmt.Fprintf(p.w, "%s %s %s\n", head, p.out.String("noop").Faint(), Stack(state))
	default:
		fmt.Fprintf(p.w, "%s %s %s\n", head, p.out.String("ok  ").Foreground(p.out.Color("#4ade80")), Stack(state))
	}
}

// Stack renders a state as "[home > *profile]" with the visible entry starred.
func Stack(state *domain.NavigationState) string {
	idx := state.CurrentIndex()
	parts := make([]string, state.Len())
	for i, r := range state.Routes {
		label := r.Key
		if len(r.Params) > 0 {
			label += "(" + FormatParams(r.Params) + ")"
		}
		if i == idx {
			label = "*" + label
		}
		parts[i] = label
	}
	return "[" + strings.Join(parts, " > ") + "]"
}
