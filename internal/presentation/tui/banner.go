package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the backstack ASCII banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _                _        _             _    ", "#38bdf8"},
		{"| |__   __ _  ___| | _____| |_ __ _  ___| | __", "#60a5fa"},
		{"| '_ \\ / _` |/ __| |/ / __| __/ _` |/ __| |/ /", "#818cf8"},
		{"| |_) | (_| | (__|   <\\__ \\ || (_| | (__|   < ", "#a78bfa"},
		{"|_.__/ \\__,_|\\___|_|\\_\\___/\\__\\__,_|\\___|_|\\_\\", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
