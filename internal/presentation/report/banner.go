package report

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the lienzo banner followed by the version line.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{" _ _", "#818cf8"},
		{"| (_) ___ _ __  _______", "#a78bfa"},
		{"| | |/ _ \\ '_ \\|_  / _ \\", "#c084fc"},
		{"| | |  __/ | | |/ / (_) |", "#e879f9"},
		{"|_|_|\\___|_| |_/___\\___/", "#f472b6"},
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, "\n  %s\n\n", version)
}
