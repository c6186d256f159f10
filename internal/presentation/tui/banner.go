package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the weft banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                   __ _   ", "#5eead4"},
		{" __      _____ _ / _| |_ ", "#2dd4bf"},
		{" \\ \\ /\\ / / _ \\ | |_| __|", "#14b8a6"},
		{"  \\ V  V /  __/ |  _| |_ ", "#0d9488"},
		{"   \\_/\\_/ \\___|_|_|  \\__|", "#0f766e"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
