package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the labtour banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Green to teal, following the lab palette.
	lines := []struct {
		text  string
		color string
	}{
		{` _       _     _                   `, "#22c55e"},
		{`| | __ _| |__ | |_ ___  _   _ _ __ `, "#10b981"},
		{`| |/ _' | '_ \| __/ _ \| | | | '__|`, "#14b8a6"},
		{`| | (_| | |_) | || (_) | |_| | |   `, "#06b6d4"},
		{`|_|\__,_|_.__/ \__\___/ \__,_|_|   `, "#0ea5e9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  virtual lab walkthrough "+version).Faint())
	fmt.Fprintln(w)
}
