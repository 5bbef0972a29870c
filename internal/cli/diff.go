package cli

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	hunkColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.Bold)
)

// printDiff writes a unified diff, coloring lines by their prefix.
func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		c := lineColor(line)
		if c == nil {
			io.WriteString(w, line)
			continue
		}
		c.Fprint(w, line)
	}
}

func lineColor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return headerColor
	case strings.HasPrefix(line, "@@"):
		return hunkColor
	case strings.HasPrefix(line, "+"):
		return addedColor
	case strings.HasPrefix(line, "-"):
		return removedColor
	}
	return nil
}
