package output

import (
	"fmt"

	"github.com/fatih/color"
)

// FormatError prints err with an optional suggestion. It is how command
// failures reach the user, once, at the top level.
func (p *Printer) FormatError(err error, suggestion string) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.out, "✗ %v\n", err)
		if suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.out, "  Suggestion: %s\n", suggestion)
		}
		return
	}
	fmt.Fprintf(p.out, "[ERROR] %v\n", err)
	if suggestion != "" {
		fmt.Fprintf(p.out, "  Suggestion: %s\n", suggestion)
	}
}
