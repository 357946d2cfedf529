package repair

import (
	"io"
	"strings"
)

// Diagnostic is the postmortem record of a failed normalization.
type Diagnostic struct {
	// Original is the response text exactly as received.
	Original string
	// Stripped is Original after fence stripping.
	Stripped string
	// Extracted is the bracket span, valid only when HasExtracted is set.
	Extracted    string
	HasExtracted bool
	// Repaired is the text the last parse attempt ran on.
	Repaired string
}

// String renders the labelled blocks written to debug files.
func (d *Diagnostic) String() string {
	var b strings.Builder
	b.WriteString("=== Original response ===\n")
	b.WriteString(d.Original)
	if d.HasExtracted {
		b.WriteString("\n\n=== Extracted JSON ===\n")
		b.WriteString(d.Extracted)
		b.WriteString("\n\n=== Repaired JSON ===\n")
	} else {
		b.WriteString("\n\n=== Repaired text ===\n")
	}
	b.WriteString(d.Repaired)
	b.WriteString("\n")
	return b.String()
}

// WriteTo implements io.WriterTo.
func (d *Diagnostic) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}
