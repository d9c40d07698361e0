package plot

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/tqlsh/internal/answer"
)

// Format selects a plot rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// ParseFormat returns the format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown graph format %q (want dot or json)", s)
}

// Render writes p to w in format f.
func (p *Plot) Render(w io.Writer, f Format) error {
	switch f {
	case FormatDOT:
		return p.WriteDOT(w)
	case FormatJSON:
		return p.WriteJSON(w)
	}
	return fmt.Errorf("unknown graph format %q", f)
}

// WriteJSON writes p as indented JSON.
func (p *Plot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

var dotShapes = map[answer.Shape]string{
	answer.ShapeCircle:  "ellipse",
	answer.ShapeDiamond: "diamond",
	answer.ShapeSquare:  "box",
}

// WriteDOT writes p as a Graphviz digraph.
func (p *Plot) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph answers {\n")
	b.WriteString("  node [style=filled];\n")
	for _, n := range p.Nodes {
		fmt.Fprintf(&b, "  %s [label=%s, shape=%s, fillcolor=%s];\n",
			n.ID, dotQuote(n.Label), dotShapes[n.Shape], n.Colour)
	}
	for _, e := range p.Edges {
		fmt.Fprintf(&b, "  %s -> %s [label=%s];\n", e.From, e.To, dotQuote(e.Label))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
