package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/tqlsh/internal/answer"
	"github.com/roach88/tqlsh/internal/concept"
	"github.com/roach88/tqlsh/internal/parser"
	"github.com/roach88/tqlsh/internal/plot"
	"github.com/roach88/tqlsh/internal/querygraph"
	"github.com/roach88/tqlsh/internal/session"
)

// visualise builds the answer graph of query over rows and plots it.
func visualise(query string, rows []concept.Row) (*plot.Plot, error) {
	m, err := parser.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	g, err := answer.Build(querygraph.Build(m), rows)
	if err != nil {
		return nil, err
	}
	return answer.Visualise[*plot.Plot](g, plot.NewBuilder())
}

// writeAnswer prints an answer: "OK", a table of rows, or one JSON
// document per line.
func writeAnswer(w io.Writer, ans *session.Answer) error {
	switch ans.Kind {
	case session.AnswerRows:
		return writeRows(w, ans.Rows)
	case session.AnswerDocuments:
		enc := json.NewEncoder(w)
		for _, doc := range ans.Documents {
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d document(s)\n", len(ans.Documents))
		return nil
	}
	_, err := fmt.Fprintln(w, "OK")
	return err
}

// writeRows prints rows as an aligned table. Columns are the union of
// every row's columns, in first-seen order.
func writeRows(w io.Writer, rows []concept.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No answers.")
		return err
	}
	var columns []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = "$" + c
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	cells := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			cells[i] = "-"
			if v, ok := r.Get(c); ok {
				cells[i] = describe(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d answer(s)\n", len(rows))
	return err
}

func describe(c concept.Concept) string {
	switch c.Kind() {
	case concept.KindAttribute:
		return fmt.Sprintf("%s %s", c.TypeLabel(), concept.FormatValue(c.Value()))
	case concept.KindType:
		return c.TypeLabel()
	}
	return fmt.Sprintf("%s %s", c.TypeLabel(), c.IID())
}

// ConceptJSON is a concept in JSON output.
type ConceptJSON struct {
	Kind  concept.Kind `json:"kind"`
	Type  string       `json:"type"`
	IID   string       `json:"iid,omitempty"`
	Value any          `json:"value,omitempty"`
}

func rowsJSON(rows []concept.Row) []map[string]ConceptJSON {
	if len(rows) == 0 {
		return nil
	}
	out := make([]map[string]ConceptJSON, 0, len(rows))
	for _, r := range rows {
		m := make(map[string]ConceptJSON)
		for _, col := range r.Columns() {
			c, _ := r.Get(col)
			m[col] = ConceptJSON{Kind: c.Kind(), Type: c.TypeLabel(), IID: c.IID(), Value: c.Value()}
		}
		out = append(out, m)
	}
	return out
}
