package concept

import "slices"

// Row is one answer: concepts keyed by variable name without the sigil.
type Row interface {
	Get(name string) (Concept, bool)

	// Columns lists the bound variable names in column order.
	Columns() []string
}

// MapRow is a Row that keeps columns in insertion order.
type MapRow struct {
	cols     []string
	concepts map[string]Concept
}

// NewMapRow creates an empty row.
func NewMapRow() *MapRow {
	return &MapRow{concepts: make(map[string]Concept)}
}

// Set binds name to c, replacing any previous binding in place.
func (r *MapRow) Set(name string, c Concept) *MapRow {
	if _, ok := r.concepts[name]; !ok {
		r.cols = append(r.cols, name)
	}
	r.concepts[name] = c
	return r
}

func (r *MapRow) Get(name string) (Concept, bool) {
	c, ok := r.concepts[name]
	return c, ok
}

func (r *MapRow) Columns() []string {
	return slices.Clone(r.cols)
}

// Len returns the number of bound columns.
func (r *MapRow) Len() int {
	return len(r.cols)
}
