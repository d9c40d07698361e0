package answer

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/tqlsh/internal/concept"
	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/querygraph"
)

// Graph is an answer graph: one edge list per result row, in row order.
// Edge order within a row follows the query graph.
type Graph struct {
	Rows [][]Edge
}

// Len returns the number of rows.
func (g *Graph) Len() int {
	return len(g.Rows)
}

// Build replays the query graph over rows.
func Build(qg *querygraph.Graph, rows []concept.Row) (*Graph, error) {
	return BuildSeq(qg, func(yield func(concept.Row, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	})
}

// BuildSeq replays the query graph over a lazily produced row sequence.
// The first error, from the sequence or from a row, stops the build.
func BuildSeq(qg *querygraph.Graph, rows iter.Seq2[concept.Row, error]) (*Graph, error) {
	b := &builder{qg: qg}
	g := &Graph{}
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		edges, err := b.row(len(g.Rows), row)
		if err != nil {
			return nil, err
		}
		g.Rows = append(g.Rows, edges)
	}
	slog.Debug("answer graph built", "rows", len(g.Rows), "template_edges", len(qg.Edges))
	return g, nil
}

type builder struct {
	qg *querygraph.Graph
}

func (b *builder) row(index int, row concept.Row) ([]Edge, error) {
	edges := make([]Edge, 0, len(b.qg.Edges))
	for _, te := range b.qg.Edges {
		var (
			e   Edge
			err error
		)
		switch te := te.(type) {
		case querygraph.HasEdge:
			e, err = b.hasEdge(index, row, te)
		case querygraph.LinksEdge:
			e, err = b.linksEdge(index, row, te)
		}
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func (b *builder) hasEdge(index int, row concept.Row, te querygraph.HasEdge) (Edge, error) {
	oc, err := b.lookup(index, row, te.Owner)
	if err != nil {
		return nil, err
	}
	owner, ok := thingVertex(oc)
	if !ok {
		return nil, mismatch(index, te.Owner, oc, "an entity or relation")
	}
	ac, err := b.lookup(index, row, te.Attribute)
	if err != nil {
		return nil, err
	}
	attr, ok := attributeVertex(ac)
	if !ok {
		return nil, mismatch(index, te.Attribute, ac, "an attribute")
	}
	return HasEdge{Owner: owner, Attribute: attr}, nil
}

func (b *builder) linksEdge(index int, row concept.Row, te querygraph.LinksEdge) (Edge, error) {
	rc, err := b.lookup(index, row, te.Relation)
	if err != nil {
		return nil, err
	}
	if rc.Kind() != concept.KindRelation {
		return nil, mismatch(index, te.Relation, rc, "a relation")
	}
	pc, err := b.lookup(index, row, te.Player)
	if err != nil {
		return nil, err
	}
	player, ok := thingVertex(pc)
	if !ok {
		return nil, mismatch(index, te.Player, pc, "an entity or relation")
	}
	role, err := b.role(index, row, te.Role)
	if err != nil {
		return nil, err
	}
	return LinksEdge{
		Relation: RelationVertex{IID: rc.IID(), Type: rc.TypeLabel()},
		Player:   player,
		Role:     role,
	}, nil
}

// role resolves a role reference to its label text. A role variable must
// be bound to a type.
func (b *builder) role(index int, row concept.Row, ref ir.RoleRef) (string, error) {
	switch ref := ref.(type) {
	case ir.Label:
		return ref.Name, nil
	case ir.Var:
		c, err := b.lookup(index, row, ref)
		if err != nil {
			return "", err
		}
		if c.Kind() != concept.KindType {
			return "", mismatch(index, ref, c, "a role type")
		}
		return c.TypeLabel(), nil
	}
	return "", ir.NewInconsistencyError("answer %d: unknown role reference %v", index, ref)
}

// lookup returns the concept row binds to v. Generated attribute variables
// that the row does not bind are materialised from their literal.
func (b *builder) lookup(index int, row concept.Row, v ir.Var) (concept.Concept, error) {
	if c, ok := row.Get(v.Bare()); ok {
		return c, nil
	}
	if alv, ok := b.qg.Attributes[v]; ok {
		return concept.NewAttribute(alv.Label.Name, literalValue(alv.Value)), nil
	}
	return nil, ir.NewParsingError("answer %d does not bind %s (columns: %s)",
		index, v, strings.Join(row.Columns(), ", "))
}

func literalValue(l ir.Literal) any {
	if l.Kind == ir.LiteralInteger {
		if n, err := strconv.ParseInt(l.Raw, 10, 64); err == nil {
			return n
		}
	}
	return l.Text()
}

func mismatch(index int, v ir.Var, c concept.Concept, want string) error {
	return ir.NewInconsistencyError("answer %d: %s is bound to %s %q, want %s",
		index, v, c.Kind(), c.TypeLabel(), want)
}
