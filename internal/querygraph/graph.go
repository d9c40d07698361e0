// Package querygraph reduces a parsed match clause to the template edges
// that an answer graph is built from.
package querygraph

import (
	"fmt"

	"github.com/roach88/tqlsh/internal/ir"
)

// Edge is one template edge.
//
// This is a sealed interface - only types in this package implement it.
type Edge interface {
	edge() // Marker method - seals interface to this package
	String() string
}

// HasEdge connects an owner variable to an attribute variable.
type HasEdge struct {
	Owner     ir.Var
	Attribute ir.Var
}

func (HasEdge) edge() {}

func (e HasEdge) String() string {
	return fmt.Sprintf("HasEdge(%s, %s)", e.Owner, e.Attribute)
}

// LinksEdge connects a relation variable to a player variable through a role.
type LinksEdge struct {
	Relation ir.Var
	Player   ir.Var
	Role     ir.RoleRef
}

func (LinksEdge) edge() {}

func (e LinksEdge) String() string {
	return fmt.Sprintf("LinksEdge(%s, %s, %s)", e.Relation, e.Player, e.Role)
}

// Graph is the template for answer graphs: the has and links edges of a
// match clause in source order.
type Graph struct {
	Edges []Edge

	// Attributes holds the literal definition of each generated attribute
	// variable. Rows never bind those variables, so the answer builder
	// materialises them from here.
	Attributes map[ir.Var]*ir.AttributeLabelValue
}

// Build derives the query graph from m. Constraints other than Has and
// Links contribute no edges.
func Build(m *ir.Match) *Graph {
	g := &Graph{Attributes: make(map[ir.Var]*ir.AttributeLabelValue)}
	for _, c := range m.Constraints {
		switch c := c.(type) {
		case *ir.Has:
			g.Edges = append(g.Edges, HasEdge{Owner: c.LHS, Attribute: c.RHS})
		case *ir.Links:
			g.Edges = append(g.Edges, LinksEdge{Relation: c.LHS, Player: c.RHS, Role: c.Role})
		case *ir.AttributeLabelValue:
			g.Attributes[c.LHS] = c
		}
	}
	return g
}

// Vars returns the variables the edges mention, first occurrence first.
// Role variables are included.
func (g *Graph) Vars() []ir.Var {
	seen := make(map[ir.Var]bool)
	var out []ir.Var
	add := func(v ir.Var) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, e := range g.Edges {
		switch e := e.(type) {
		case HasEdge:
			add(e.Owner)
			add(e.Attribute)
		case LinksEdge:
			add(e.Relation)
			add(e.Player)
			if v, ok := e.Role.(ir.Var); ok {
				add(v)
			}
		}
	}
	return out
}
