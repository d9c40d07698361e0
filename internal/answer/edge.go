package answer

import "fmt"

// HasLabel is the display label of every has edge.
const HasLabel = "has"

// Edge is one concrete edge in an answer graph.
//
// This is a sealed interface - only types in this package implement it.
type Edge interface {
	edge() // Marker method - seals interface to this package

	// Endpoints returns the edge's source and target.
	Endpoints() (from, to Vertex)
	Label() string
	String() string
}

// HasEdge connects an owner to one of its attributes.
type HasEdge struct {
	Owner     Vertex
	Attribute AttributeVertex
}

func (HasEdge) edge() {}

func (e HasEdge) Endpoints() (Vertex, Vertex) { return e.Owner, e.Attribute }
func (HasEdge) Label() string                 { return HasLabel }

func (e HasEdge) String() string {
	return fmt.Sprintf("%s--[%s]-->%s", e.Owner.Label(), HasLabel, e.Attribute.Label())
}

// LinksEdge connects a relation to a role player. Role is the role's label.
type LinksEdge struct {
	Relation RelationVertex
	Player   Vertex
	Role     string
}

func (LinksEdge) edge() {}

func (e LinksEdge) Endpoints() (Vertex, Vertex) { return e.Relation, e.Player }
func (e LinksEdge) Label() string               { return e.Role }

func (e LinksEdge) String() string {
	return fmt.Sprintf("%s--[%s]-->%s", e.Relation.Label(), e.Role, e.Player.Label())
}
