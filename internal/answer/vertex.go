package answer

import (
	"strings"

	"github.com/roach88/tqlsh/internal/concept"
)

// Shape is a vertex's display shape, in matplotlib marker notation.
type Shape string

const (
	ShapeCircle  Shape = "o"
	ShapeDiamond Shape = "d"
	ShapeSquare  Shape = "s"
)

// Colour is a vertex's display colour.
type Colour string

const (
	ColourBlue   Colour = "blue"
	ColourGreen  Colour = "green"
	ColourOrange Colour = "orange"
)

// iidSuffixLen is how many trailing iid characters a vertex label shows.
const iidSuffixLen = 8

// VertexKey identifies a vertex across rows.
type VertexKey struct {
	Kind concept.Kind
	ID   string
}

func (k VertexKey) String() string {
	return string(k.Kind) + "/" + k.ID
}

// Vertex is one concrete concept in an answer graph.
//
// This is a sealed interface - only types in this package implement it.
type Vertex interface {
	vertex() // Marker method - seals interface to this package

	Key() VertexKey
	Shape() Shape
	Colour() Colour
	Label() string
}

// EntityVertex wraps an entity.
type EntityVertex struct {
	IID  string
	Type string
}

func (EntityVertex) vertex() {}

func (v EntityVertex) Key() VertexKey { return VertexKey{Kind: concept.KindEntity, ID: v.IID} }
func (EntityVertex) Shape() Shape     { return ShapeCircle }
func (EntityVertex) Colour() Colour   { return ColourBlue }
func (v EntityVertex) Label() string  { return v.Type + ":" + shortIID(v.IID) }

// RelationVertex wraps a relation.
type RelationVertex struct {
	IID  string
	Type string
}

func (RelationVertex) vertex() {}

func (v RelationVertex) Key() VertexKey { return VertexKey{Kind: concept.KindRelation, ID: v.IID} }
func (RelationVertex) Shape() Shape     { return ShapeDiamond }
func (RelationVertex) Colour() Colour   { return ColourGreen }
func (v RelationVertex) Label() string  { return v.Type + ":" + shortIID(v.IID) }

// AttributeVertex wraps an attribute. Value is the formatted attribute
// value; attributes of one type with equal values are the same vertex.
type AttributeVertex struct {
	Type  string
	Value string
}

func (AttributeVertex) vertex() {}

func (v AttributeVertex) Key() VertexKey {
	return VertexKey{Kind: concept.KindAttribute, ID: v.Type + ":" + v.Value}
}
func (AttributeVertex) Shape() Shape    { return ShapeSquare }
func (AttributeVertex) Colour() Colour  { return ColourOrange }
func (v AttributeVertex) Label() string { return v.Type + ":" + v.Value }

func shortIID(iid string) string {
	iid = strings.TrimPrefix(iid, "0x")
	if len(iid) > iidSuffixLen {
		return iid[len(iid)-iidSuffixLen:]
	}
	return iid
}

// thingVertex wraps an entity or relation.
func thingVertex(c concept.Concept) (Vertex, bool) {
	switch c.Kind() {
	case concept.KindEntity:
		return EntityVertex{IID: c.IID(), Type: c.TypeLabel()}, true
	case concept.KindRelation:
		return RelationVertex{IID: c.IID(), Type: c.TypeLabel()}, true
	}
	return nil, false
}

func attributeVertex(c concept.Concept) (AttributeVertex, bool) {
	if c.Kind() != concept.KindAttribute {
		return AttributeVertex{}, false
	}
	return AttributeVertex{Type: c.TypeLabel(), Value: concept.FormatValue(c.Value())}, true
}
