// Package plot turns answer graphs into renderable plots.
//
// Builder is an answer.Visualiser that deduplicates vertices and edges
// across rows, keeping first-insertion order, and produces a Plot that
// renders as Graphviz DOT or JSON.
package plot

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tqlsh/internal/answer"
)

// Node is a plotted vertex.
type Node struct {
	ID     string        `json:"id"`
	Kind   string        `json:"kind"`
	Label  string        `json:"label"`
	Shape  answer.Shape  `json:"shape"`
	Colour answer.Colour `json:"colour"`
}

// Edge is a plotted edge. Answers lists the rows that produced it.
type Edge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Label   string `json:"label"`
	Answers []int  `json:"answers"`
}

// Plot is a deduplicated answer graph ready for rendering.
type Plot struct {
	Answers int    `json:"answers"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

type edgeKey struct {
	from, to answer.VertexKey
	label    string
}

// Builder collects an answer graph into a Plot.
type Builder struct {
	answers int
	nodes   []Node
	ids     map[answer.VertexKey]string
	edges   []Edge
	edgeIdx map[edgeKey]int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		ids:     make(map[answer.VertexKey]string),
		edgeIdx: make(map[edgeKey]int),
	}
}

var _ answer.Visualiser[*Plot] = (*Builder)(nil)

func (b *Builder) NotifyStartNextAnswer(row int) {
	b.answers = max(b.answers, row+1)
}

func (b *Builder) AddEntityVertex(_ int, v answer.EntityVertex)       { b.addVertex(v) }
func (b *Builder) AddRelationVertex(_ int, v answer.RelationVertex)   { b.addVertex(v) }
func (b *Builder) AddAttributeVertex(_ int, v answer.AttributeVertex) { b.addVertex(v) }

func (b *Builder) AddHasEdge(row int, e answer.HasEdge)     { b.addEdge(row, e) }
func (b *Builder) AddLinksEdge(row int, e answer.LinksEdge) { b.addEdge(row, e) }

// Plot returns the collected plot. The Builder may keep collecting
// afterwards; the returned Plot does not change.
func (b *Builder) Plot() (*Plot, error) {
	p := &Plot{
		Answers: b.answers,
		Nodes:   append([]Node(nil), b.nodes...),
		Edges:   make([]Edge, len(b.edges)),
	}
	for i, e := range b.edges {
		e.Answers = append([]int(nil), e.Answers...)
		p.Edges[i] = e
	}
	return p, nil
}

func (b *Builder) addVertex(v answer.Vertex) string {
	key := v.Key()
	if id, ok := b.ids[key]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", len(b.nodes))
	b.ids[key] = id
	b.nodes = append(b.nodes, Node{
		ID:     id,
		Kind:   string(key.Kind),
		Label:  norm.NFC.String(v.Label()),
		Shape:  v.Shape(),
		Colour: v.Colour(),
	})
	return id
}

func (b *Builder) addEdge(row int, e answer.Edge) {
	from, to := e.Endpoints()
	key := edgeKey{from: from.Key(), to: to.Key(), label: e.Label()}
	if i, ok := b.edgeIdx[key]; ok {
		if ans := b.edges[i].Answers; ans[len(ans)-1] != row {
			b.edges[i].Answers = append(ans, row)
		}
		return
	}
	b.edgeIdx[key] = len(b.edges)
	b.edges = append(b.edges, Edge{
		From:    b.addVertex(from),
		To:      b.addVertex(to),
		Label:   norm.NFC.String(e.Label()),
		Answers: []int{row},
	})
}
