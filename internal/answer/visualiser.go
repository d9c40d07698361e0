package answer

// Visualiser consumes an answer graph and produces a plot of type H.
//
// Visualise calls, for each row, NotifyStartNextAnswer, then for each edge
// the vertex method of each endpoint followed by the edge method. A vertex
// is added again every time an edge touches it, so implementations must
// treat repeated vertex adds as no-ops. Plot is called exactly once, last.
type Visualiser[H any] interface {
	NotifyStartNextAnswer(row int)
	AddEntityVertex(row int, v EntityVertex)
	AddRelationVertex(row int, v RelationVertex)
	AddAttributeVertex(row int, v AttributeVertex)
	AddHasEdge(row int, e HasEdge)
	AddLinksEdge(row int, e LinksEdge)
	Plot() (H, error)
}

// Visualise walks g into v and returns v's plot.
func Visualise[H any](g *Graph, v Visualiser[H]) (H, error) {
	for i, edges := range g.Rows {
		v.NotifyStartNextAnswer(i)
		for _, e := range edges {
			from, to := e.Endpoints()
			addVertex(v, i, from)
			addVertex(v, i, to)
			switch e := e.(type) {
			case HasEdge:
				v.AddHasEdge(i, e)
			case LinksEdge:
				v.AddLinksEdge(i, e)
			}
		}
	}
	return v.Plot()
}

func addVertex[H any](v Visualiser[H], row int, vx Vertex) {
	switch vx := vx.(type) {
	case EntityVertex:
		v.AddEntityVertex(row, vx)
	case RelationVertex:
		v.AddRelationVertex(row, vx)
	case AttributeVertex:
		v.AddAttributeVertex(row, vx)
	}
}
