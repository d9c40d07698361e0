package answer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tqlsh/internal/concept"
	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/parser"
	"github.com/roach88/tqlsh/internal/querygraph"
)

const (
	iidE1 = "0x826e80018000000000000001"
	iidE2 = "0x826e80018000000000000002"
	iidR1 = "0x847080018000000000000001"
)

func queryGraph(t *testing.T, query string) *querygraph.Graph {
	t.Helper()
	m, err := parser.Parse(query)
	require.NoError(t, err)
	return querygraph.Build(m)
}

func TestBuild_SharedOwnerAcrossRows(t *testing.T) {
	qg := queryGraph(t, "match $owner isa cow, has name $attr;")
	e1 := concept.NewEntity("cow", iidE1)
	rows := []concept.Row{
		concept.NewMapRow().Set("owner", e1).Set("attr", concept.NewAttribute("name", "A1")),
		concept.NewMapRow().Set("owner", e1).Set("attr", concept.NewAttribute("name", "A2")),
	}

	g, err := Build(qg, rows)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	require.Len(t, g.Rows[0], 1)
	require.Len(t, g.Rows[1], 1)

	h0 := g.Rows[0][0].(HasEdge)
	h1 := g.Rows[1][0].(HasEdge)
	assert.Equal(t, h0.Owner, h1.Owner)
	assert.True(t, h0.Owner == h1.Owner)
	assert.NotEqual(t, h0.Attribute, h1.Attribute)
	assert.Equal(t, "cow:00000001", h0.Owner.Label())
	assert.Equal(t, "name:A1", h0.Attribute.Label())
}

func TestBuild_AttributeIdentityIsTypeAndValue(t *testing.T) {
	qg := queryGraph(t, "match $x has $a;")
	rows := []concept.Row{
		concept.NewMapRow().Set("x", concept.NewEntity("cow", iidE1)).Set("a", concept.NewAttribute("age", int64(3))),
		concept.NewMapRow().Set("x", concept.NewEntity("cow", iidE2)).Set("a", concept.NewAttribute("age", int64(3))),
		concept.NewMapRow().Set("x", concept.NewEntity("cow", iidE2)).Set("a", concept.NewAttribute("weight", int64(3))),
	}
	g, err := Build(qg, rows)
	require.NoError(t, err)

	a0 := g.Rows[0][0].(HasEdge).Attribute
	a1 := g.Rows[1][0].(HasEdge).Attribute
	a2 := g.Rows[2][0].(HasEdge).Attribute
	assert.Equal(t, a0, a1)
	assert.NotEqual(t, a0.Key(), a2.Key())
}

func TestBuild_SynthesisesLiteralAttribute(t *testing.T) {
	qg := queryGraph(t, `match $x isa cow, has name "Spider Georg", has age 3;`)
	rows := []concept.Row{
		concept.NewMapRow().Set("x", concept.NewEntity("cow", iidE1)),
	}
	g, err := Build(qg, rows)
	require.NoError(t, err)
	require.Len(t, g.Rows[0], 2)

	assert.Equal(t, AttributeVertex{Type: "name", Value: "Spider Georg"}, g.Rows[0][0].(HasEdge).Attribute)
	assert.Equal(t, AttributeVertex{Type: "age", Value: "3"}, g.Rows[0][1].(HasEdge).Attribute)
}

func TestBuild_Links(t *testing.T) {
	qg := queryGraph(t, "match $m isa marriage, links (husband: $h, $r: $w);")
	row := concept.NewMapRow().
		Set("m", concept.NewRelation("marriage", iidR1)).
		Set("h", concept.NewEntity("person", iidE1)).
		Set("w", concept.NewEntity("person", iidE2)).
		Set("r", concept.NewType("wife"))

	g, err := Build(qg, []concept.Row{row})
	require.NoError(t, err)
	require.Len(t, g.Rows[0], 2)

	husband := g.Rows[0][0].(LinksEdge)
	wife := g.Rows[0][1].(LinksEdge)
	assert.Equal(t, RelationVertex{IID: iidR1, Type: "marriage"}, husband.Relation)
	assert.Equal(t, EntityVertex{IID: iidE1, Type: "person"}, husband.Player)
	assert.Equal(t, "husband", husband.Role)
	assert.Equal(t, "wife", wife.Label())

	from, to := wife.Endpoints()
	assert.Equal(t, husband.Relation, from)
	assert.Equal(t, EntityVertex{IID: iidE2, Type: "person"}, to)
}

func TestBuild_RelationPlayingRole(t *testing.T) {
	qg := queryGraph(t, "match $m links (wedding: $n);")
	row := concept.NewMapRow().
		Set("m", concept.NewRelation("celebration", iidR1)).
		Set("n", concept.NewRelation("marriage", iidE2))
	g, err := Build(qg, []concept.Row{row})
	require.NoError(t, err)
	assert.Equal(t, RelationVertex{IID: iidE2, Type: "marriage"}, g.Rows[0][0].(LinksEdge).Player)
}

func TestBuild_Inconsistent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		row   *concept.MapRow
	}{
		{
			name:  "attribute as owner",
			query: "match $x has $a;",
			row: concept.NewMapRow().
				Set("x", concept.NewAttribute("name", "a")).
				Set("a", concept.NewAttribute("name", "b")),
		},
		{
			name:  "entity as attribute",
			query: "match $x has $a;",
			row: concept.NewMapRow().
				Set("x", concept.NewEntity("cow", iidE1)).
				Set("a", concept.NewEntity("cow", iidE2)),
		},
		{
			name:  "entity as relation",
			query: "match $m links (husband: $h);",
			row: concept.NewMapRow().
				Set("m", concept.NewEntity("person", iidE1)).
				Set("h", concept.NewEntity("person", iidE2)),
		},
		{
			name:  "type as player",
			query: "match $m links (husband: $h);",
			row: concept.NewMapRow().
				Set("m", concept.NewRelation("marriage", iidR1)).
				Set("h", concept.NewType("person")),
		},
		{
			name:  "entity as role",
			query: "match $m links ($r: $h);",
			row: concept.NewMapRow().
				Set("m", concept.NewRelation("marriage", iidR1)).
				Set("h", concept.NewEntity("person", iidE1)).
				Set("r", concept.NewEntity("person", iidE2)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(queryGraph(t, tt.query), []concept.Row{tt.row})
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, ir.IsInconsistencyError(err), "got %v", err)
		})
	}
}

func TestBuild_UnboundVariable(t *testing.T) {
	qg := queryGraph(t, "match $x has name $n;")
	rows := []concept.Row{
		concept.NewMapRow().Set("x", concept.NewEntity("cow", iidE1)).Set("n", concept.NewAttribute("name", "a")),
		concept.NewMapRow().Set("x", concept.NewEntity("cow", iidE1)),
	}
	_, err := Build(qg, rows)
	require.Error(t, err)
	assert.True(t, ir.IsQueryParsingError(err))
	assert.Contains(t, err.Error(), "answer 1 does not bind $n")
}

func TestBuild_NoRows(t *testing.T) {
	g, err := Build(queryGraph(t, "match $x has $a;"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestBuildSeq_StopsOnError(t *testing.T) {
	qg := queryGraph(t, "match $x has $a;")
	boom := errors.New("stream reset")
	pulled := 0
	seq := func(yield func(concept.Row, error) bool) {
		for i := range 5 {
			pulled++
			if i == 2 {
				yield(nil, boom)
				return
			}
			row := concept.NewMapRow().
				Set("x", concept.NewEntity("cow", iidE1)).
				Set("a", concept.NewAttribute("age", int64(i)))
			if !yield(row, nil) {
				return
			}
		}
	}
	_, err := BuildSeq(qg, seq)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, pulled)
}

func TestBuildSeq_MatchesBuild(t *testing.T) {
	qg := queryGraph(t, "match $x has $a;")
	var rows []concept.Row
	for i := range 4 {
		rows = append(rows, concept.NewMapRow().
			Set("x", concept.NewEntity("cow", fmt.Sprintf("0x%d", i%2))).
			Set("a", concept.NewAttribute("age", int64(i))))
	}
	want, err := Build(qg, rows)
	require.NoError(t, err)

	got, err := BuildSeq(qg, func(yield func(concept.Row, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
