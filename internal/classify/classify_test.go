package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tqlsh/internal/ir"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  QueryType
	}{
		{"plain match", "match $x isa person;", Match},
		{"match get", "match $x isa person; get $x;", Match},
		{"aggregate", "match $x isa person; count;", MatchAggregate},
		{"group", "match $x isa person, has age $a; group $a;", MatchGroup},
		{"group aggregate", "match $x isa person, has age $a; group $a; count;", MatchGroupAggregate},
		{"define", "define person sub entity;", Define},
		{"undefine", "undefine person sub entity;", Undefine},
		{"insert", "insert $x isa person;", Insert},
		{"match insert", "match $x isa person; insert $x has age 5;", Insert},
		{"delete", "match $x isa person; delete $x isa person;", Delete},
		{"update", "match $x isa person; insert $x has age 5; delete $x has age 5;", Update},
		{"keyword in literal", `match $x has name "insert me"; get;`, Match},
		{"keyword in comment", "match $x isa person; # delete later\nget;", Match},
		{"aggregate keyword as literal", `match $x has name "count"; get;`, Match},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_NoKeywords(t *testing.T) {
	for _, q := range []string{"foo bar", "", `"match" # get`} {
		_, err := Classify(q)
		require.Error(t, err, q)
		assert.True(t, ir.IsQueryParsingError(err))
		assert.Contains(t, err.Error(), "no keywords")
	}
}

func TestClassify_IncompatibleKeywords(t *testing.T) {
	_, err := Classify("define person sub entity; match $x isa person; get;")
	require.Error(t, err)
	assert.True(t, ir.IsQueryParsingError(err))

	var qe *ir.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, []string{"match", "define"}, qe.Candidates)
	assert.Contains(t, err.Error(), "'match', 'define'")
}

func TestAnalyze_Counts(t *testing.T) {
	a := Analyze("match $x isa person; get; count; count;")
	assert.Equal(t, 1, a.Counts["match"])
	assert.Equal(t, 2, a.Counts["count"])
	assert.Equal(t, 0, a.Counts["insert"])
	assert.Equal(t, 2, a.Aggregates)
	assert.Equal(t, []QueryType{MatchAggregate}, a.Candidates)
}

func TestClassify_KeywordsAreCaseSensitive(t *testing.T) {
	_, err := Classify("MATCH $x isa person;")
	assert.Error(t, err)
}
