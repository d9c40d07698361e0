package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tqlsh/internal/classify"
	"github.com/roach88/tqlsh/internal/concept"
	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/session"
)

const marriageQuery = `match $m isa marriage, links (husband: $h, wife: $w);
$h has name $hn;`

func openSocial(t *testing.T) *Driver {
	t.Helper()
	f, err := Load("testdata/social.yaml")
	require.NoError(t, err)
	return NewDriver(f)
}

func TestLoad(t *testing.T) {
	f, err := Load("testdata/social.yaml")
	require.NoError(t, err)
	assert.Equal(t, "social", f.Name)
	require.Len(t, f.Databases, 2)

	rows := f.Databases[0].Answers[0].Rows
	require.Len(t, rows, 2)
	var names []string
	for _, c := range rows[0].Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"m", "h", "w", "hn"}, names)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixture file")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "databases: []", "name is required"},
		{"unknown field", "name: x\ndatabase: []", "failed to parse YAML"},
		{"duplicate db", "name: x\ndatabases: [{name: a}, {name: a}]", "duplicate database"},
		{"empty query", "name: x\ndatabases: [{name: a, answers: [{query: ' '}]}]", "query is required"},
		{"bad kind", "name: x\ndatabases: [{name: a, answers: [{query: q, rows: [{x: {kind: role, type: r}}]}]}]", "unknown concept kind"},
		{"entity without iid", "name: x\ndatabases: [{name: a, answers: [{query: q, rows: [{x: {kind: entity, type: p}}]}]}]", "needs an iid"},
		{"attribute without value", "name: x\ndatabases: [{name: a, answers: [{query: q, rows: [{x: {kind: attribute, type: n}}]}]}]", "needs a value"},
		{"row not mapping", "name: x\ndatabases: [{name: a, answers: [{query: q, rows: [[1]]}]}]", "must be a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDriver_CannedRows(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)

	tx, err := d.Transaction(ctx, "social", classify.TxRead)
	require.NoError(t, err)
	ans, err := tx.Query(ctx, marriageQuery)
	require.NoError(t, err)
	require.Equal(t, session.AnswerRows, ans.Kind)
	require.Equal(t, 2, ans.Len())

	assert.Equal(t, []string{"m", "h", "w", "hn"}, ans.Rows[0].Columns())
	hn, ok := ans.Rows[1].Get("hn")
	require.True(t, ok)
	assert.Equal(t, concept.NewAttribute("name", "Sam"), hn)
}

func TestDriver_SigilKeysAndIntegers(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)
	tx, err := d.Transaction(ctx, "social", classify.TxRead)
	require.NoError(t, err)

	ans, err := tx.Query(ctx, "match $x isa person, has age $a;   $a > 30;")
	require.NoError(t, err)
	a, ok := ans.Rows[0].Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(42), a.Value())
}

func TestDriver_Documents(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)
	tx, err := d.Transaction(ctx, "social", classify.TxRead)
	require.NoError(t, err)

	ans, err := tx.Query(ctx, `match $x isa person, has name "Bob"; fetch { "name": $x.name };`)
	require.NoError(t, err)
	assert.Equal(t, session.AnswerDocuments, ans.Kind)
	assert.Equal(t, []map[string]any{{"name": "Bob"}}, ans.Documents)
}

func TestDriver_UnknownQueries(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)

	tx, err := d.Transaction(ctx, "social", classify.TxRead)
	require.NoError(t, err)
	ans, err := tx.Query(ctx, "match $x isa cat;")
	require.NoError(t, err)
	assert.Equal(t, session.AnswerRows, ans.Kind)
	assert.Zero(t, ans.Len())

	_, err = tx.Query(ctx, "insert $x isa cat;")
	assert.True(t, ir.IsArgumentError(err), "writes need a write transaction")

	wtx, err := d.Transaction(ctx, "social", classify.TxWrite)
	require.NoError(t, err)
	ans, err = wtx.Query(ctx, "insert $x isa person;")
	require.NoError(t, err)
	assert.Equal(t, session.AnswerOK, ans.Kind)
}

func TestDriver_SchemaCommit(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)

	tx, err := d.Transaction(ctx, "empty", classify.TxSchema)
	require.NoError(t, err)
	_, err = tx.Query(ctx, "define entity cat;")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	schema, err := d.Schema(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, schema)

	tx, err = d.Transaction(ctx, "empty", classify.TxSchema)
	require.NoError(t, err)
	_, err = tx.Query(ctx, "define entity cat;")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.False(t, tx.IsOpen())

	schema, err = d.Schema(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "define entity cat;\n", schema)
}

func TestDriver_DatabaseManagement(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)

	require.NoError(t, d.CreateDatabase(ctx, "shop"))
	assert.True(t, ir.IsArgumentError(d.CreateDatabase(ctx, "shop")))
	dbs, err := d.Databases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"social", "empty", "shop"}, dbs)

	require.NoError(t, d.DeleteDatabase(ctx, "empty"))
	ok, err := d.ContainsDatabase(ctx, "empty")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.Transaction(ctx, "empty", classify.TxRead)
	assert.True(t, ir.IsArgumentError(err))
}

func TestDriver_CloseEndsTransactions(t *testing.T) {
	ctx := context.Background()
	d := openSocial(t)
	tx, err := d.Transaction(ctx, "social", classify.TxRead)
	require.NoError(t, err)

	require.NoError(t, d.Close())
	assert.False(t, tx.IsOpen())
	_, err = tx.Query(ctx, "match $x isa person;")
	assert.ErrorIs(t, err, session.ErrConnectionClosed)
	_, err = d.Databases(ctx)
	assert.ErrorIs(t, err, session.ErrConnectionClosed)
}

func TestDial_WithManager(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(Dial)
	require.NoError(t, m.Open(ctx, session.Address{Kind: "fixture", Address: "testdata/social.yaml"}))
	defer m.Close()

	res, err := m.Run(ctx, "social", marriageQuery, "")
	require.NoError(t, err)
	assert.Equal(t, classify.Match, res.Type)
	assert.Equal(t, 2, res.Answer.Len())
}
