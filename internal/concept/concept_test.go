package concept

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Relation ")
	require.NoError(t, err)
	assert.Equal(t, KindRelation, k)
	assert.True(t, k.IsThing())
	assert.False(t, KindAttribute.IsThing())

	_, err = ParseKind("role")
	assert.Error(t, err)
}

func TestThing(t *testing.T) {
	e := NewEntity("cow", "0x826e80018000000000000001")
	assert.Equal(t, KindEntity, e.Kind())
	assert.Equal(t, "cow", e.TypeLabel())
	assert.Nil(t, e.Value())

	a := NewAttribute("name", "Spider Georg")
	assert.Equal(t, KindAttribute, a.Kind())
	assert.Empty(t, a.IID())
	assert.Equal(t, "name:Spider Georg", a.String())

	assert.Equal(t, NewAttribute("age", int64(3)), NewAttribute("age", int64(3)))
	assert.Equal(t, "person", NewType("person").String())
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"a", "a"},
		{42, "42"},
		{int64(-7), "-7"},
		{2.50, "2.5"},
		{1e21, "1000000000000000000000"},
		{true, "true"},
		{ts, "2024-03-01T11:00:00Z"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestMapRow(t *testing.T) {
	r := NewMapRow().
		Set("x", NewEntity("cow", "0x1")).
		Set("n", NewAttribute("name", "a")).
		Set("x", NewEntity("cow", "0x2"))

	assert.Equal(t, []string{"x", "n"}, r.Columns())
	assert.Equal(t, 2, r.Len())

	c, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, "0x2", c.IID())

	_, ok = r.Get("$x")
	assert.False(t, ok)
}
