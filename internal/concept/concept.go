// Package concept defines the driver boundary consumed by the answer graph
// builder: concepts, their kinds and result rows.
package concept

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a concept.
type Kind string

const (
	KindEntity    Kind = "entity"
	KindRelation  Kind = "relation"
	KindAttribute Kind = "attribute"
	KindType      Kind = "type"
)

// ParseKind returns the kind named by s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindEntity, KindRelation, KindAttribute, KindType:
		return k, nil
	}
	return "", fmt.Errorf("unknown concept kind %q", s)
}

// IsThing reports whether k is an entity or a relation, the kinds that
// can own attributes and play roles.
func (k Kind) IsThing() bool {
	return k == KindEntity || k == KindRelation
}

// Concept is one value bound in a result row.
type Concept interface {
	Kind() Kind

	// IID is the instance identifier of an entity or relation. Empty for
	// attributes and types.
	IID() string

	// TypeLabel is the label of the concept's type, or of the type itself
	// when Kind is KindType.
	TypeLabel() string

	// Value is the attribute value. Nil for other kinds.
	Value() any
}

// Thing is a driver-independent Concept.
type Thing struct {
	kind  Kind
	iid   string
	label string
	value any
}

// NewEntity creates an entity concept.
func NewEntity(typeLabel, iid string) Thing {
	return Thing{kind: KindEntity, iid: iid, label: typeLabel}
}

// NewRelation creates a relation concept.
func NewRelation(typeLabel, iid string) Thing {
	return Thing{kind: KindRelation, iid: iid, label: typeLabel}
}

// NewAttribute creates an attribute concept.
func NewAttribute(typeLabel string, value any) Thing {
	return Thing{kind: KindAttribute, label: typeLabel, value: value}
}

// NewType creates a type concept.
func NewType(label string) Thing {
	return Thing{kind: KindType, label: label}
}

func (t Thing) Kind() Kind        { return t.kind }
func (t Thing) IID() string       { return t.iid }
func (t Thing) TypeLabel() string { return t.label }
func (t Thing) Value() any        { return t.value }

func (t Thing) String() string {
	switch t.kind {
	case KindAttribute:
		return t.label + ":" + FormatValue(t.value)
	case KindType:
		return t.label
	default:
		return t.label + ":" + t.iid
	}
}

// FormatValue renders an attribute value deterministically: integers and
// floats in shortest form, times as RFC 3339 in UTC.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
