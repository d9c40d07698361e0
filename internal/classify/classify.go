package classify

import (
	"strings"

	"github.com/roach88/tqlsh/internal/ir"
)

// QueryType is the kind of a TypeQL query.
type QueryType string

const (
	Match               QueryType = "match"
	MatchAggregate      QueryType = "match-aggregate"
	MatchGroup          QueryType = "match-group"
	MatchGroupAggregate QueryType = "match-group-aggregate"
	Define              QueryType = "define"
	Undefine            QueryType = "undefine"
	Insert              QueryType = "insert"
	Delete              QueryType = "delete"
	Update              QueryType = "update"
)

// QueryTypes lists every query type.
var QueryTypes = []QueryType{
	Match, MatchAggregate, MatchGroup, MatchGroupAggregate,
	Define, Undefine, Insert, Delete, Update,
}

// Keywords are the tokens Classify counts.
var Keywords = []string{
	"match", "get", "define", "undefine", "insert", "delete", "group",
	"count", "sum", "max", "min", "mean", "median", "std",
}

// aggregateKeywords contribute to the aggregate count.
var aggregateKeywords = []string{"count", "sum", "max", "min", "mean", "median", "std"}

// IsRead reports whether t only reads data.
func (t QueryType) IsRead() bool {
	switch t {
	case Match, MatchAggregate, MatchGroup, MatchGroupAggregate:
		return true
	}
	return false
}

// IsSchema reports whether t changes the schema.
func (t QueryType) IsSchema() bool {
	return t == Define || t == Undefine
}

func (t QueryType) String() string {
	return string(t)
}

// Analysis is the keyword evidence behind a classification.
type Analysis struct {
	// Tokens are the tokens left after literals and comments are dropped.
	Tokens []string

	// Counts holds the occurrences of each keyword (all keys present).
	Counts map[string]int

	// Aggregates is the summed count of the aggregate keywords.
	Aggregates int

	// Candidates are the query types the keywords point to, in rule order.
	Candidates []QueryType
}

// Analyze tokenizes query and derives candidate query types.
//
// The read dimension takes the first matching rule:
//  1. group and an aggregate → match-group-aggregate
//  2. an aggregate → match-aggregate
//  3. group → match-group
//  4. get → match
//
// define and undefine each add a candidate. The write dimension adds update
// when both insert and delete occur, otherwise insert or delete.
func Analyze(query string) Analysis {
	a := Analysis{
		Tokens: Tokenize(query),
		Counts: make(map[string]int, len(Keywords)),
	}
	for _, k := range Keywords {
		a.Counts[k] = 0
	}
	for _, tok := range a.Tokens {
		if _, ok := a.Counts[tok]; ok {
			a.Counts[tok]++
		}
	}
	for _, k := range aggregateKeywords {
		a.Aggregates += a.Counts[k]
	}

	c := a.Counts
	switch {
	case c["group"] > 0 && a.Aggregates > 0:
		a.Candidates = append(a.Candidates, MatchGroupAggregate)
	case a.Aggregates > 0:
		a.Candidates = append(a.Candidates, MatchAggregate)
	case c["group"] > 0:
		a.Candidates = append(a.Candidates, MatchGroup)
	case c["get"] > 0:
		a.Candidates = append(a.Candidates, Match)
	}

	if c["define"] > 0 {
		a.Candidates = append(a.Candidates, Define)
	}
	if c["undefine"] > 0 {
		a.Candidates = append(a.Candidates, Undefine)
	}

	switch {
	case c["insert"] > 0 && c["delete"] > 0:
		a.Candidates = append(a.Candidates, Update)
	case c["insert"] > 0:
		a.Candidates = append(a.Candidates, Insert)
	case c["delete"] > 0:
		a.Candidates = append(a.Candidates, Delete)
	}

	return a
}

// Type resolves the analysis to a single query type.
//
// More than one candidate is a keyword conflict. With no candidate the query
// is a plain match if it says match, and unclassifiable otherwise.
func (a Analysis) Type() (QueryType, error) {
	switch {
	case len(a.Candidates) > 1:
		names := make([]string, len(a.Candidates))
		for i, c := range a.Candidates {
			names[i] = string(c)
		}
		err := ir.NewParsingError("Query contains incompatible keywords: '%s'", strings.Join(names, "', '"))
		err.Candidates = names
		return "", err
	case len(a.Candidates) == 1:
		return a.Candidates[0], nil
	case a.Counts["match"] > 0:
		return Match, nil
	default:
		return "", ir.NewParsingError("Query contains no keywords.")
	}
}

// Classify returns the query type of query.
func Classify(query string) (QueryType, error) {
	return Analyze(query).Type()
}
