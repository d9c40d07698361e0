// Package classify decides what kind of TypeQL query a piece of text is
// without parsing it.
//
// Classification is a heuristic over keyword counts, not a grammar. Text the
// parser cannot handle still classifies as long as its keywords are
// unambiguous. Keywords inside string literals and comments are never
// counted: Tokenize drops them before counting.
//
// The query type selects the transaction a query runs in (TransactionFor).
package classify
