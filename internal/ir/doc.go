// Package ir provides the constraint intermediate representation for tqlsh.
//
// The parser turns the match clause of a TypeQL query into a flat, ordered
// list of Constraint values. Every later stage (query graph, answer graph,
// visualisation) reads that list; nothing writes to it after parsing.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// SEALED INTERFACES:
//
// Constraint, Operand and RoleRef are sealed with marker methods. Only types
// in this package implement them, so consumers can switch exhaustively:
//
//	switch c := constraint.(type) {
//	case *Has:
//	    // owner/attribute edge
//	case *Links:
//	    // relation/player edge
//	default:
//	    // no visual meaning
//	}
//
// SUBJECT BINDING:
//
// Constraints produced inside a native pattern start with an unbound LHS and
// are bound to the pattern's subject variable exactly once (BindSubject).
// After a pattern is parsed no constraint may be left unbound (Unbound).
package ir
