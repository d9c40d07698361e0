// Package parser parses the match clause of a TypeQL query into constraint IR.
//
// Only the pattern subset needed for visualisation is supported:
//
//	query       = "match"? pattern ";" { pattern ";" }
//	pattern     = native | comparison
//	native      = var constraint { "," constraint }
//	constraint  = "has" label (var | literal) | "has" var
//	            | "isa" (label | var)
//	            | "links" "(" roleplayer { "," roleplayer } ")"
//	roleplayer  = (var | label) ":" var
//	comparison  = (var | literal) comparator (var | literal)
//	comparator  = ">=" | "<=" | "!=" | "=" | ">" | "<" | "like" | "contains"
//	var         = "$" [A-Za-z0-9_-]+
//	label       = [A-Za-z0-9_-]+
//	literal     = [0-9]+ | '"' { char | '\' char } '"'
//
// Whitespace and '#' comments may appear between any two tokens.
//
// DESUGARING:
//
//	has L $v        → Has(s, $v), IsaType($v, L)
//	has L literal   → Has(s, $i), AttributeLabelValue($i, L, literal)   ($i fresh)
//	has $v          → Has(s, $v)
//	isa L           → IsaType(s, L)
//	isa $t          → Isa(s, $t)
//	links (r: $p)   → Links(s, $p, r)   one per role player
//
// where s is the pattern's subject variable. Parsing is all-or-nothing: any
// text outside the grammar fails with a SyntaxError naming the residue.
package parser
