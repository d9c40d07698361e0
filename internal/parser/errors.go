package parser

import (
	"errors"
	"fmt"

	"github.com/roach88/tqlsh/internal/ir"
)

// maxResidue caps how much unparsed text an error message quotes.
const maxResidue = 40

// Pos is a position in query text.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError reports text the pattern grammar does not accept.
type SyntaxError struct {
	Pos      Pos
	Expected string // what the parser was looking for
	Residue  string // unparsed text from Pos, possibly truncated
}

func (e *SyntaxError) Error() string {
	if e.Residue == "" {
		return fmt.Sprintf("%s: expected %s at end of input", e.Pos, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s, found %q", e.Pos, e.Expected, e.Residue)
}

// AsSyntaxError extracts the SyntaxError from a parse error.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	ok := errors.As(err, &se)
	return se, ok
}

// wrap turns a syntax error into the pipeline's query error type.
func wrap(se *SyntaxError) error {
	return ir.WrapParsingError(se, "cannot parse match clause")
}

// wrapErr wraps syntax errors and passes query errors through.
func wrapErr(err error) error {
	if se, ok := AsSyntaxError(err); ok {
		return wrap(se)
	}
	return err
}

func residue(rest string) string {
	if len(rest) <= maxResidue {
		return rest
	}
	return rest[:maxResidue] + "..."
}
