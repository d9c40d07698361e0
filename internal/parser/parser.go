package parser

import (
	"strings"

	"github.com/roach88/tqlsh/internal/ir"
)

// StageKeywords end a match clause when parsing a whole query.
var StageKeywords = []string{
	"get", "fetch", "select", "sort", "limit", "offset", "reduce",
	"insert", "delete", "update", "put",
}

// Option configures a parse.
type Option func(*parser)

// WithAllocator makes the parse draw internal variables from alloc instead
// of a fresh allocator. Callers that parse several clauses into one graph
// use it to keep generated names distinct.
func WithAllocator(alloc *ir.VarAllocator) Option {
	return func(p *parser) {
		p.alloc = alloc
	}
}

// Parse parses a match clause. The leading "match" keyword is optional and
// the whole text must be consumed.
func Parse(text string, opts ...Option) (*ir.Match, error) {
	p := newParser(text, opts)
	p.ws()
	p.keyword("match")
	m, err := p.patterns(false)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ParseQuery parses the leading match clause of a full query and ignores
// everything from the first stage keyword (get, insert, fetch, ...) on.
// The query must start with "match".
func ParseQuery(text string, opts ...Option) (*ir.Match, error) {
	p := newParser(text, opts)
	p.ws()
	if !p.keyword("match") {
		return nil, wrap(p.fail(`"match"`))
	}
	return p.patterns(true)
}

type parser struct {
	src   string
	pos   int
	alloc *ir.VarAllocator
}

func newParser(text string, opts []Option) *parser {
	p := &parser{src: text}
	for _, opt := range opts {
		opt(p)
	}
	if p.alloc == nil {
		p.alloc = ir.NewVarAllocator()
	}
	return p
}

// patterns parses one or more `pattern ;` up to end of input or, when
// stopAtStage is set, up to a stage keyword.
func (p *parser) patterns(stopAtStage bool) (*ir.Match, error) {
	m := &ir.Match{}
	for {
		p.ws()
		if p.eof() || (stopAtStage && p.atStage()) {
			break
		}
		if !p.atPatternStart() {
			return nil, wrap(p.fail("pattern"))
		}
		cs, err := p.pattern()
		if err != nil {
			return nil, wrapErr(err)
		}
		p.ws()
		if !p.consume(";") {
			return nil, wrap(p.fail(`";"`))
		}
		m.Constraints = append(m.Constraints, cs...)
	}
	if len(m.Constraints) == 0 {
		return nil, wrap(p.fail("pattern"))
	}
	return m, nil
}

// pattern parses a native or comparison pattern and binds its subject.
func (p *parser) pattern() ([]ir.Constraint, error) {
	var lhs ir.Operand
	if p.peek() == '$' {
		v, err := p.variable()
		if err != nil {
			return nil, err
		}
		lhs = v
	} else {
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		lhs = lit
	}

	p.ws()
	if cmp, ok := p.comparator(); ok {
		p.ws()
		rhs, err := p.operand()
		if err != nil {
			return nil, err
		}
		return []ir.Constraint{&ir.Comparison{LHS: lhs, RHS: rhs, Comparator: cmp}}, nil
	}

	subject, ok := lhs.(ir.Var)
	if !ok {
		return nil, p.fail("comparator")
	}
	var out []ir.Constraint
	for {
		cs, err := p.constraint()
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
		p.ws()
		if !p.consume(",") {
			break
		}
		p.ws()
	}
	for _, c := range out {
		if err := ir.BindSubject(c, subject); err != nil {
			return nil, ir.WrapParsingError(err, "pattern on %s", subject)
		}
		if ir.Unbound(c) {
			return nil, ir.NewParsingError("constraint %s has no subject", c)
		}
	}
	return out, nil
}

func (p *parser) constraint() ([]ir.Constraint, error) {
	switch {
	case p.keyword("has"):
		p.ws()
		if p.peek() == '$' {
			v, err := p.variable()
			if err != nil {
				return nil, err
			}
			return []ir.Constraint{&ir.Has{RHS: v}}, nil
		}
		label, err := p.label()
		if err != nil {
			return nil, p.fail("attribute type or variable")
		}
		p.ws()
		if p.peek() == '$' {
			v, err := p.variable()
			if err != nil {
				return nil, err
			}
			return []ir.Constraint{
				&ir.Has{RHS: v},
				&ir.IsaType{LHS: v, RHS: label},
			}, nil
		}
		lit, err := p.literal()
		if err != nil {
			return nil, p.fail("variable or literal")
		}
		attr := p.alloc.Next()
		return []ir.Constraint{
			&ir.Has{RHS: attr},
			&ir.AttributeLabelValue{LHS: attr, Label: label, Value: lit},
		}, nil

	case p.keyword("isa"):
		p.ws()
		if p.peek() == '$' {
			v, err := p.variable()
			if err != nil {
				return nil, err
			}
			return []ir.Constraint{&ir.Isa{RHS: v}}, nil
		}
		label, err := p.label()
		if err != nil {
			return nil, p.fail("type label or variable")
		}
		return []ir.Constraint{&ir.IsaType{RHS: label}}, nil

	case p.keyword("links"):
		p.ws()
		if !p.consume("(") {
			return nil, p.fail(`"("`)
		}
		var out []ir.Constraint
		for {
			p.ws()
			c, err := p.rolePlayer()
			if err != nil {
				return nil, err
			}
			out = append(out, c)
			p.ws()
			if !p.consume(",") {
				break
			}
		}
		if !p.consume(")") {
			return nil, p.fail(`"," or ")"`)
		}
		return out, nil
	}
	return nil, p.fail(`"has", "isa" or "links"`)
}

// rolePlayer parses `role: $player`.
func (p *parser) rolePlayer() (*ir.Links, error) {
	var role ir.RoleRef
	if p.peek() == '$' {
		v, err := p.variable()
		if err != nil {
			return nil, err
		}
		role = v
	} else {
		l, err := p.label()
		if err != nil {
			return nil, p.fail("role")
		}
		role = l
	}
	p.ws()
	if !p.consume(":") {
		return nil, p.fail(`":"`)
	}
	p.ws()
	if p.peek() != '$' {
		return nil, p.fail("player variable")
	}
	player, err := p.variable()
	if err != nil {
		return nil, err
	}
	return &ir.Links{RHS: player, Role: role}, nil
}

func (p *parser) operand() (ir.Operand, error) {
	if p.peek() == '$' {
		v, err := p.variable()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	lit, err := p.literal()
	if err != nil {
		return nil, p.fail("variable or literal")
	}
	return lit, nil
}

func (p *parser) variable() (ir.Var, error) {
	start := p.pos
	if !p.consume(ir.VarSigil) {
		return ir.Var{}, p.fail("variable")
	}
	n := identLen(p.src[p.pos:])
	if n == 0 {
		p.pos = start
		return ir.Var{}, p.fail("variable name")
	}
	p.pos += n
	return ir.Var{Name: p.src[start:p.pos]}, nil
}

func (p *parser) label() (ir.Label, error) {
	n := identLen(p.src[p.pos:])
	if n == 0 {
		return ir.Label{}, p.fail("label")
	}
	l := ir.Label{Name: p.src[p.pos : p.pos+n]}
	p.pos += n
	return l, nil
}

// literal parses an integer or a quoted string. Raw keeps the source text.
func (p *parser) literal() (ir.Literal, error) {
	rest := p.src[p.pos:]
	if rest == "" {
		return ir.Literal{}, p.fail("literal")
	}
	switch q := rest[0]; {
	case q == '"' || q == '\'':
		for i := 1; i < len(rest); i++ {
			switch rest[i] {
			case '\\':
				i++
			case q:
				p.pos += i + 1
				return ir.Literal{Raw: rest[:i+1], Kind: ir.LiteralString}, nil
			}
		}
		return ir.Literal{}, p.fail("closing quote")
	default:
		i := 0
		if rest[0] == '-' {
			i++
		}
		j := i
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j == i || (j < len(rest) && isIdent(rest[j])) {
			return ir.Literal{}, p.fail("literal")
		}
		p.pos += j
		return ir.Literal{Raw: rest[:j], Kind: ir.LiteralInteger}, nil
	}
}

// comparator matches the longest comparator at the cursor. Word
// comparators must end at a word boundary.
func (p *parser) comparator() (ir.Comparator, bool) {
	rest := p.src[p.pos:]
	for _, c := range ir.Comparators {
		s := string(c)
		if !strings.HasPrefix(rest, s) {
			continue
		}
		if isIdent(s[0]) && len(rest) > len(s) && isIdent(rest[len(s)]) {
			continue
		}
		p.pos += len(s)
		return c, true
	}
	return "", false
}

// keyword consumes kw if it appears at the cursor as a whole word.
func (p *parser) keyword(kw string) bool {
	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, kw) {
		return false
	}
	if len(rest) > len(kw) && isIdent(rest[len(kw)]) {
		return false
	}
	p.pos += len(kw)
	return true
}

func (p *parser) atStage() bool {
	word := p.src[p.pos : p.pos+identLen(p.src[p.pos:])]
	for _, kw := range StageKeywords {
		if word == kw {
			return true
		}
	}
	return false
}

func (p *parser) atPatternStart() bool {
	switch c := p.peek(); {
	case c == '$', c == '"', c == '\'', c == '-', isDigit(c):
		return true
	}
	return false
}

// ws skips whitespace and '#' comments.
func (p *parser) ws() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		case '#':
			if nl := strings.IndexByte(p.src[p.pos:], '\n'); nl >= 0 {
				p.pos += nl + 1
			} else {
				p.pos = len(p.src)
			}
		default:
			return
		}
	}
}

func (p *parser) consume(s string) bool {
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// fail reports a syntax error at the cursor.
func (p *parser) fail(expected string) *SyntaxError {
	return &SyntaxError{
		Pos:      p.position(),
		Expected: expected,
		Residue:  residue(p.src[p.pos:]),
	}
}

func (p *parser) position() Pos {
	before := p.src[:p.pos]
	line := strings.Count(before, "\n") + 1
	col := p.pos - strings.LastIndexByte(before, '\n')
	return Pos{Offset: p.pos, Line: line, Column: col}
}

func identLen(s string) int {
	n := 0
	for n < len(s) && isIdent(s[n]) {
		n++
	}
	return n
}

func isIdent(c byte) bool {
	return c == '_' || c == '-' || isDigit(c) || (c|0x20) >= 'a' && (c|0x20) <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
