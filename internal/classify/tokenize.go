package classify

import "strings"

// Tokenize splits query text into whitespace-delimited tokens, dropping
// everything a keyword count must not see:
//   - text inside '...' or "..." literals (a literal only ends at its own
//     quote character)
//   - the character after a backslash inside a literal
//   - text from an unescaped '#' to the end of the line
//
// Commas and semicolons outside literals and comments separate tokens.
// An unterminated literal or comment runs to the end of the text.
func Tokenize(query string) []string {
	var (
		inEscape         bool
		inLiteral        bool
		inComment        bool
		literalDelimiter rune
		b                strings.Builder
	)
	b.Grow(len(query))

	for _, char := range query {
		if inEscape {
			inEscape = false
			b.WriteByte(' ')
			continue
		}

		if inLiteral && char == '\\' {
			inEscape = true
			b.WriteByte(' ')
			continue
		}

		if !inComment && (char == '"' || char == '\'') {
			if !inLiteral {
				inLiteral = true
				literalDelimiter = char
				b.WriteByte(' ')
				continue
			}
			if char == literalDelimiter {
				inLiteral = false
				b.WriteByte(' ')
				continue
			}
		}

		if !inLiteral {
			if char == '#' {
				inComment = true
				b.WriteByte(' ')
				continue
			}
			if inComment && char == '\n' {
				inComment = false
				b.WriteByte(' ')
				continue
			}
		}

		if !inLiteral && !inComment {
			if char == ',' || char == ';' {
				b.WriteByte(' ')
			} else {
				b.WriteRune(char)
			}
		}
	}

	return strings.Fields(b.String())
}
