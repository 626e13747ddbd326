package restrictions

import "strings"

// splitTopLevel splits s on sep, ignoring separators nested in parentheses,
// brackets, string literals or quoted identifiers. Parts are trimmed.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inLiteral, inIdentifier := false, false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inLiteral:
			if c == '\'' {
				inLiteral = false
			}
		case inIdentifier:
			if c == '"' {
				inIdentifier = false
			}
		case c == '\'':
			inLiteral = true
		case c == '"':
			inIdentifier = true
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// closingIndex returns the index of the bracket closing the one at s[open],
// or -1 if it is not closed.
func closingIndex(s string, open int) int {
	if open < 0 || open >= len(s) || (s[open] != '(' && s[open] != '[') {
		return -1
	}
	depth := 0
	inLiteral, inIdentifier := false, false
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case inLiteral:
			if c == '\'' {
				inLiteral = false
			}
		case inIdentifier:
			if c == '"' {
				inIdentifier = false
			}
		case c == '\'':
			inLiteral = true
		case c == '"':
			inIdentifier = true
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripParens removes parentheses enclosing the whole of s.
func stripParens(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "(") && closingIndex(s, 0) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// stripLiterals blanks the content of string literals so keywords inside
// them are not matched.
func stripLiterals(s string) string {
	if strings.IndexByte(s, '\'') < 0 {
		return s
	}
	var sb strings.Builder
	inLiteral := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' {
			inLiteral = !inLiteral
			sb.WriteByte(c)
			continue
		}
		if !inLiteral {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
