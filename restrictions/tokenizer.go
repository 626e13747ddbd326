package restrictions

import (
	"strings"
	"unicode"
)

type tokenizerState int

const (
	stateScanning tokenizerState = iota
	stateConstant
	stateWhitespace
)

// Tokenizer splits a SQL script into normalized statements. Statements are
// returned on a single line, lower-cased outside of string literals, with
// comments removed, whitespace collapsed and the terminating ';' stripped.
//
// A Tokenizer is consumed once, left to right.
type Tokenizer struct {
	script  []rune
	pos     int
	newLine bool
}

// NewTokenizer creates a tokenizer over script.
func NewTokenizer(script string) *Tokenizer {
	return &Tokenizer{
		script:  []rune(script),
		newLine: true,
	}
}

// Next returns the next normalized statement. ok is false once the script is
// exhausted.
func (t *Tokenizer) Next() (statement string, ok bool) {
	var sb strings.Builder
	state := stateScanning

	for t.pos < len(t.script) {
		c := t.script[t.pos]
		t.pos++

		if state == stateConstant {
			sb.WriteRune(c)
			// single character lookback: a literal ending in a backslash is not closed here
			if c == '\'' && t.script[t.pos-2] != '\\' {
				state = stateScanning
			}
			continue
		}

		if t.newLine && c == '-' && t.peek() == '-' {
			t.skipLine()
			continue
		}

		if unicode.IsSpace(c) {
			if c == '\n' {
				t.newLine = true
			}
			if sb.Len() > 0 {
				state = stateWhitespace
			}
			continue
		}
		t.newLine = false

		if c == ';' {
			if sb.Len() > 0 {
				return sb.String(), true
			}
			state = stateScanning
			continue
		}

		if state == stateWhitespace {
			sb.WriteByte(' ')
			state = stateScanning
		}

		if c == '\'' {
			sb.WriteRune(c)
			state = stateConstant
			continue
		}
		sb.WriteRune(unicode.ToLower(c))
	}

	if sb.Len() > 0 {
		return sb.String(), true
	}
	return "", false
}

func (t *Tokenizer) peek() rune {
	if t.pos < len(t.script) {
		return t.script[t.pos]
	}
	return 0
}

func (t *Tokenizer) skipLine() {
	for t.pos < len(t.script) {
		c := t.script[t.pos]
		t.pos++
		if c == '\n' {
			t.newLine = true
			return
		}
	}
}

// Tokenize returns all normalized statements of script.
func Tokenize(script string) []string {
	var statements []string
	tokenizer := NewTokenizer(script)
	for {
		statement, ok := tokenizer.Next()
		if !ok {
			return statements
		}
		statements = append(statements, statement)
	}
}
