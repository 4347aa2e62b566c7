// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package sqlparse

import (
	"bytes"
	"fmt"
)

// TokenKind is the lexical class of a Token.
type TokenKind uint8

const (
	EOF TokenKind = iota
	// Ident is a bare word; keywords
	// are idents, too, and are recognized
	// by the parser in context
	Ident
	// QuotedIdent is "x" or `x`
	QuotedIdent
	Number
	String
	// Op is an operator or punctuation
	Op
	// Param is '?'
	Param
	// Variable is @x or @@x
	Variable
	// Comment is a line or block comment;
	// comments are on the hidden channel
	Comment
)

var kindNames = [...]string{
	EOF:         "end of input",
	Ident:       "identifier",
	QuotedIdent: "quoted identifier",
	Number:      "number",
	String:      "string",
	Op:          "operator",
	Param:       "parameter",
	Variable:    "variable",
	Comment:     "comment",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is one lexical token.
// Text is always the exact source text.
type Token struct {
	Kind TokenKind
	Text string
	// Pos is the byte offset of
	// the token in the input
	Pos int
}

// Hidden returns true if the token
// is on the hidden (comment) channel.
func (t Token) Hidden() bool {
	return t.Kind == Comment
}

// LexerError describes a lexing error
type LexerError struct {
	Position int    // offset in the input string
	Length   int    // length of wrong substring (0 if unknown)
	Message  string // textual descritption of an error
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("at position %d: %s", e.Position, e.Message)
}

type scanner struct {
	from []byte
	pos  int
}

func isdigit(x byte) bool {
	return x >= '0' && x <= '9'
}

func isalpha(x byte) bool {
	return (x >= 'a' && x <= 'z') || (x >= 'A' && x <= 'Z')
}

// isident accepts bytes >= 0x80 so that
// UTF-8 encoded identifiers lex as one word
func isident(x byte) bool {
	return isalpha(x) || isdigit(x) || x == '_' || x == '$' || x >= 0x80
}

func isspace(x byte) bool {
	return x == ' ' || x == '\n' || x == '\t' || x == '\r' || x == '\f' || x == '\v'
}

// chomp whitespace from input
func (s *scanner) chompws() {
	for s.pos < len(s.from) && isspace(s.from[s.pos]) {
		s.pos++
	}
}

func (s *scanner) peekat(i int) byte {
	if s.pos+i < len(s.from) {
		return s.from[s.pos+i]
	}
	return 0
}

func (s *scanner) errorf(start, length int, f string, args ...any) error {
	return &LexerError{
		Position: start,
		Length:   length,
		Message:  fmt.Sprintf(f, args...),
	}
}

func (s *scanner) token(kind TokenKind, start int) Token {
	return Token{Kind: kind, Text: string(s.from[start:s.pos]), Pos: start}
}

// three-byte and two-byte operators,
// longest first
var multiops = []string{
	"<=>",
	"<=", ">=", "<>", "!=", "==", "||", "<<", ">>",
}

func (s *scanner) lex() (Token, error) {
	s.chompws()
	if s.pos >= len(s.from) {
		return Token{Kind: EOF, Pos: s.pos}, nil
	}
	start := s.pos
	b := s.from[s.pos]
	switch {
	case isdigit(b), b == '.' && isdigit(s.peekat(1)):
		return s.lexNumber()
	case b == '-' && s.peekat(1) == '-':
		return s.lexLineComment(), nil
	case b == '/' && s.peekat(1) == '*':
		return s.lexBlockComment()
	case b == '\'':
		return s.lexQuoted(String, '\'')
	case b == '"':
		return s.lexQuoted(QuotedIdent, '"')
	case b == '`':
		return s.lexQuoted(QuotedIdent, '`')
	case b == '?':
		s.pos++
		return s.token(Param, start), nil
	case b == '@':
		s.pos++
		if s.peekat(0) == '@' {
			s.pos++
		}
		// system variables may be qualified,
		// as in @@session.sql_mode
		for s.pos < len(s.from) && (isident(s.from[s.pos]) || s.from[s.pos] == '.' && isident(s.peekat(1))) {
			s.pos++
		}
		return s.token(Variable, start), nil
	case isident(b):
		s.pos++
		for s.pos < len(s.from) && isident(s.from[s.pos]) {
			s.pos++
		}
		return s.token(Ident, start), nil
	}
	for _, op := range multiops {
		if bytes.HasPrefix(s.from[s.pos:], []byte(op)) {
			s.pos += len(op)
			return s.token(Op, start), nil
		}
	}
	switch b {
	case '=', '<', '>', '!', '+', '-', '*', '/', '%', '(', ')', ',', '.',
		';', '[', ']', '{', '}', '&', '|', '^', '~', ':':
		s.pos++
		return s.token(Op, start), nil
	}
	return Token{}, s.errorf(start, 1, "unexpected character %q", b)
}

func (s *scanner) lexLineComment() Token {
	start := s.pos
	for s.pos < len(s.from) && s.from[s.pos] != '\n' {
		s.pos++
	}
	tok := s.token(Comment, start)
	// CRLF line endings leave a '\r' behind
	tok.Text = string(bytes.TrimRight([]byte(tok.Text), "\r"))
	return tok
}

func (s *scanner) lexBlockComment() (Token, error) {
	start := s.pos
	end := bytes.Index(s.from[s.pos+2:], []byte("*/"))
	if end == -1 {
		return Token{}, s.errorf(start, len(s.from)-start, "unterminated comment")
	}
	s.pos += end + 4
	return s.token(Comment, start), nil
}

// lexNumber lexes a number-like thing:
// digits, a decimal point, an exponent,
// and hex digits following 0x
func (s *scanner) lexNumber() (Token, error) {
	start := s.pos
	if s.from[s.pos] == '0' && (s.peekat(1) == 'x' || s.peekat(1) == 'X') {
		s.pos += 2
		for s.pos < len(s.from) && isident(s.from[s.pos]) {
			s.pos++
		}
		return s.token(Number, start), nil
	}
	for s.pos < len(s.from) && isdigit(s.from[s.pos]) {
		s.pos++
	}
	if s.peekat(0) == '.' {
		s.pos++
		for s.pos < len(s.from) && isdigit(s.from[s.pos]) {
			s.pos++
		}
	}
	if c := s.peekat(0); c == 'e' || c == 'E' {
		n := 1
		if c := s.peekat(1); c == '+' || c == '-' {
			n++
		}
		if isdigit(s.peekat(n)) {
			s.pos += n
			for s.pos < len(s.from) && isdigit(s.from[s.pos]) {
				s.pos++
			}
		}
	}
	// a number immediately followed by
	// letters is something like '1abc'
	if s.pos < len(s.from) && isident(s.from[s.pos]) {
		for s.pos < len(s.from) && isident(s.from[s.pos]) {
			s.pos++
		}
		return Token{}, s.errorf(start, s.pos-start, "malformed number %q", s.from[start:s.pos])
	}
	return s.token(Number, start), nil
}

// lexQuoted lexes a string or quoted identifier;
// the delimiter is escaped by doubling it, and
// backslash escapes the next character
func (s *scanner) lexQuoted(kind TokenKind, delim byte) (Token, error) {
	start := s.pos
	s.pos++ // skip leading delimiter
	for s.pos < len(s.from) {
		c := s.from[s.pos]
		if c == '\\' && delim != '`' {
			s.pos += 2
			continue
		}
		if c == delim {
			if s.peekat(1) == delim {
				s.pos += 2
				continue
			}
			s.pos++
			return s.token(kind, start), nil
		}
		s.pos++
	}
	s.pos = len(s.from)
	what := "string"
	if kind == QuotedIdent {
		what = "quoted identifier"
	}
	return Token{}, s.errorf(start, s.pos-start, "unterminated %s", what)
}

// Tokens splits src into tokens, including
// comments on the hidden channel. The final
// token is always an EOF token.
func Tokens(src []byte) ([]Token, error) {
	s := &scanner{from: src}
	var out []Token
	for {
		tok, err := s.lex()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

// position returns the 1-based line
// and column of the byte offset pos
func position(src []byte, pos int) (line, col int, ok bool) {
	if pos < 0 || pos > len(src) {
		return 0, 0, false
	}
	line = 1 + bytes.Count(src[:pos], []byte{'\n'})
	col = pos + 1
	if i := bytes.LastIndexByte(src[:pos], '\n'); i >= 0 {
		col = pos - i
	}
	return line, col, true
}
