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

package format

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// buffer accumulates rendered text.
//
// In addition to the text itself, the buffer
// tracks the current indentation level, an
// alignment prefix written after the indentation
// of every new line, and at most one break
// position: an offset at which the buffer may
// retroactively insert a line break if the
// line holding it grows wider than the
// configured maximum.
type buffer struct {
	cfg    *Config
	out    []byte
	level  int
	prefix string
	// breakAt is the remembered break
	// position, or -1 if there is none
	breakAt int
	comma   string
	minify  bool
}

func newBuffer(cfg *Config) *buffer {
	b := &buffer{
		cfg:     cfg,
		breakAt: -1,
		minify:  cfg.Mode == ModeMinify,
	}
	switch cfg.CommaStyle {
	case CommaAfter:
		b.comma = ", "
	case CommaBefore:
		b.comma = " ,"
	case CommaBoth:
		b.comma = " , "
	default:
		b.comma = ","
	}
	return b
}

func isword(c byte) bool {
	return isalnum(c) || c == '_' || c == '$' || c == '@' || c >= 0x80
}

func isalnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isblank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// operator characters that lex as a single
// token when they are juxtaposed
const mergingOps = "<>=!|&"

// glues returns true if writing next directly
// after last would lex differently than
// writing them with a space in between
func glues(last, next byte) bool {
	switch {
	case isword(last) && isword(next):
		return true
	case last == '-' && next == '-':
		return true
	case last == '/' && next == '*', last == '*' && next == '/':
		return true
	case last == next && (last == '\'' || last == '"' || last == '`'):
		return true
	case strings.IndexByte(mergingOps, last) >= 0 && strings.IndexByte(mergingOps, next) >= 0:
		return true
	}
	return false
}

func (b *buffer) last() byte {
	if len(b.out) == 0 {
		return 0
	}
	return b.out[len(b.out)-1]
}

// write appends s verbatim, separating it
// from the preceding text with a single space
// if the two would otherwise run together
func (b *buffer) write(s string) {
	if s == "" {
		return
	}
	if len(b.out) > 0 && glues(b.last(), s[0]) {
		b.out = append(b.out, ' ')
	}
	b.out = append(b.out, s...)
	b.watchdog()
}

// sp appends a single space unless the
// buffer is empty or already ends in
// whitespace or an opening bracket
func (b *buffer) sp() {
	if b.minify {
		return
	}
	switch b.last() {
	case 0, ' ', '\t', '\n', '(', '[':
		return
	}
	b.out = append(b.out, ' ')
}

// pad is sp that also applies in minify mode
func (b *buffer) pad() {
	switch b.last() {
	case 0, ' ', '\t', '\n', '(', '[':
		return
	}
	b.out = append(b.out, ' ')
}

func (b *buffer) cased(word string) string {
	switch b.cfg.KeywordCase {
	case Upper:
		return strings.ToUpper(word)
	case Lower:
		return strings.ToLower(word)
	}
	return word
}

// key writes a keyword with the configured
// case, preceded by a space
func (b *buffer) key(word string) {
	if word == "" {
		return
	}
	b.sp()
	b.write(b.cased(word))
}

// keys writes each non-empty word with key
func (b *buffer) keys(words ...string) {
	for _, w := range words {
		b.key(w)
	}
}

// newline terminates the current line and
// starts a new one at the current indentation.
// In minify mode it does nothing.
func (b *buffer) newline() {
	if b.minify {
		return
	}
	b.out = bytes.TrimRight(b.out, " \t")
	if len(b.out) == 0 {
		return
	}
	b.out = append(b.out, '\n')
	for i := 0; i < b.level; i++ {
		b.out = append(b.out, b.cfg.Indent...)
	}
	b.out = append(b.out, b.prefix...)
}

func (b *buffer) newlineIf(cond bool) {
	if cond {
		b.newline()
	}
}

func (b *buffer) writeComma() {
	b.out = append(b.out, b.comma...)
	b.watchdog()
}

// commaBreak writes a comma, followed
// by a newline if brk is set
func (b *buffer) commaBreak(brk bool) {
	b.writeComma()
	b.newlineIf(brk)
}

// indented runs fn one indentation level deeper
func (b *buffer) indented(fn func()) {
	b.level++
	fn()
	b.level--
}

// column returns the width in characters
// of the current (last) line
func (b *buffer) column() int {
	start := bytes.LastIndexByte(b.out, '\n') + 1
	return utf8.RuneCount(b.out[start:])
}

// aligned runs fn with new lines starting
// at the current column instead of at the
// current indentation level
func (b *buffer) aligned(fn func()) {
	level, prefix := b.level, b.prefix
	b.prefix = strings.Repeat(" ", b.column())
	b.level = 0
	fn()
	b.level, b.prefix = level, prefix
}

func (b *buffer) parens(fn func()) {
	b.write("(")
	fn()
	b.write(")")
}

// autoBreak runs fn with the break position
// set to the current end of the buffer, so that
// the text written by fn moves to a new line
// if it does not fit on the current one
func (b *buffer) autoBreak(fn func()) {
	old := b.breakAt
	b.breakAt = len(b.out)
	fn()
	b.breakAt = old
}

// watchdog moves the text following the
// break position to a new line when the
// current line is too wide
func (b *buffer) watchdog() {
	max := b.cfg.MaxLineLength
	if b.minify || max <= 0 || b.breakAt < 0 {
		return
	}
	start := bytes.LastIndexByte(b.out, '\n') + 1
	if b.breakAt <= start || b.breakAt > len(b.out) {
		return
	}
	if utf8.RuneCount(b.out[start:]) <= max {
		return
	}
	// breaking would leave nothing but
	// indentation on the current line
	if len(bytes.TrimSpace(b.out[start:b.breakAt])) == 0 {
		return
	}
	at := b.breakAt
	for at < len(b.out) && (b.out[at] == ' ' || b.out[at] == '\t') {
		at++
	}
	rest := string(b.out[at:])
	b.out = b.out[:b.breakAt]
	b.newline()
	b.out = append(b.out, rest...)
	b.breakAt = -1
}

func (b *buffer) String() string {
	return string(bytes.TrimSpace(b.out))
}
