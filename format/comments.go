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
	"strings"

	"github.com/SnellerInc/sqlfmt/expr/sqlparse"
)

type comment struct {
	// at is the number of non-whitespace
	// characters of visible tokens that
	// precede the comment
	at   int
	text string
}

// comments holds the comments of one input,
// keyed by their position in the stream of
// non-whitespace characters. Rendering only
// changes whitespace, so the same position
// can be found again in the rendered text.
type comments struct {
	list []comment
}

// isspace matches the whitespace
// skipped by the lexer
func isspace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func nonblank(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isspace(s[i]) {
			n++
		}
	}
	return n
}

// isHint returns true for optimizer hints,
// which are kept even when comments are ignored
func isHint(text string) bool {
	return strings.HasPrefix(text, "/*+")
}

// blockComment rewrites a line comment
// into block form
func blockComment(text string) string {
	if !strings.HasPrefix(text, "--") {
		return text
	}
	body := strings.TrimSpace(strings.TrimPrefix(text, "--"))
	body = strings.ReplaceAll(body, "*/", "* /")
	if body == "" {
		return "/* */"
	}
	return "/* " + body + " */"
}

// collectComments builds the comment
// table for a token stream
func collectComments(toks []sqlparse.Token, ignore bool) *comments {
	c := &comments{}
	at := 0
	for i := range toks {
		t := &toks[i]
		if !t.Hidden() {
			at += nonblank(t.Text)
			continue
		}
		if ignore && !isHint(t.Text) {
			continue
		}
		c.record(at, blockComment(t.Text))
	}
	return c
}

// record adds a comment at position at;
// comments at the same position are
// concatenated in the order recorded
func (c *comments) record(at int, text string) {
	if n := len(c.list); n > 0 && c.list[n-1].at == at {
		c.list[n-1].text += " " + text
		return
	}
	c.list = append(c.list, comment{at: at, text: text})
}

// replay inserts the comments into
// rendered text. Comments are recorded
// in increasing position order.
func (c *comments) replay(text string) string {
	if len(c.list) == 0 {
		return text
	}
	var out strings.Builder
	out.Grow(len(text) + 64)
	next := 0
	at := 0
	insert := func(i int) {
		if out.Len() > 0 {
			s := out.String()
			if !isspace(s[len(s)-1]) {
				out.WriteByte(' ')
			}
		}
		out.WriteString(c.list[next].text)
		if i < len(text) && !isspace(text[i]) {
			out.WriteByte(' ')
		}
		next++
	}
	for i := 0; i < len(text); i++ {
		if !isspace(text[i]) {
			for next < len(c.list) && c.list[next].at <= at {
				insert(i)
			}
			at++
		}
		out.WriteByte(text[i])
	}
	for next < len(c.list) {
		insert(len(text))
	}
	return out.String()
}
