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
	"errors"
	"testing"
)

func TestTokens(t *testing.T) {
	src := "SELECT a.b, 'it''s', \"x\"\"y\", `z`, 1.5e3, 0xff, ? , @v, @@session.mode -- c\n/* d */ <=> <> != || >= x"
	want := []Token{
		{Ident, "SELECT", 0},
		{Ident, "a", 7},
		{Op, ".", 8},
		{Ident, "b", 9},
		{Op, ",", 10},
		{String, "'it''s'", 12},
		{Op, ",", 19},
		{QuotedIdent, `"x""y"`, 21},
		{Op, ",", 27},
		{QuotedIdent, "`z`", 29},
		{Op, ",", 32},
		{Number, "1.5e3", 34},
		{Op, ",", 39},
		{Number, "0xff", 41},
		{Op, ",", 45},
		{Param, "?", 47},
		{Op, ",", 49},
		{Variable, "@v", 51},
		{Op, ",", 53},
		{Variable, "@@session.mode", 55},
		{Comment, "-- c", 70},
		{Comment, "/* d */", 75},
		{Op, "<=>", 83},
		{Op, "<>", 87},
		{Op, "!=", 90},
		{Op, "||", 93},
		{Op, ">=", 96},
		{Ident, "x", 99},
		{EOF, "", 100},
	}
	got, err := Tokens([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTokensHidden(t *testing.T) {
	toks, err := Tokens([]byte("-- a\r\nSELECT /*+ hint */ 1"))
	if err != nil {
		t.Fatal(err)
	}
	var hidden []string
	for _, tok := range toks {
		if tok.Hidden() {
			hidden = append(hidden, tok.Text)
		}
	}
	if len(hidden) != 2 || hidden[0] != "-- a" || hidden[1] != "/*+ hint */" {
		t.Errorf("hidden tokens: %q", hidden)
	}
}

func TestLexerErrors(t *testing.T) {
	testcases := []struct {
		src string
		pos int
	}{
		{"SELECT 'abc", 7},
		{"SELECT \"abc", 7},
		{"SELECT /* abc", 7},
		{"SELECT 1abc", 7},
		{"SELECT #", 7},
	}
	for i := range testcases {
		_, err := Tokens([]byte(testcases[i].src))
		var le *LexerError
		if !errors.As(err, &le) {
			t.Errorf("%q: expected a LexerError, got %v", testcases[i].src, err)
			continue
		}
		if le.Position != testcases[i].pos {
			t.Errorf("%q: error at %d, want %d", testcases[i].src, le.Position, testcases[i].pos)
		}
	}
}

func TestPosition(t *testing.T) {
	lines := []string{
		"1234",
		"123456789_123456789_",
		"",
		"123456",
		"1",
	}
	var src []byte
	for _, line := range lines {
		src = append(src, line...)
		src = append(src, '\n')
	}
	pos := 0
	for line := range lines {
		for column := 0; column <= len(lines[line]); column++ {
			l, c, ok := position(src, pos)
			if !ok || c != column+1 || l != line+1 {
				t.Errorf("offset %d: got line %d column %d, want %d:%d", pos, l, c, line+1, column+1)
			}
			pos++
		}
	}
	if _, _, ok := position(src, len(src)+1); ok {
		t.Error("offset past the end accepted")
	}
}
