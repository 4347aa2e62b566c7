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
	"testing"

	"github.com/SnellerInc/sqlfmt/expr/sqlparse"
)

func TestBlockComment(t *testing.T) {
	testcases := []struct {
		in, want string
	}{
		{"-- note", "/* note */"},
		{"--note  ", "/* note */"},
		{"--", "/* */"},
		{"-- a */ b", "/* a * / b */"},
		{"/* kept */", "/* kept */"},
	}
	for i := range testcases {
		if got := blockComment(testcases[i].in); got != testcases[i].want {
			t.Errorf("%q: got %q, want %q", testcases[i].in, got, testcases[i].want)
		}
	}
}

func TestCollectComments(t *testing.T) {
	toks, err := sqlparse.Tokens([]byte("/* a */ SELECT /* b */ -- c\n x, 'p q' /*+ hint */ FROM t -- d"))
	if err != nil {
		t.Fatal(err)
	}
	c := collectComments(toks, false)
	want := []comment{
		{at: 0, text: "/* a */"},
		{at: 6, text: "/* b */ /* c */"},
		{at: 12, text: "/*+ hint */"},
		{at: 17, text: "/* d */"},
	}
	if len(c.list) != len(want) {
		t.Fatalf("got %+v", c.list)
	}
	for i := range want {
		if c.list[i] != want[i] {
			t.Errorf("comment %d: got %+v, want %+v", i, c.list[i], want[i])
		}
	}

	c = collectComments(toks, true)
	if len(c.list) != 1 || c.list[0].text != "/*+ hint */" {
		t.Errorf("ignoring comments kept %+v", c.list)
	}
}

func TestReplay(t *testing.T) {
	c := &comments{}
	c.record(0, "/* a */")
	c.record(6, "/* b */")
	c.record(11, "/* c */")
	got := c.replay("SELECT\n    x\nFROM t")
	want := "/* a */ SELECT\n    /* b */ x\nFROM /* c */ t"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// comments past the end are appended
	c = &comments{}
	c.record(1, "/* end */")
	if got := c.replay("x"); got != "x /* end */" {
		t.Errorf("got %q", got)
	}
}
