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
)

func TestNormalize(t *testing.T) {
	testcases := []struct {
		name, in, want string
	}{
		{
			name: "escapes",
			in:   `SELECT \n xx FROM t1 WHERE name = \'test\'`,
			want: "SELECT \n xx FROM t1 WHERE name = 'test'",
		},
		{
			name: "literals untouched",
			in:   `SELECT * FROM t WHERE name = 'John\nDoe' AND value = "Hello\tWorld"`,
			want: `SELECT * FROM t WHERE name = 'John\nDoe' AND value = "Hello\tWorld"`,
		},
		{
			name: "entities",
			in:   "SELECT * FROM t WHERE name = &quot;John&quot; AND age &lt; 30",
			want: `SELECT * FROM t WHERE name = "John" AND age < 30`,
		},
		{
			name: "entities in literals",
			in:   "SELECT * FROM t WHERE name = 'John &amp; Jane'",
			want: "SELECT * FROM t WHERE name = 'John &amp; Jane'",
		},
		{
			name: "numeric entities",
			in:   "SELECT * FROM t WHERE c = &#65; AND d = &#x42;",
			want: "SELECT * FROM t WHERE c = A AND d = B",
		},
		{
			name: "special entities",
			in:   "SELECT * FROM t WHERE space = &nbsp; AND quote = &#39;",
			want: "SELECT * FROM t WHERE space =   AND quote = '",
		},
		{
			name: "control characters",
			in:   "SELECT\r\n*\rFROM\tt\nWHERE\rname = 'test'",
			want: "SELECT\n*\nFROM    t\nWHERE\nname = 'test'",
		},
		{
			name: "blank lines",
			in:   "SELECT *\n\n\nFROM t\n\n\n\nWHERE x = 1",
			want: "SELECT *\n\nFROM t\n\nWHERE x = 1",
		},
		{
			name: "zero width",
			in:   "SELECT\u200b*\u200cFROM\u200dt\ufeffWHERE x = 1",
			want: "SELECT*FROMtWHERE x = 1",
		},
		{
			name: "doubled quotes",
			in:   `SELECT 'John''s' AS "a""b"`,
			want: `SELECT 'John''s' AS "a""b"`,
		},
		{
			name: "empty",
		},
	}
	for i := range testcases {
		tc := &testcases[i]
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("got  %q", got)
				t.Errorf("want %q", tc.want)
			}
		})
	}
}

func TestFormatNormalizeMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeNormalize
	// normalize mode never parses, so
	// invalid SQL is not an error
	got, err := Format([]byte("SELECT FROM &lt;"), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got != "SELECT FROM <" {
		t.Errorf("got %q", got)
	}
}
