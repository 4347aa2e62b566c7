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
	"strings"
	"testing"

	"github.com/SnellerInc/sqlfmt/expr"
)

// TestParseString checks that every query
// parses and prints back in its compact form
func TestParseString(t *testing.T) {
	testcases := []struct {
		in, want string
	}{
		{"select * from users", "SELECT * FROM users"},
		{"SELECT a AS x, b y FROM t AS u", "SELECT a AS x, b y FROM t AS u"},
		{
			"SELECT u.name FROM users u INNER JOIN orders o ON u.id = o.user_id",
			"SELECT u.name FROM users u INNER JOIN orders o ON u.id = o.user_id",
		},
		{
			"SELECT * FROM a LEFT OUTER JOIN b USING (x, y) CROSS JOIN c",
			"SELECT * FROM a LEFT OUTER JOIN b USING (x, y) CROSS JOIN c",
		},
		{
			"with recursive x (a) as (select 1) select a from x",
			"WITH RECURSIVE x (a) AS (SELECT 1) SELECT a FROM x",
		},
		{
			"SELECT a FROM t WHERE a IN (1, 2) AND b NOT BETWEEN 1 AND 2 OR c IS NOT NULL",
			"SELECT a FROM t WHERE a IN (1, 2) AND b NOT BETWEEN 1 AND 2 OR c IS NOT NULL",
		},
		{
			"SELECT COUNT(DISTINCT a), SUM(b) OVER (PARTITION BY c ORDER BY d DESC) FROM t GROUP BY e HAVING COUNT(*) > 1",
			"SELECT COUNT(DISTINCT a), SUM(b) OVER (PARTITION BY c ORDER BY d DESC) FROM t GROUP BY e HAVING COUNT(*) > 1",
		},
		{
			"SELECT CASE WHEN a THEN 1 ELSE 2 END, CAST(x AS VARCHAR(10)), EXTRACT(YEAR FROM d) FROM t",
			"SELECT CASE WHEN a THEN 1 ELSE 2 END, CAST(x AS VARCHAR(10)), EXTRACT(YEAR FROM d) FROM t",
		},
		{
			"SELECT a FROM t UNION ALL SELECT b FROM u ORDER BY 1 LIMIT 10 OFFSET 5",
			"SELECT a FROM t UNION ALL SELECT b FROM u ORDER BY 1 LIMIT 10 OFFSET 5",
		},
		{"SELECT a FROM t LIMIT 5, 10", "SELECT a FROM t LIMIT 5, 10"},
		{"SELECT t.* FROM t", "SELECT t.* FROM t"},
		{"SELECT DATE '2020-01-01', INTERVAL 2 DAY, -x, a || b FROM t", "SELECT DATE '2020-01-01', INTERVAL 2 DAY, -x, a || b FROM t"},
		{
			"SELECT * FROM t WHERE EXISTS (SELECT 1 FROM u) AND x IN (SELECT y FROM v)",
			"SELECT * FROM t WHERE EXISTS (SELECT 1 FROM u) AND x IN (SELECT y FROM v)",
		},
		{
			"SELECT a FROM t GROUP BY GROUPING SETS ((a), ())",
			"SELECT a FROM t GROUP BY GROUPING SETS((a), ())",
		},
	}
	for i := range testcases {
		q, err := ParseQuery([]byte(testcases[i].in))
		if err != nil {
			t.Errorf("%q: %s", testcases[i].in, err)
			continue
		}
		if got := expr.ToString(q); got != testcases[i].want {
			t.Errorf("got  %s", got)
			t.Errorf("want %s", testcases[i].want)
		}
	}
}

func TestParseStatements(t *testing.T) {
	s, err := ParseScript([]byte("EXPLAIN SELECT 1; ; INSERT INTO db.t (a) SELECT a FROM u"))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Statements) != 3 {
		t.Fatalf("got %d statements", len(s.Statements))
	}
	if st := s.Statements[0]; len(st.Explain) != 1 || !st.Semicolon || st.Body == nil {
		t.Errorf("bad EXPLAIN statement %+v", st)
	}
	if !s.Statements[1].Empty() {
		t.Errorf("expected an empty statement, got %+v", s.Statements[1])
	}
	ins := s.Statements[2].Insert
	if ins == nil || ins.Table != "db.t" || len(ins.Columns) != 1 || s.Statements[2].Semicolon {
		t.Errorf("bad INSERT statement %+v", s.Statements[2])
	}
}

func TestParseJoinTree(t *testing.T) {
	q, err := ParseQuery([]byte("SELECT * FROM a JOIN b ON a.x = b.x LEFT JOIN c ON b.y = c.y, d"))
	if err != nil {
		t.Fatal(err)
	}
	from := q.Body.(*expr.Select).From
	if len(from.Relations) != 2 {
		t.Fatalf("got %d relations", len(from.Relations))
	}
	jt, ok := from.Relations[0].(*expr.JoinTree)
	if !ok {
		t.Fatalf("got %T", from.Relations[0])
	}
	if len(jt.Joins) != 2 {
		t.Fatalf("got %d joins", len(jt.Joins))
	}
	if got := jt.Joins[0].Type(); got != "INNER" {
		t.Errorf("first join type %q", got)
	}
	if got := jt.Joins[1].Type(); got != "LEFT" {
		t.Errorf("second join type %q", got)
	}
	if tbl, ok := from.Relations[1].(*expr.Table); !ok || tbl.Name != "d" {
		t.Errorf("second relation %#v", from.Relations[1])
	}
}

func TestSyntaxErrors(t *testing.T) {
	res := Parse([]byte("SELECT FROM t;\nSELECT 1;\nSELECT a FROM WHERE"))
	if !res.Errors.HasErrors() {
		t.Fatal("expected errors")
	}
	msgs := res.Errors.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages: %q", len(msgs), msgs)
	}
	if !strings.HasPrefix(msgs[0], "line 1:8: ") {
		t.Errorf("first message %q", msgs[0])
	}
	if !strings.HasPrefix(msgs[1], "line 3:15: ") {
		t.Errorf("second message %q", msgs[1])
	}
	err := res.Err()
	var se *SyntaxError
	if !errors.As(err, &se) || len(se.Messages) != 2 {
		t.Fatalf("unexpected error %v", err)
	}
	if err.Error() != strings.Join(msgs, "\n") {
		t.Errorf("error text %q", err.Error())
	}

	res = Parse([]byte("SELECT 'abc"))
	if !res.Errors.HasErrors() || len(res.Script.Statements) != 0 {
		t.Errorf("lexer error not reported: %+v", res.Errors.Messages())
	}

	if _, err := ParseQuery([]byte("SELECT 1; SELECT 2")); err == nil {
		t.Error("expected an error for two queries")
	}
}

func TestNoErrors(t *testing.T) {
	res := Parse([]byte("SELECT 1"))
	if res.Errors.HasErrors() || res.Err() != nil {
		t.Errorf("unexpected errors %q", res.Errors.Messages())
	}
	var nilList *ErrorList
	if nilList.HasErrors() {
		t.Error("nil list has errors")
	}
}
