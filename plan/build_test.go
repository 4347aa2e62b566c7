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

package plan

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/SnellerInc/sqlfmt/expr/sqlparse"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

func analyze(t *testing.T, query string) *Graph {
	t.Helper()
	g, err := Analyze([]byte(query))
	if err != nil {
		t.Fatalf("%s: %s", query, err)
	}
	return g
}

// labels returns the labels of the
// nodes of g in creation order
func labels(g *Graph) string {
	var out []string
	for _, n := range g.Nodes {
		out = append(out, n.Label)
	}
	return strings.Join(out, ", ")
}

func edge(t *testing.T, g *Graph, src, dst string, et EdgeType) {
	t.Helper()
	for _, e := range g.Edges {
		if e.Source == src && e.Target == dst && e.Type == et {
			return
		}
	}
	t.Errorf("no %s edge %s -> %s", et, src, dst)
}

// compareJSON compares the JSON encoding
// of g with the JSON text want
func compareJSON(t *testing.T, g *Graph, want string) {
	t.Helper()
	var wantobj, gotobj map[string]interface{}
	if err := json.Unmarshal([]byte(want), &wantobj); err != nil {
		t.Fatal(err)
	}
	buf, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(buf, &gotobj); err != nil {
		t.Fatal(err)
	}
	diff := gojsondiff.New().CompareObjects(wantobj, gotobj)
	if diff.Modified() {
		f := formatter.NewAsciiFormatter(wantobj, formatter.AsciiFormatterDefaultConfig)
		delta, _ := f.Format(diff)
		t.Errorf("graph mismatch:\n%s", delta)
	}
}

func TestSingleScan(t *testing.T) {
	g := analyze(t, "SELECT * FROM users")
	compareJSON(t, g, `{
  "nodes": [
    {"id": "0", "type": "SCAN", "label": "SCAN", "details": ["users"], "sqlFragment": "FROM users"},
    {"id": "result", "type": "RESULT", "label": "RESULT", "details": [], "sqlFragment": "Query Result"}
  ],
  "edges": [
    {"id": "edge_0", "source": "0", "target": "result", "type": "DATAFLOW", "style": "solid"}
  ]
}`)
}

func TestInnerJoin(t *testing.T) {
	g := analyze(t, "SELECT u.name, o.amount FROM users u INNER JOIN orders o ON u.id = o.user_id")
	compareJSON(t, g, `{
  "nodes": [
    {"id": "0", "type": "SCAN", "label": "SCAN", "details": ["users (u)"], "sqlFragment": "FROM users AS u"},
    {"id": "1", "type": "SCAN", "label": "SCAN", "details": ["orders (o)"], "sqlFragment": "FROM orders AS o"},
    {"id": "2", "type": "JOIN", "label": "INNER JOIN", "details": ["u.id = o.user_id"],
     "sqlFragment": "JOIN CONDITION: u.id = o.user_id", "data": {"joinType": "INNER"}},
    {"id": "result", "type": "RESULT", "label": "RESULT", "details": [], "sqlFragment": "Query Result"}
  ],
  "edges": [
    {"id": "edge_0", "source": "0", "target": "2", "type": "DATAFLOW", "style": "solid"},
    {"id": "edge_1", "source": "1", "target": "2", "type": "DATAFLOW", "style": "solid"},
    {"id": "edge_2", "source": "2", "target": "result", "type": "DATAFLOW", "style": "solid"}
  ]
}`)
	if n := len(g.Incoming("2")); n != 2 {
		t.Errorf("JOIN has %d inputs", n)
	}
}

func TestQueryShapes(t *testing.T) {
	testcases := []struct {
		query  string
		labels string
	}{
		{
			query:  "SELECT * FROM a, b",
			labels: "SCAN, SCAN, JOIN (CROSS), RESULT",
		},
		{
			query:  "SELECT * FROM a LEFT OUTER JOIN b USING (id) CROSS JOIN c",
			labels: "SCAN, SCAN, LEFT OUTER JOIN, SCAN, CROSS JOIN, RESULT",
		},
		{
			query:  "SELECT dept, COUNT(*) FROM emp WHERE age > 30 GROUP BY dept HAVING COUNT(*) > 1",
			labels: "SCAN, FILTER (WHERE), AGGREGATE, FILTER (HAVING), PROJECT, RESULT",
		},
		{
			query:  "SELECT SUM(x) FROM t",
			labels: "SCAN, AGGREGATE, PROJECT, RESULT",
		},
		{
			query:  "SELECT DISTINCT a, ROW_NUMBER() OVER (ORDER BY a) FROM t",
			labels: "SCAN, DISTINCT, PROJECT, WINDOW, RESULT",
		},
		{
			query:  "SELECT a FROM t ORDER BY a DESC",
			labels: "SCAN, SORT, RESULT",
		},
		{
			query:  "SELECT a FROM t LIMIT 5",
			labels: "SCAN, LIMIT, RESULT",
		},
		{
			query:  "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY a LIMIT 3",
			labels: "SCAN, SCAN, UNION, TOP_N, RESULT",
		},
		{
			query:  "SELECT * FROM (SELECT a FROM t) AS x",
			labels: "SUBQUERY, SCAN, RESULT",
		},
		{
			query:  "EXPLAIN SELECT a FROM t; INSERT INTO u SELECT b FROM v",
			labels: "SCAN, SCAN, RESULT",
		},
		{
			query:  "SELECT 1",
			labels: "PROJECT, RESULT",
		},
	}
	for i := range testcases {
		g := analyze(t, testcases[i].query)
		if got := labels(g); got != testcases[i].labels {
			t.Errorf("%s:\ngot  %s\nwant %s", testcases[i].query, got, testcases[i].labels)
		}
	}
}

func TestNodeDetails(t *testing.T) {
	g := analyze(t, "SELECT dept, COUNT(*) FROM emp GROUP BY dept HAVING COUNT(*) > 1")
	agg := g.Node("1")
	if agg == nil || agg.Type != Aggregate {
		t.Fatalf("node 1 is %+v", agg)
	}
	want := []string{"GROUP BY: dept", "AGG: COUNT(...)"}
	if strings.Join(agg.Details, "|") != strings.Join(want, "|") {
		t.Errorf("aggregate details %q", agg.Details)
	}
	if h := g.Node("2"); h.Details[0] != "COUNT(*) > 1" {
		t.Errorf("having details %q", h.Details)
	}

	g = analyze(t, "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY a LIMIT 3")
	if u := g.Node("2"); u.Type != Union || u.Details[0] != "UNION ALL" {
		t.Errorf("union node %+v", u)
	}
	if top := g.Node("3"); strings.Join(top.Details, "|") != "a|LIMIT 3" {
		t.Errorf("top-n details %q", top.Details)
	}

	g = analyze(t, "SELECT * FROM t WHERE description = 'a fairly long string literal that will not fit'")
	detail := g.Node("1").Details[0]
	if !strings.HasSuffix(detail, "...") || len([]rune(detail)) != maxDetail+3 {
		t.Errorf("condition not truncated: %q", detail)
	}
}

func TestCTE(t *testing.T) {
	g := analyze(t, "WITH x AS (SELECT a FROM t) SELECT * FROM x JOIN x AS y ON x.a = y.a")
	if got := labels(g); got != "CTE, SCAN, SCAN, SCAN, INNER JOIN, RESULT" {
		t.Fatalf("got %s", got)
	}
	edge(t, g, "0", "cte_x", Dataflow)
	edge(t, g, "cte_x", "1", CTEReference)
	edge(t, g, "cte_x", "2", CTEReference)
	for _, e := range g.Outgoing("cte_x") {
		if e.Type == CTEReference && e.Style != "dashed" {
			t.Errorf("edge %s has style %s", e.ID, e.Style)
		}
	}
	if d := g.Node("1").Details[0]; d != "x (x)" {
		t.Errorf("cte scan detail %q", d)
	}
	if d := g.Node("2").Details[0]; d != "x (y)" {
		t.Errorf("aliased cte scan detail %q", d)
	}
	// the CTE has no outgoing DATAFLOW edge
	edge(t, g, "cte_x", "result", Dataflow)
	edge(t, g, "3", "result", Dataflow)
}

func TestCTERedefinition(t *testing.T) {
	g := analyze(t, "WITH a AS (SELECT 1), a AS (SELECT 2) SELECT * FROM a")
	if g.Node("cte_a") == nil || g.Node("cte_a_1") == nil {
		t.Fatalf("nodes: %s", labels(g))
	}
	edge(t, g, "cte_a_1", "2", CTEReference)
	for _, e := range g.Outgoing("cte_a") {
		if e.Type == CTEReference {
			t.Errorf("first definition is still referenced by %s", e.Target)
		}
	}
}

func TestRecursiveCTE(t *testing.T) {
	g := analyze(t, "WITH RECURSIVE r AS (SELECT 1 UNION ALL SELECT n FROM r) SELECT * FROM r")
	checkDAG(t, g)
	if n := g.Count(Scan); n != 2 {
		t.Errorf("got %d scans", n)
	}
}

func TestExpressionSubqueries(t *testing.T) {
	g := analyze(t, "SELECT * FROM t1 WHERE id IN (SELECT id FROM t2)")
	if got := labels(g); got != "SCAN, FILTER (WHERE), SUBQUERY (IN), SCAN, RESULT" {
		t.Fatalf("got %s", got)
	}
	edge(t, g, "2", "1", Dataflow)
	edge(t, g, "3", "2", Dataflow)
	edge(t, g, "1", "result", Dataflow)

	g = analyze(t, "SELECT a, (SELECT MAX(b) FROM u) AS m FROM t WHERE EXISTS (SELECT 1 FROM v)")
	want := "SCAN, FILTER (WHERE), SUBQUERY (EXISTS), SCAN, PROJECT, PROJECT, SUBQUERY (SCALAR), SCAN, AGGREGATE, PROJECT, RESULT"
	if got := labels(g); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	edge(t, g, "2", "1", Dataflow)
	edge(t, g, "4", "2", Dataflow)
	edge(t, g, "6", "5", Dataflow)
	edge(t, g, "9", "6", Dataflow)
	if n := len(g.Incoming("result")); n != 1 {
		t.Errorf("RESULT has %d inputs", n)
	}

	// subqueries in join conditions and ORDER BY
	g = analyze(t, "SELECT * FROM a JOIN b ON a.x = (SELECT MIN(x) FROM c) ORDER BY (SELECT 1)")
	checkDAG(t, g)
	if n := g.Count(Subquery); n != 2 {
		t.Errorf("got %d subqueries", n)
	}
}

// checkDAG verifies that g has exactly one
// RESULT node, that every other node has
// an outgoing edge, and that g is acyclic
func checkDAG(t *testing.T, g *Graph) {
	t.Helper()
	if n := g.Count(Result); n != 1 {
		t.Errorf("%d RESULT nodes", n)
	}
	for _, n := range g.Nodes {
		if n.Type != Result && len(g.Outgoing(n.ID)) == 0 {
			t.Errorf("node %s (%s) has no outgoing edges", n.ID, n.Label)
		}
	}
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case active:
			return false
		case done:
			return true
		}
		state[id] = active
		for _, e := range g.Outgoing(id) {
			if !visit(e.Target) {
				return false
			}
		}
		state[id] = done
		return true
	}
	for _, n := range g.Nodes {
		if !visit(n.ID) {
			t.Fatalf("cycle through node %s", n.ID)
		}
	}
}

func TestAcyclic(t *testing.T) {
	queries := []string{
		"SELECT * FROM users",
		"SELECT a FROM t WHERE b IN (SELECT b FROM u WHERE c IN (SELECT c FROM v))",
		"WITH x AS (SELECT * FROM t), y AS (SELECT * FROM x) SELECT * FROM x, y",
		"WITH RECURSIVE x AS (SELECT 1 UNION SELECT n FROM x) SELECT * FROM x",
		"(SELECT a FROM t) UNION (SELECT a FROM u ORDER BY a LIMIT 1) EXCEPT SELECT a FROM v",
		"SELECT * FROM (SELECT * FROM (SELECT a FROM t) AS p) AS q JOIN r ON q.a = r.a",
		"SELECT a, SUM(b) OVER (PARTITION BY c) FROM t GROUP BY a HAVING EXISTS (SELECT 1 FROM u)",
		"SELECT 1; SELECT 2; ;",
	}
	for _, q := range queries {
		checkDAG(t, analyze(t, q))
	}
}

func TestAnalysisErrors(t *testing.T) {
	_, err := Analyze([]byte("SELECT FROM t"))
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("got error %v", err)
	}
	var se *sqlparse.SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("syntax error not wrapped: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "failed to analyze SQL DAG: line 1:8: ") {
		t.Errorf("unexpected message %q", err.Error())
	}

	if _, err := Build(nil); !errors.As(err, &ae) {
		t.Errorf("Build(nil) returned %v", err)
	}

	deep := "SELECT * FROM t"
	for i := 0; i < maxNesting+4; i++ {
		deep = "SELECT * FROM (" + deep + ") AS x"
	}
	if _, err := Analyze([]byte(deep)); !errors.As(err, &ae) {
		t.Errorf("deeply nested query returned %v", err)
	}
}
