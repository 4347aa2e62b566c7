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
	"strings"
	"testing"
)

func TestListing(t *testing.T) {
	g := analyze(t, "SELECT * FROM users")
	want := "graph: 2 nodes, 1 edges\n" +
		"SCAN: 1\n" +
		"  - 0: SCAN [users]\n" +
		"RESULT: 1\n" +
		"  - result: RESULT\n" +
		"edges:\n" +
		"  0 -> result\n"
	if got := g.Listing(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	g = analyze(t, "WITH x AS (SELECT a FROM t) SELECT * FROM x")
	got := g.Listing()
	// nodes are grouped in type order
	if strings.Index(got, "SCAN: 2") > strings.Index(got, "CTE: 1") {
		t.Errorf("bad grouping:\n%s", got)
	}
	if !strings.Contains(got, "  cte_x -> 1 (CTE_REFERENCE)\n") {
		t.Errorf("missing reference edge:\n%s", got)
	}
}

func TestTree(t *testing.T) {
	g := analyze(t, "SELECT * FROM users")
	want := "└── RESULT (result)\n" +
		"    └── SCAN (0)\n"
	if got := g.Tree(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	g = analyze(t, "SELECT * FROM a JOIN b ON a.x = b.x")
	want = "└── RESULT (result)\n" +
		"    └── INNER JOIN (2)\n" +
		"        ├── SCAN (0)\n" +
		"        └── SCAN (1)\n"
	if got := g.Tree(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	// the CTE is reachable both from RESULT
	// and through each of its references
	g = analyze(t, "WITH x AS (SELECT a FROM t) SELECT * FROM x")
	if got := g.Tree(); !strings.Contains(got, "CTE (cte_x) (already visited)") {
		t.Errorf("no visited marker:\n%s", got)
	}
}

func TestGraphviz(t *testing.T) {
	g := analyze(t, "SELECT * FROM users")
	var out strings.Builder
	if err := Graphviz(g, &out); err != nil {
		t.Fatal(err)
	}
	want := "digraph plan {\nrankdir=BT;\nnode [shape=box];\n" +
		"\"0\" [label=\"SCAN\\nusers\"];\n" +
		"\"result\" [label=\"RESULT\"];\n" +
		"\"0\" -> \"result\";\n" +
		"}\n"
	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
	}

	g = analyze(t, "WITH x AS (SELECT a FROM t) SELECT * FROM x")
	out.Reset()
	if err := Graphviz(g, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "subgraph cluster_cte {\n\"cte_x\" [label=\"CTE\\nx\"];\n") {
		t.Errorf("no CTE cluster:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "\"cte_x\" -> \"1\" [style=dashed];\n") {
		t.Errorf("no dashed edge:\n%s", out.String())
	}
}

func TestMarshalIon(t *testing.T) {
	g := analyze(t, "SELECT * FROM a JOIN b ON a.x = b.x")
	buf, err := g.MarshalIon()
	if err != nil {
		t.Fatal(err)
	}
	text := string(buf)
	for _, want := range []string{"nodes", "edges", `"INNER JOIN"`, `"SCAN"`, `"result"`, `"DATAFLOW"`} {
		if !strings.Contains(text, want) {
			t.Errorf("ion text missing %s: %s", want, text)
		}
	}
}

func TestFingerprint(t *testing.T) {
	fp := func(q string) string {
		id, err := analyze(t, q).Fingerprint()
		if err != nil {
			t.Fatal(err)
		}
		return id.String()
	}
	a := fp("SELECT * FROM users")
	if b := fp("SELECT * FROM users"); a != b {
		t.Errorf("fingerprint not deterministic: %s != %s", a, b)
	}
	if c := fp("SELECT * FROM orders"); a == c {
		t.Error("different queries share a fingerprint")
	}
}
