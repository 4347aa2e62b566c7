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
	"fmt"
	"strings"

	"github.com/amazon-ion/ion-go/ion"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Listing returns a human-readable
// description of g with the nodes
// grouped by type, followed by the edges.
func (g *Graph) Listing() string {
	var dst strings.Builder
	fmt.Fprintf(&dst, "graph: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
	nodes := slices.Clone(g.Nodes)
	slices.SortStableFunc(nodes, func(a, b *Node) bool {
		return a.Type < b.Type
	})
	for i, n := range nodes {
		if i == 0 || nodes[i-1].Type != n.Type {
			fmt.Fprintf(&dst, "%s: %d\n", n.Type, g.Count(n.Type))
		}
		fmt.Fprintf(&dst, "  - %s: %s", n.ID, n.Label)
		if len(n.Details) > 0 {
			fmt.Fprintf(&dst, " [%s]", strings.Join(n.Details, "; "))
		}
		dst.WriteByte('\n')
	}
	dst.WriteString("edges:\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&dst, "  %s -> %s", e.Source, e.Target)
		if e.Type != Dataflow {
			fmt.Fprintf(&dst, " (%s)", e.Type)
		}
		if e.Label != "" {
			fmt.Fprintf(&dst, " %q", e.Label)
		}
		dst.WriteByte('\n')
	}
	return dst.String()
}

// Tree returns g as an ASCII tree that
// starts at the nodes without outgoing
// edges (normally just RESULT) and walks
// backwards towards the scans.
// A node reachable along more than one path
// is printed in full only once; later
// occurrences are marked "(already visited)".
func (g *Graph) Tree() string {
	var dst strings.Builder
	leaves := g.Leaves()
	if len(leaves) == 0 {
		dst.WriteString("(no leaf nodes)\n")
		return dst.String()
	}
	visited := make(map[string]bool)
	for i, n := range leaves {
		g.tree(&dst, n, "", i == len(leaves)-1, visited)
	}
	return dst.String()
}

func (g *Graph) tree(dst *strings.Builder, n *Node, prefix string, last bool, visited map[string]bool) {
	branch := "├── "
	if last {
		branch = "└── "
	}
	fmt.Fprintf(dst, "%s%s%s (%s)", prefix, branch, n.Label, n.ID)
	if visited[n.ID] {
		dst.WriteString(" (already visited)\n")
		return
	}
	dst.WriteByte('\n')
	visited[n.ID] = true
	if last {
		prefix += "    "
	} else {
		prefix += "│   "
	}
	in := g.Incoming(n.ID)
	for i, e := range in {
		if src := g.Node(e.Source); src != nil {
			g.tree(dst, src, prefix, i == len(in)-1, visited)
		}
	}
}

type ionNode struct {
	ID       string            `ion:"id"`
	Type     string            `ion:"type"`
	Label    string            `ion:"label"`
	Details  []string          `ion:"details"`
	Fragment string            `ion:"sqlFragment"`
	Data     map[string]string `ion:"data"`
}

type ionEdge struct {
	ID     string `ion:"id"`
	Source string `ion:"source"`
	Target string `ion:"target"`
	Type   string `ion:"type"`
	Label  string `ion:"label"`
	Style  string `ion:"style"`
}

type ionGraph struct {
	Nodes []ionNode `ion:"nodes"`
	Edges []ionEdge `ion:"edges"`
}

// MarshalIon returns g encoded as
// an Ion text struct with the same
// fields as the JSON encoding.
func (g *Graph) MarshalIon() ([]byte, error) {
	out := ionGraph{
		Nodes: make([]ionNode, 0, len(g.Nodes)),
		Edges: make([]ionEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		data := n.Data
		if data == nil {
			data = map[string]string{}
		}
		out.Nodes = append(out.Nodes, ionNode{
			ID:       n.ID,
			Type:     n.Type.String(),
			Label:    n.Label,
			Details:  n.Details,
			Fragment: n.Fragment,
			Data:     data,
		})
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, ionEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   e.Type.String(),
			Label:  e.Label,
			Style:  e.Style,
		})
	}
	return ion.MarshalText(&out)
}

// fingerprintSpace is the namespace
// for Graph.Fingerprint
var fingerprintSpace = uuid.MustParse("5b0f7c3e-2d4a-4e8b-9a61-0c7e3f9d2a14")

// Fingerprint returns a name-based (version 5)
// UUID computed from the JSON encoding of g.
// Queries with the same operator structure
// and SQL text have the same fingerprint.
func (g *Graph) Fingerprint() (uuid.UUID, error) {
	buf, err := json.Marshal(g)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(fingerprintSpace, buf), nil
}
