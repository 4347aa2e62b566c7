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
	"fmt"
	"io"
	"strings"
)

// Graphviz dumps the graph 'g'
// to 'dst' as dot(1)-compatible text.
//
// CTE definitions are drawn in their
// own cluster so that their references
// (dashed edges) stand out.
func Graphviz(g *Graph, dst io.Writer) error {
	_, err := io.WriteString(dst, "digraph plan {\nrankdir=BT;\nnode [shape=box];\n")
	if err != nil {
		return err
	}
	var ctes []*Node
	for _, n := range g.Nodes {
		if n.Type == CTE {
			ctes = append(ctes, n)
			continue
		}
		if err := gvnode(dst, n); err != nil {
			return err
		}
	}
	if len(ctes) > 0 {
		_, err = io.WriteString(dst, "subgraph cluster_cte {\n")
		if err != nil {
			return err
		}
		for _, n := range ctes {
			if err := gvnode(dst, n); err != nil {
				return err
			}
		}
		_, err = io.WriteString(dst, "label=\"WITH\";\ncolor=lightgrey;\n}\n")
		if err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		attrs := []string{}
		if e.Style != "solid" {
			attrs = append(attrs, "style="+e.Style)
		}
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		if len(attrs) > 0 {
			_, err = fmt.Fprintf(dst, "%q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			_, err = fmt.Fprintf(dst, "%q -> %q;\n", e.Source, e.Target)
		}
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(dst, "}\n")
	return err
}

func gvnode(dst io.Writer, n *Node) error {
	label := n.Label
	if len(n.Details) > 0 {
		label += "\n" + strings.Join(n.Details, "\n")
	}
	_, err := fmt.Fprintf(dst, "%q [label=%q];\n", n.ID, label)
	return err
}
