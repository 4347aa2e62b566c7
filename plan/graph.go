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
)

// NodeType is the kind of logical
// operator a Node represents.
type NodeType uint8

const (
	Scan NodeType = iota
	Project
	Filter
	Join
	Aggregate
	Sort
	Limit
	TopN
	Distinct
	Union
	Subquery
	CTE
	Window
	Result
)

var nodeTypeNames = [...]string{
	Scan:      "SCAN",
	Project:   "PROJECT",
	Filter:    "FILTER",
	Join:      "JOIN",
	Aggregate: "AGGREGATE",
	Sort:      "SORT",
	Limit:     "LIMIT",
	TopN:      "TOP_N",
	Distinct:  "DISTINCT",
	Union:     "UNION",
	Subquery:  "SUBQUERY",
	CTE:       "CTE",
	Window:    "WINDOW",
	Result:    "RESULT",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

func (t NodeType) MarshalText() ([]byte, error) {
	if int(t) >= len(nodeTypeNames) {
		return nil, fmt.Errorf("plan: unknown node type %d", int(t))
	}
	return []byte(nodeTypeNames[t]), nil
}

// EdgeType is the kind of relationship
// an Edge represents.
type EdgeType uint8

const (
	// Dataflow means the output of the source
	// node is consumed by the target node.
	Dataflow EdgeType = iota
	// CTEReference connects a CTE definition
	// to each scan that reads it. It does not
	// carry data for the purposes of RESULT wiring.
	CTEReference
	SubqueryReference
)

var edgeTypeNames = [...]string{
	Dataflow:          "DATAFLOW",
	CTEReference:      "CTE_REFERENCE",
	SubqueryReference: "SUBQUERY_REFERENCE",
}

func (t EdgeType) String() string {
	if int(t) < len(edgeTypeNames) {
		return edgeTypeNames[t]
	}
	return fmt.Sprintf("EdgeType(%d)", int(t))
}

func (t EdgeType) MarshalText() ([]byte, error) {
	if int(t) >= len(edgeTypeNames) {
		return nil, fmt.Errorf("plan: unknown edge type %d", int(t))
	}
	return []byte(edgeTypeNames[t]), nil
}

// Node is one logical operator.
type Node struct {
	ID    string   `json:"id"`
	Type  NodeType `json:"type"`
	Label string   `json:"label"`
	// Details are short, human-readable
	// annotations (truncated conditions,
	// column lists, ...)
	Details []string `json:"details"`
	// Fragment is the SQL text the
	// node was produced from.
	Fragment string            `json:"sqlFragment"`
	Data     map[string]string `json:"data,omitempty"`
}

func (n *Node) detail(s string) *Node {
	n.Details = append(n.Details, s)
	return n
}

// Edge is a directed connection
// between two nodes.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	Label  string   `json:"label,omitempty"`
	// Style is "solid" or "dashed"
	Style string `json:"style"`
}

// Graph is a directed acyclic graph
// of logical operators.
//
// Nodes and Edges are kept in the order
// they were created, which makes every
// encoding of a Graph deterministic.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	byID map[string]*Node
}

func newGraph() *Graph {
	return &Graph{
		Nodes: []*Node{},
		Edges: []*Edge{},
		byID:  make(map[string]*Node),
	}
}

// Node returns the node with the
// given id, or nil if there is none.
func (g *Graph) Node(id string) *Node {
	if g.byID == nil {
		g.index()
	}
	return g.byID[id]
}

func (g *Graph) index() {
	g.byID = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		g.byID[n.ID] = n
	}
}

// add inserts n unless a node
// with the same id is present
func (g *Graph) add(n *Node) *Node {
	if g.Node(n.ID) != nil {
		return n
	}
	if n.Details == nil {
		n.Details = []string{}
	}
	g.Nodes = append(g.Nodes, n)
	g.byID[n.ID] = n
	return n
}

func (g *Graph) connect(src, dst *Node, t EdgeType) *Edge {
	e := &Edge{
		ID:     fmt.Sprintf("edge_%d", len(g.Edges)),
		Source: src.ID,
		Target: dst.ID,
		Type:   t,
		Style:  "solid",
	}
	if t == CTEReference {
		e.Style = "dashed"
	}
	g.Edges = append(g.Edges, e)
	return e
}

// Outgoing returns the edges
// whose source is id.
func (g *Graph) Outgoing(id string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges
// whose target is id.
func (g *Graph) Incoming(id string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// Leaves returns the nodes that have
// no outgoing edges of any type.
// For a completed graph this is
// only the RESULT node.
func (g *Graph) Leaves() []*Node {
	hasOut := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		hasOut[e.Source] = true
	}
	var out []*Node
	for _, n := range g.Nodes {
		if !hasOut[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// Count returns the number of
// nodes of type t.
func (g *Graph) Count(t NodeType) int {
	c := 0
	for _, n := range g.Nodes {
		if n.Type == t {
			c++
		}
	}
	return c
}
