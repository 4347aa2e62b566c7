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
	"strconv"
	"strings"

	"github.com/SnellerInc/sqlfmt/expr"
	"github.com/SnellerInc/sqlfmt/expr/sqlparse"
)

const (
	// maximum number of runes in a node detail
	maxDetail = 50
	// maximum number of nested subqueries and CTEs
	maxNesting = 64
)

// scope is the stack of nodes that receive
// the output of the query currently being
// analyzed; it is threaded through the walk
// as an immutable list
type scope struct {
	sink *Node
	up   *scope
}

func (s *scope) push(n *Node) *scope {
	return &scope{sink: n, up: s}
}

func (s *scope) top() *Node {
	if s == nil {
		return nil
	}
	return s.sink
}

func (s *scope) depth() int {
	d := 0
	for ; s != nil; s = s.up {
		d++
	}
	return d
}

type builder struct {
	graph *Graph
	// ctes maps CTE names to their definitions;
	// a later definition of the same name
	// replaces an earlier one
	ctes map[string]*Node
	next int
}

// Build produces the operator graph
// for every query in s.
//
// The returned graph always contains
// exactly one RESULT node, and every
// other node has at least one outgoing edge.
func Build(s *expr.Script) (*Graph, error) {
	if s == nil {
		return nil, &AnalysisError{Err: fmt.Errorf("no statements")}
	}
	b := &builder{
		graph: newGraph(),
		ctes:  make(map[string]*Node),
	}
	for i, st := range s.Statements {
		if st.Body == nil {
			continue
		}
		if _, err := b.query(st.Body, nil); err != nil {
			return nil, &AnalysisError{Err: fmt.Errorf("statement %d: %w", i+1, err)}
		}
	}
	b.finish()
	return b.graph, nil
}

// Analyze parses src and calls Build
// on the result. Syntax errors are
// returned wrapped in an *AnalysisError.
func Analyze(src []byte) (*Graph, error) {
	res := sqlparse.Parse(src)
	if err := res.Err(); err != nil {
		return nil, &AnalysisError{Err: err}
	}
	return Build(res.Script)
}

func (b *builder) node(t NodeType, label string) *Node {
	n := &Node{
		ID:    strconv.Itoa(b.next),
		Type:  t,
		Label: label,
	}
	b.next++
	return b.graph.add(n)
}

// then creates a node fed by cur (if present)
func (b *builder) then(cur *Node, t NodeType, label string) *Node {
	n := b.node(t, label)
	if cur != nil {
		b.graph.connect(cur, n, Dataflow)
	}
	return n
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetail {
		return s
	}
	return string(r[:maxDetail]) + "..."
}

func joinText[T expr.Printable](lst []T) string {
	var parts []string
	for i := range lst {
		parts = append(parts, expr.ToString(lst[i]))
	}
	return strings.Join(parts, ", ")
}

// query analyzes q and connects its
// terminal node to the sink on top of sc
func (b *builder) query(q *expr.Query, sc *scope) (*Node, error) {
	if sc.depth() > maxNesting {
		return nil, fmt.Errorf("subqueries nested more than %d levels deep", maxNesting)
	}
	n, err := b.chain(q, sc)
	if err != nil {
		return nil, err
	}
	if sink := sc.top(); sink != nil && n != nil {
		b.graph.connect(n, sink, Dataflow)
	}
	return n, nil
}

// chain analyzes q and returns its terminal node
func (b *builder) chain(q *expr.Query, sc *scope) (*Node, error) {
	if q.With != nil {
		for _, c := range q.With.CTEs {
			if err := b.cte(c, sc); err != nil {
				return nil, err
			}
		}
	}
	cur, err := b.body(q.Body, sc)
	if err != nil {
		return nil, err
	}
	var sorted *Node
	switch {
	case q.OrderBy != nil && q.Limit != nil:
		sorts := joinText(q.OrderBy.Items)
		lim := expr.ToString(q.Limit)
		cur = b.then(cur, TopN, "TOP_N").detail(sorts).detail(lim)
		cur.Fragment = "ORDER BY " + sorts + "\n" + lim
		sorted = cur
	case q.OrderBy != nil:
		sorts := joinText(q.OrderBy.Items)
		cur = b.then(cur, Sort, "SORT").detail(sorts)
		cur.Fragment = "ORDER BY " + sorts
		sorted = cur
	case q.Limit != nil:
		lim := expr.ToString(q.Limit)
		cur = b.then(cur, Limit, "LIMIT").detail(lim)
		cur.Fragment = lim
	}
	if sorted != nil {
		for _, it := range q.OrderBy.Items {
			if err := b.subqueries(it.Expr, sorted, sc); err != nil {
				return nil, err
			}
		}
	}
	return cur, nil
}

func (b *builder) cte(c *expr.CTE, sc *scope) error {
	id := "cte_" + c.Name
	for i := 1; b.graph.Node(id) != nil; i++ {
		id = fmt.Sprintf("cte_%s_%d", c.Name, i)
	}
	n := b.graph.add(&Node{
		ID:       id,
		Type:     CTE,
		Label:    "CTE",
		Details:  []string{c.Name},
		Fragment: "WITH " + c.Name + " AS (...)",
	})
	if _, err := b.query(c.Query, sc.push(n)); err != nil {
		return fmt.Errorf("CTE %s: %w", c.Name, err)
	}
	// the name is visible only after the body,
	// so a recursive reference reads the base table
	// instead of creating a cycle
	b.ctes[c.Name] = n
	return nil
}

func (b *builder) body(n expr.Node, sc *scope) (*Node, error) {
	switch n := n.(type) {
	case *expr.Select:
		return b.selectBlock(n, sc)
	case *expr.ParenQuery:
		return b.chain(n.Query, sc)
	case *expr.SetOp:
		left, err := b.body(n.Left, sc)
		if err != nil {
			return nil, err
		}
		right, err := b.body(n.Right, sc)
		if err != nil {
			return nil, err
		}
		kind := n.Kind()
		u := b.node(Union, "UNION").detail(kind)
		u.Fragment = kind
		if left != nil {
			b.graph.connect(left, u, Dataflow)
		}
		if right != nil {
			b.graph.connect(right, u, Dataflow)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unexpected query body %T", n)
	}
}

func (b *builder) selectBlock(s *expr.Select, sc *scope) (*Node, error) {
	var cur *Node
	var err error
	if s.From != nil {
		cur, err = b.relations(s.From.Relations, sc)
		if err != nil {
			return nil, err
		}
	}
	if s.Where != nil {
		cond := expr.ToString(s.Where.Expr)
		cur = b.then(cur, Filter, "FILTER (WHERE)").detail(truncate(cond))
		cur.Fragment = "WHERE " + cond
		if err := b.subqueries(s.Where.Expr, cur, sc); err != nil {
			return nil, err
		}
	}
	if aggs := aggregates(s); s.GroupBy != nil || len(aggs) > 0 {
		cur = b.then(cur, Aggregate, "AGGREGATE")
		var frag []string
		if s.GroupBy != nil {
			cols := joinText(s.GroupBy.Items)
			cur.detail(truncate("GROUP BY: " + cols))
			frag = append(frag, "GROUP BY "+cols)
		}
		if len(aggs) > 0 {
			fns := strings.Join(aggs, ", ")
			cur.detail(truncate("AGG: " + fns))
			frag = append(frag, "Functions: "+fns)
		}
		cur.Fragment = strings.Join(frag, "\n")
		if s.GroupBy != nil {
			for _, it := range s.GroupBy.Items {
				if err := b.subqueries(it, cur, sc); err != nil {
					return nil, err
				}
			}
		}
	}
	if s.Having != nil {
		cond := expr.ToString(s.Having.Expr)
		cur = b.then(cur, Filter, "FILTER (HAVING)").detail(truncate(cond))
		cur.Fragment = "HAVING " + cond
		if err := b.subqueries(s.Having.Expr, cur, sc); err != nil {
			return nil, err
		}
	}
	if s.Distinct() {
		cur = b.then(cur, Distinct, "DISTINCT")
		cur.Fragment = "SELECT DISTINCT"
	}
	if projects(s.Items) {
		cols := joinText(s.Items)
		cur = b.then(cur, Project, "PROJECT").detail(truncate(cols))
		cur.Fragment = "SELECT " + cols
		for _, it := range s.Items {
			if err := b.subqueries(it.Expr, cur, sc); err != nil {
				return nil, err
			}
		}
	}
	if windowed(s.Items) {
		cur = b.then(cur, Window, "WINDOW")
		cur.Fragment = "Window Functions"
	}
	return cur, nil
}

// relations analyzes a list of relations,
// combining them with cross joins
func (b *builder) relations(lst []expr.Node, sc *scope) (*Node, error) {
	var cur *Node
	for _, r := range lst {
		n, err := b.relation(r, sc)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			cur = n
			continue
		}
		j := b.node(Join, "JOIN (CROSS)")
		j.Fragment = "CROSS JOIN"
		j.Data = map[string]string{"joinType": "CROSS"}
		b.graph.connect(cur, j, Dataflow)
		b.graph.connect(n, j, Dataflow)
		cur = j
	}
	return cur, nil
}

func (b *builder) relation(r expr.Node, sc *scope) (*Node, error) {
	switch r := r.(type) {
	case *expr.Table:
		return b.scan(r), nil
	case *expr.DerivedTable:
		alias := r.Alias
		if alias == "" {
			alias = "subquery"
		}
		n := b.node(Subquery, "SUBQUERY").detail(alias)
		n.Fragment = "(SELECT ...) AS " + alias
		if _, err := b.query(r.Query, sc.push(n)); err != nil {
			return nil, err
		}
		return n, nil
	case *expr.ParenRelation:
		return b.relations(r.Relations, sc)
	case *expr.JoinTree:
		cur, err := b.relation(r.Left, sc)
		if err != nil {
			return nil, err
		}
		for _, jn := range r.Joins {
			right, err := b.relation(jn.Right, sc)
			if err != nil {
				return nil, err
			}
			typ := jn.Type()
			var cond string
			switch {
			case jn.Cond != nil:
				cond = expr.ToString(jn.Cond)
			case len(jn.Using) > 0:
				cond = "USING (" + strings.Join(jn.Using, ", ") + ")"
			}
			j := b.node(Join, typ+" JOIN")
			if cond != "" {
				j.detail(truncate(cond))
			}
			j.Fragment = "JOIN CONDITION: " + cond
			j.Data = map[string]string{"joinType": typ}
			b.graph.connect(cur, j, Dataflow)
			b.graph.connect(right, j, Dataflow)
			if jn.Cond != nil {
				if err := b.subqueries(jn.Cond, j, sc); err != nil {
					return nil, err
				}
			}
			cur = j
		}
		return cur, nil
	default:
		return nil, fmt.Errorf("unexpected relation %T", r)
	}
}

func (b *builder) scan(t *expr.Table) *Node {
	alias := t.Binding()
	if def, ok := b.ctes[t.Name]; ok {
		n := b.node(Scan, "SCAN").detail(t.Name + " (" + alias + ")")
		n.Fragment = "FROM " + t.Name + " AS " + alias
		b.graph.connect(def, n, CTEReference)
		return n
	}
	n := b.node(Scan, "SCAN")
	if alias == t.Name {
		n.detail(t.Name)
		n.Fragment = "FROM " + t.Name
	} else {
		n.detail(t.Name + " (" + alias + ")")
		n.Fragment = "FROM " + t.Name + " AS " + alias
	}
	return n
}

// finish adds the RESULT node and
// connects every node without an
// outgoing DATAFLOW edge to it
func (b *builder) finish() {
	flows := make(map[string]bool, len(b.graph.Nodes))
	for _, e := range b.graph.Edges {
		if e.Type == Dataflow {
			flows[e.Source] = true
		}
	}
	leaves := make([]*Node, 0, len(b.graph.Nodes))
	for _, n := range b.graph.Nodes {
		if !flows[n.ID] {
			leaves = append(leaves, n)
		}
	}
	res := b.graph.add(&Node{
		ID:       "result",
		Type:     Result,
		Label:    "RESULT",
		Fragment: "Query Result",
	})
	for _, n := range leaves {
		b.graph.connect(n, res, Dataflow)
	}
}
