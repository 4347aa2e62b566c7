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

	"github.com/SnellerInc/sqlfmt/expr"

	"golang.org/x/exp/slices"
)

// inspect calls fn for each node of e,
// but does not descend into queries
func inspect(e expr.Node, fn func(expr.Node) bool) {
	expr.Inspect(e, func(n expr.Node) bool {
		if _, ok := n.(*expr.Query); ok {
			return false
		}
		return fn(n)
	})
}

// aggregates returns the aggregate calls
// in the select list and HAVING clause of s,
// written as NAME(...), without duplicates
func aggregates(s *expr.Select) []string {
	var out []string
	find := func(n expr.Node) bool {
		if c, ok := n.(*expr.Call); ok && c.Over == nil && c.Aggregate() {
			fn := strings.ToUpper(c.Name) + "(...)"
			if !slices.Contains(out, fn) {
				out = append(out, fn)
			}
		}
		return true
	}
	for _, it := range s.Items {
		inspect(it.Expr, find)
	}
	if s.Having != nil {
		inspect(s.Having.Expr, find)
	}
	return out
}

// projects returns true if the select list
// computes anything other than bare columns
func projects(items []*expr.SelectItem) bool {
	for _, it := range items {
		if !it.Bare() {
			return true
		}
	}
	return false
}

// windowed returns true if the select
// list calls a window function
func windowed(items []*expr.SelectItem) bool {
	found := false
	for _, it := range items {
		inspect(it.Expr, func(n expr.Node) bool {
			if c, ok := n.(*expr.Call); ok && c.Over != nil {
				found = true
			}
			return !found
		})
	}
	return found
}

// subqueries finds every subquery in e,
// creates a SUBQUERY node feeding owner
// for each, and analyzes the subquery
// with that node as its sink
func (b *builder) subqueries(e expr.Node, owner *Node, sc *scope) error {
	var err error
	sub := func(label string, q *expr.Query) {
		n := b.node(Subquery, label)
		n.Fragment = expr.ToString(q)
		b.graph.connect(n, owner, Dataflow)
		_, err = b.query(q, sc.push(n))
	}
	expr.Inspect(e, func(n expr.Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *expr.Subquery:
			sub("SUBQUERY (SCALAR)", n.Query)
			return false
		case *expr.InSubquery:
			// the operand may hold subqueries of its own
			err = b.subqueries(n.Expr, owner, sc)
			if err == nil {
				sub("SUBQUERY (IN)", n.Query)
			}
			return false
		case *expr.Exists:
			sub("SUBQUERY (EXISTS)", n.Query)
			return false
		}
		return true
	})
	return err
}
