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

package expr

import (
	"strings"
)

// Select is a SELECT-FROM-WHERE query block.
type Select struct {
	Select string
	// Quantifier is DISTINCT, ALL, or empty
	Quantifier string
	Items      []*SelectItem

	From    *From
	Where   *Clause
	GroupBy *GroupBy
	Having  *Clause
}

// Distinct returns true if the block
// is a SELECT DISTINCT.
func (s *Select) Distinct() bool {
	return strings.EqualFold(s.Quantifier, "distinct")
}

func (s *Select) text(dst *strings.Builder, redact bool) {
	kw(dst, s.Select, s.Quantifier)
	dst.WriteByte(' ')
	for i, it := range s.Items {
		if i != 0 {
			dst.WriteString(", ")
		}
		it.text(dst, redact)
	}
	if s.From != nil {
		s.From.text(dst, redact)
	}
	if s.Where != nil {
		s.Where.text(dst, redact)
	}
	if s.GroupBy != nil {
		s.GroupBy.text(dst, redact)
	}
	if s.Having != nil {
		s.Having.text(dst, redact)
	}
}

func (s *Select) walk(v Visitor) {
	for _, it := range s.Items {
		Walk(v, it)
	}
	if s.From != nil {
		Walk(v, s.From)
	}
	if s.Where != nil {
		Walk(v, s.Where)
	}
	if s.GroupBy != nil {
		Walk(v, s.GroupBy)
	}
	if s.Having != nil {
		Walk(v, s.Having)
	}
}

// SelectItem is one output column of a Select.
type SelectItem struct {
	// Expr is the column expression;
	// a *Star for '*' and 't.*'
	Expr Node
	// As is the AS keyword, which is
	// optional even when Alias is present
	As    string
	Alias string
}

// Bare returns true if the item is a plain
// column reference or a star without an alias.
func (s *SelectItem) Bare() bool {
	if s.Alias != "" {
		return false
	}
	switch s.Expr.(type) {
	case *Path, *Star:
		return true
	}
	return false
}

func (s *SelectItem) text(dst *strings.Builder, redact bool) {
	s.Expr.text(dst, redact)
	kw(dst, s.As)
	if s.Alias != "" {
		dst.WriteByte(' ')
		dst.WriteString(s.Alias)
	}
}

func (s *SelectItem) walk(v Visitor) {
	Walk(v, s.Expr)
}

// From is a FROM clause.
// Each relation is one of *Table, *DerivedTable,
// *ParenRelation or *JoinTree; more than one
// relation denotes an implicit cross join.
type From struct {
	From      string
	Relations []Node
}

func (f *From) text(dst *strings.Builder, redact bool) {
	kw(dst, f.From)
	dst.WriteByte(' ')
	textList(dst, f.Relations, redact)
}

func (f *From) walk(v Visitor) {
	walkList(v, f.Relations)
}

// Clause is a keyword followed
// by a condition, i.e. WHERE or HAVING.
type Clause struct {
	Keyword string
	Expr    Node
}

func (c *Clause) text(dst *strings.Builder, redact bool) {
	kw(dst, c.Keyword)
	dst.WriteByte(' ')
	c.Expr.text(dst, redact)
}

func (c *Clause) walk(v Visitor) {
	Walk(v, c.Expr)
}

// GroupBy is a GROUP BY clause.
// Items are expressions or *Grouping elements.
type GroupBy struct {
	Group, By string
	Items     []Node
}

func (g *GroupBy) text(dst *strings.Builder, redact bool) {
	kw(dst, g.Group, g.By)
	dst.WriteByte(' ')
	textList(dst, g.Items, redact)
}

func (g *GroupBy) walk(v Visitor) {
	walkList(v, g.Items)
}

// Grouping is ROLLUP(...), CUBE(...)
// or GROUPING SETS(...). The elements
// of GROUPING SETS are usually *Row nodes.
type Grouping struct {
	Words []string
	Items []Node
}

func (g *Grouping) text(dst *strings.Builder, redact bool) {
	kw(dst, g.Words...)
	dst.WriteByte('(')
	textList(dst, g.Items, redact)
	dst.WriteByte(')')
}

func (g *Grouping) walk(v Visitor) {
	walkList(v, g.Items)
}
