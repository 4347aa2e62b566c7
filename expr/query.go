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

// Script is the root of a parsed input:
// a list of statements.
type Script struct {
	Statements []*Statement
}

func (s *Script) text(dst *strings.Builder, redact bool) {
	for i, st := range s.Statements {
		if i != 0 {
			dst.WriteByte(' ')
		}
		st.text(dst, redact)
	}
}

func (s *Script) walk(v Visitor) {
	for _, st := range s.Statements {
		Walk(v, st)
	}
}

// Statement is one statement of a Script.
// A statement with a nil Body and no
// Insert target is an empty statement
// (a lone ';').
type Statement struct {
	// Explain holds EXPLAIN and its optional
	// level keyword, if present.
	Explain []string
	// Insert is the INSERT target, if any.
	Insert *Insert
	Body   *Query
	// Semicolon is set when the statement
	// was terminated by ';'.
	Semicolon bool
}

// Empty returns true if the statement
// has no content other than its separator.
func (s *Statement) Empty() bool {
	return s.Body == nil && s.Insert == nil && len(s.Explain) == 0
}

func (s *Statement) text(dst *strings.Builder, redact bool) {
	kw(dst, s.Explain...)
	if s.Insert != nil {
		s.Insert.text(dst, redact)
	}
	if s.Body != nil {
		space(dst)
		s.Body.text(dst, redact)
	}
	if s.Semicolon {
		dst.WriteByte(';')
	}
}

func (s *Statement) walk(v Visitor) {
	if s.Insert != nil {
		Walk(v, s.Insert)
	}
	if s.Body != nil {
		Walk(v, s.Body)
	}
}

// Insert is the INSERT INTO prefix of
// an INSERT ... SELECT statement.
type Insert struct {
	// Words is INSERT followed by INTO or OVERWRITE
	Words   []string
	Table   string
	Columns []string
}

func (i *Insert) text(dst *strings.Builder, redact bool) {
	kw(dst, i.Words...)
	dst.WriteByte(' ')
	dst.WriteString(i.Table)
	if len(i.Columns) > 0 {
		dst.WriteByte(' ')
		identList(dst, i.Columns)
	}
}

func (i *Insert) walk(v Visitor) {}

// Query contains a complete query.
type Query struct {
	With *With

	// Body is the body of the query.
	// Body can be:
	//   - A *Select
	//   - A *SetOp (UNION, INTERSECT, EXCEPT)
	//   - A *ParenQuery
	Body Node

	OrderBy *OrderBy
	Limit   *Limit
}

// Text returns the unredacted query text.
// See also: ToString.
//
// NOTE: we aren't implementing fmt.Stringer
// here so that queries aren't unintentionally
// printed in unredacted form.
func (q *Query) Text() string {
	var dst strings.Builder
	q.text(&dst, false)
	return dst.String()
}

// Redacted returns the redacted query text.
// See also: ToRedacted
func (q *Query) Redacted() string {
	var dst strings.Builder
	q.text(&dst, true)
	return dst.String()
}

func (q *Query) text(dst *strings.Builder, redact bool) {
	if q.With != nil {
		q.With.text(dst, redact)
		dst.WriteByte(' ')
	}
	q.Body.text(dst, redact)
	if q.OrderBy != nil {
		space(dst)
		q.OrderBy.text(dst, redact)
	}
	if q.Limit != nil {
		space(dst)
		q.Limit.text(dst, redact)
	}
}

func (q *Query) walk(v Visitor) {
	if q.With != nil {
		Walk(v, q.With)
	}
	Walk(v, q.Body)
	if q.OrderBy != nil {
		Walk(v, q.OrderBy)
	}
	if q.Limit != nil {
		Walk(v, q.Limit)
	}
}

// With is a WITH clause.
type With struct {
	With      string
	Recursive string
	CTEs      []*CTE
}

func (w *With) text(dst *strings.Builder, redact bool) {
	kw(dst, w.With, w.Recursive)
	for i, c := range w.CTEs {
		if i != 0 {
			dst.WriteByte(',')
		}
		dst.WriteByte(' ')
		c.text(dst, redact)
	}
}

func (w *With) walk(v Visitor) {
	for _, c := range w.CTEs {
		Walk(v, c)
	}
}

// CTE is one arm of a "common table expression"
// (i.e. WITH table AS (SELECT ...))
type CTE struct {
	Name    string
	Columns []string
	As      string
	Query   *Query
}

func (c *CTE) text(dst *strings.Builder, redact bool) {
	dst.WriteString(c.Name)
	if len(c.Columns) > 0 {
		dst.WriteByte(' ')
		identList(dst, c.Columns)
	}
	kw(dst, c.As)
	dst.WriteString(" (")
	c.Query.text(dst, redact)
	dst.WriteByte(')')
}

func (c *CTE) walk(v Visitor) {
	Walk(v, c.Query)
}

// SetOp is a set operation
// (UNION, INTERSECT, EXCEPT, MINUS)
// combining two query terms.
type SetOp struct {
	Left, Right Node
	Op          string
	// Quantifier is ALL, DISTINCT, or empty
	Quantifier string
}

// Kind returns the upper-case operator
// including its quantifier, i.e. "UNION ALL".
func (s *SetOp) Kind() string {
	k := strings.ToUpper(s.Op)
	if s.Quantifier != "" {
		k += " " + strings.ToUpper(s.Quantifier)
	}
	return k
}

func (s *SetOp) text(dst *strings.Builder, redact bool) {
	s.Left.text(dst, redact)
	kw(dst, s.Op, s.Quantifier)
	dst.WriteByte(' ')
	s.Right.text(dst, redact)
}

func (s *SetOp) walk(v Visitor) {
	Walk(v, s.Left)
	Walk(v, s.Right)
}

// ParenQuery is a parenthesized query
// used as a set operation term.
type ParenQuery struct {
	Query *Query
}

func (p *ParenQuery) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	p.Query.text(dst, redact)
	dst.WriteByte(')')
}

func (p *ParenQuery) walk(v Visitor) {
	Walk(v, p.Query)
}

// OrderBy is an ORDER BY clause.
type OrderBy struct {
	Order, By string
	Items     []*SortItem
}

func (o *OrderBy) text(dst *strings.Builder, redact bool) {
	kw(dst, o.Order, o.By)
	dst.WriteByte(' ')
	for i, it := range o.Items {
		if i != 0 {
			dst.WriteString(", ")
		}
		it.text(dst, redact)
	}
}

func (o *OrderBy) walk(v Visitor) {
	for _, it := range o.Items {
		Walk(v, it)
	}
}

// SortItem is one ORDER BY item.
type SortItem struct {
	Expr Node
	// Direction is ASC, DESC, or empty
	Direction string
	// Nulls is NULLS FIRST or NULLS LAST,
	// or empty
	Nulls []string
}

func (s *SortItem) text(dst *strings.Builder, redact bool) {
	s.Expr.text(dst, redact)
	kw(dst, s.Direction)
	kw(dst, s.Nulls...)
}

func (s *SortItem) walk(v Visitor) {
	Walk(v, s.Expr)
}

// Limit is a LIMIT clause in one of
// the forms
//
//	LIMIT count
//	LIMIT count OFFSET offset
//	LIMIT offset, count
type Limit struct {
	Limit string
	Count string
	// OffsetKeyword is set for
	// the LIMIT ... OFFSET form
	OffsetKeyword string
	Offset        string
	// Comma is set for the
	// LIMIT offset, count form
	Comma bool
}

func (l *Limit) text(dst *strings.Builder, redact bool) {
	kw(dst, l.Limit)
	dst.WriteByte(' ')
	switch {
	case l.Comma:
		dst.WriteString(l.Offset)
		dst.WriteString(", ")
		dst.WriteString(l.Count)
	case l.OffsetKeyword != "":
		dst.WriteString(l.Count)
		kw(dst, l.OffsetKeyword)
		dst.WriteByte(' ')
		dst.WriteString(l.Offset)
	default:
		dst.WriteString(l.Count)
	}
}

func (l *Limit) walk(v Visitor) {}
