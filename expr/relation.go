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

// Table is a named relation in a FROM clause.
type Table struct {
	// Name is the (possibly qualified)
	// table name as written.
	Name  string
	As    string
	Alias string
}

// Binding returns the alias of the table
// if it has one, or otherwise its name.
func (t *Table) Binding() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

func (t *Table) text(dst *strings.Builder, redact bool) {
	dst.WriteString(t.Name)
	kw(dst, t.As)
	if t.Alias != "" {
		dst.WriteByte(' ')
		dst.WriteString(t.Alias)
	}
}

func (t *Table) walk(v Visitor) {}

// DerivedTable is a subquery used as a relation.
type DerivedTable struct {
	Query   *Query
	As      string
	Alias   string
	Columns []string
}

func (d *DerivedTable) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	d.Query.text(dst, redact)
	dst.WriteByte(')')
	kw(dst, d.As)
	if d.Alias != "" {
		dst.WriteByte(' ')
		dst.WriteString(d.Alias)
	}
	if len(d.Columns) > 0 {
		identList(dst, d.Columns)
	}
}

func (d *DerivedTable) walk(v Visitor) {
	Walk(v, d.Query)
}

// ParenRelation is a parenthesized
// list of relations.
type ParenRelation struct {
	Relations []Node
}

func (p *ParenRelation) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	textList(dst, p.Relations, redact)
	dst.WriteByte(')')
}

func (p *ParenRelation) walk(v Visitor) {
	walkList(v, p.Relations)
}

// JoinTree is a relation followed by
// one or more explicit joins.
type JoinTree struct {
	Left  Node
	Joins []*Join
}

func (j *JoinTree) text(dst *strings.Builder, redact bool) {
	j.Left.text(dst, redact)
	for _, jn := range j.Joins {
		jn.text(dst, redact)
	}
}

func (j *JoinTree) walk(v Visitor) {
	Walk(v, j.Left)
	for _, jn := range j.Joins {
		Walk(v, jn)
	}
}

// Join is one explicit JOIN of a JoinTree.
type Join struct {
	// Kind holds the words before JOIN,
	// i.e. LEFT OUTER, or nothing.
	Kind  []string
	Join  string
	Right Node

	// On is ON or USING when
	// a condition is present
	On    string
	Cond  Node
	Using []string
}

// Type returns the canonical join type:
// INNER when no kind was written, CROSS
// for cross joins, and otherwise the
// upper-case join kind (LEFT OUTER, ...).
func (j *Join) Type() string {
	if len(j.Kind) == 0 {
		return "INNER"
	}
	t := strings.ToUpper(strings.Join(j.Kind, " "))
	if strings.Contains(t, "CROSS") {
		return "CROSS"
	}
	return t
}

func (j *Join) text(dst *strings.Builder, redact bool) {
	kw(dst, j.Kind...)
	kw(dst, j.Join)
	dst.WriteByte(' ')
	j.Right.text(dst, redact)
	if j.On == "" {
		return
	}
	kw(dst, j.On)
	dst.WriteByte(' ')
	if j.Cond != nil {
		j.Cond.text(dst, redact)
	} else {
		identList(dst, j.Using)
	}
}

func (j *Join) walk(v Visitor) {
	Walk(v, j.Right)
	walkOpt(v, j.Cond)
}
