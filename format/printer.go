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

package format

import (
	"fmt"
	"strings"

	"github.com/SnellerInc/sqlfmt/expr"
)

// printer renders syntax trees into a buffer
type printer struct {
	*buffer
}

func newPrinter(cfg *Config) *printer {
	return &printer{buffer: newBuffer(cfg)}
}

// statement renders one statement,
// including its trailing ';'
func (p *printer) statement(st *expr.Statement) {
	if st.Empty() {
		p.write(";")
		return
	}
	if len(st.Explain) > 0 {
		p.keys(st.Explain...)
		if p.cfg.BreakExplain {
			p.newline()
		}
	}
	if st.Insert != nil {
		p.insert(st.Insert)
		p.newline()
	}
	if st.Body != nil {
		p.query(st.Body)
	}
	if st.Semicolon {
		p.write(";")
	}
}

func (p *printer) insert(ins *expr.Insert) {
	p.keys(ins.Words...)
	p.sp()
	p.write(ins.Table)
	if len(ins.Columns) > 0 {
		p.sp()
		p.identList(ins.Columns)
	}
}

func (p *printer) identList(lst []string) {
	p.parens(func() {
		for i := range lst {
			if i > 0 {
				p.writeComma()
			}
			p.write(lst[i])
		}
	})
}

func (p *printer) query(q *expr.Query) {
	if q.With != nil {
		p.with(q.With)
	}
	p.queryBody(q.Body)
	if q.OrderBy != nil {
		p.newline()
		p.keys(q.OrderBy.Order, q.OrderBy.By)
		p.sp()
		p.indented(func() {
			p.newlineIf(p.cfg.BreakOrderBy)
			p.sortItems(q.OrderBy.Items, p.cfg.BreakOrderBy)
		})
	}
	if q.Limit != nil {
		p.newline()
		p.limit(q.Limit)
	}
}

func (p *printer) with(w *expr.With) {
	p.keys(w.With, w.Recursive)
	if p.cfg.BreakCTE {
		p.newline()
	} else {
		p.sp()
	}
	for i, c := range w.CTEs {
		if i > 0 {
			p.commaBreak(p.cfg.BreakCTE)
		}
		p.cte(c)
	}
	p.newline()
}

func (p *printer) cte(c *expr.CTE) {
	p.sp()
	p.write(c.Name)
	if len(c.Columns) > 0 {
		p.sp()
		p.identList(c.Columns)
	}
	p.key(c.As)
	p.sp()
	p.parens(func() {
		p.indented(func() {
			p.newline()
			p.query(c.Query)
		})
		p.newline()
	})
}

func (p *printer) queryBody(n expr.Node) {
	switch n := n.(type) {
	case *expr.Select:
		p.selectBlock(n)
	case *expr.SetOp:
		p.queryBody(n.Left)
		p.newline()
		p.keys(n.Op, n.Quantifier)
		p.newline()
		p.queryBody(n.Right)
	case *expr.ParenQuery:
		p.subquery(n.Query)
	default:
		panic(fmt.Sprintf("format: unexpected query body %T", n))
	}
}

func (p *printer) sortItems(items []*expr.SortItem, brk bool) {
	p.items(len(items), brk, func(i int) {
		it := items[i]
		p.expr(it.Expr)
		p.keys(it.Direction)
		p.keys(it.Nulls...)
	})
}

func (p *printer) limit(l *expr.Limit) {
	p.key(l.Limit)
	p.sp()
	if l.Comma {
		p.write(l.Offset)
		p.writeComma()
		p.write(l.Count)
		return
	}
	p.write(l.Count)
	if l.OffsetKeyword != "" {
		p.key(l.OffsetKeyword)
		p.sp()
		p.write(l.Offset)
	}
}

func (p *printer) selectBlock(s *expr.Select) {
	p.keys(s.Select, s.Quantifier)
	p.sp()
	brk := p.cfg.BreakSelectItems
	p.indented(func() {
		p.newlineIf(brk)
		p.items(len(s.Items), brk, func(i int) {
			p.selectItem(s.Items[i])
		})
	})
	if s.From != nil {
		p.newline()
		p.key(s.From.From)
		p.sp()
		p.indented(func() {
			p.items(len(s.From.Relations), false, func(i int) {
				p.relation(s.From.Relations[i])
			})
		})
	}
	if s.Where != nil {
		p.clause(s.Where)
	}
	if s.GroupBy != nil {
		p.groupBy(s.GroupBy)
	}
	if s.Having != nil {
		p.clause(s.Having)
	}
}

// clause renders WHERE and HAVING.
// Conditions hold no break positions, so
// they only wrap where AND/OR breaks are
// enabled and may exceed MaxLineLength.
func (p *printer) clause(c *expr.Clause) {
	p.newline()
	p.key(c.Keyword)
	p.sp()
	p.indented(func() {
		p.expr(c.Expr)
	})
}

func (p *printer) selectItem(it *expr.SelectItem) {
	p.expr(it.Expr)
	p.alias(it.As, it.Alias)
}

func (p *printer) alias(as, name string) {
	if name == "" {
		return
	}
	p.key(as)
	p.sp()
	p.write(name)
}

func (p *printer) groupBy(g *expr.GroupBy) {
	brk := p.cfg.BreakGroupByItems
	p.newline()
	p.keys(g.Group, g.By)
	p.sp()
	p.indented(func() {
		p.newlineIf(brk)
		p.items(len(g.Items), brk, func(i int) {
			p.groupingItem(g.Items[i], brk)
		})
	})
}

func (p *printer) groupingItem(n expr.Node, brk bool) {
	g, ok := n.(*expr.Grouping)
	if !ok {
		p.expr(n)
		return
	}
	p.keys(g.Words...)
	p.sp()
	p.parens(func() {
		p.list(g.Items, brk)
	})
}

func (p *printer) relation(n expr.Node) {
	switch n := n.(type) {
	case *expr.Table:
		p.write(n.Name)
		p.alias(n.As, n.Alias)
	case *expr.DerivedTable:
		p.subquery(n.Query)
		p.alias(n.As, n.Alias)
		if len(n.Columns) > 0 {
			p.sp()
			p.identList(n.Columns)
		}
	case *expr.ParenRelation:
		p.parens(func() {
			for i, r := range n.Relations {
				if i > 0 {
					p.writeComma()
				}
				p.relation(r)
			}
		})
	case *expr.JoinTree:
		p.relation(n.Left)
		for _, j := range n.Joins {
			if p.cfg.BreakJoinRelations {
				p.newline()
				p.join(j)
				continue
			}
			p.autoBreak(func() {
				p.join(j)
			})
		}
	default:
		panic(fmt.Sprintf("format: unexpected relation %T", n))
	}
}

// join renders one join; like WHERE conditions,
// the ON condition is never wrapped
func (p *printer) join(j *expr.Join) {
	p.keys(j.Kind...)
	p.key(j.Join)
	p.sp()
	p.relation(j.Right)
	if j.On == "" {
		return
	}
	p.newlineIf(p.cfg.BreakJoinOn)
	p.key(j.On)
	p.sp()
	if j.Cond == nil {
		p.identList(j.Using)
		return
	}
	if p.cfg.AlignJoinOn {
		p.aligned(func() {
			p.expr(j.Cond)
		})
		return
	}
	p.expr(j.Cond)
}

// subquery renders a parenthesized query;
// unless subqueries are formatted in place,
// the query is minified inside the parentheses
func (p *printer) subquery(q *expr.Query) {
	if !p.minify && !p.cfg.FormatSubquery {
		sub := newPrinter(p.cfg.minified())
		sub.query(q)
		p.parens(func() {
			p.write(sub.String())
		})
		return
	}
	p.parens(func() {
		p.indented(func() {
			p.newline()
			p.query(q)
		})
		p.newline()
	})
}

// renderStatements renders each statement on
// its own and joins the results with newlines
func renderStatements(s *expr.Script, cfg *Config) string {
	parts := make([]string, 0, len(s.Statements))
	for _, st := range s.Statements {
		p := newPrinter(cfg)
		p.statement(st)
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "\n")
}
