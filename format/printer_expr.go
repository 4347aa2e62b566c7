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

func (p *printer) expr(n expr.Node) {
	switch n := n.(type) {
	case *expr.Path:
		p.write(strings.Join(n.Parts, "."))
	case *expr.Star:
		if n.Qualifier != "" {
			p.write(n.Qualifier + ".*")
		} else {
			p.write("*")
		}
	case *expr.Literal:
		p.write(n.Text)
	case *expr.Constant:
		p.key(n.Word)
	case *expr.TypedLiteral:
		p.key(n.Type)
		p.sp()
		p.write(n.Value.Text)
	case *expr.Interval:
		p.key(n.Interval)
		p.sp()
		p.expr(n.Value)
		p.keys(n.Unit...)
	case *expr.Unary:
		p.write(n.Op)
		p.expr(n.Expr)
	case *expr.Not:
		p.key(n.Not)
		p.sp()
		p.expr(n.Expr)
	case *expr.Binary:
		p.expr(n.Left)
		p.operator(n.Op)
		p.expr(n.Right)
	case *expr.Comparison:
		p.expr(n.Left)
		p.pad()
		p.write(p.cased(n.Op))
		p.pad()
		p.expr(n.Right)
	case *expr.Logical:
		p.expr(n.Left)
		p.newlineIf(p.cfg.BreakAndOr)
		p.key(n.Op)
		p.sp()
		p.expr(n.Right)
	case *expr.Is:
		p.expr(n.Expr)
		p.keys(n.Words...)
	case *expr.Between:
		p.expr(n.Expr)
		p.keys(n.Not, n.Between)
		p.sp()
		p.expr(n.Lo)
		p.key(n.And)
		p.sp()
		p.expr(n.Hi)
	case *expr.Like:
		p.expr(n.Expr)
		p.keys(n.Not, n.Op)
		p.sp()
		p.expr(n.Pattern)
		if n.EscapeExpr != nil {
			p.key(n.Escape)
			p.sp()
			p.expr(n.EscapeExpr)
		}
	case *expr.InList:
		p.expr(n.Expr)
		p.keys(n.Not, n.In)
		p.sp()
		p.inList(n.List)
	case *expr.InSubquery:
		p.expr(n.Expr)
		p.keys(n.Not, n.In)
		p.sp()
		p.subquery(n.Query)
	case *expr.Exists:
		p.key(n.Exists)
		p.sp()
		p.subquery(n.Query)
	case *expr.Subquery:
		p.subquery(n.Query)
	case *expr.Paren:
		p.parens(func() {
			p.indented(func() {
				p.expr(n.Expr)
			})
		})
	case *expr.Row:
		p.parens(func() {
			p.list(n.Items, false)
		})
	case *expr.Array:
		p.write("[")
		p.list(n.Items, false)
		p.write("]")
	case *expr.Call:
		p.call(n)
	case *expr.Case:
		p.caseExpr(n)
	case *expr.Cast:
		p.key(n.Cast)
		p.parens(func() {
			p.expr(n.Expr)
			p.key(n.As)
			p.sp()
			p.keys(n.Type.Words...)
			if len(n.Type.Args) > 0 {
				p.identList(n.Type.Args)
			}
		})
	case *expr.Extract:
		p.key(n.Extract)
		p.parens(func() {
			p.keys(n.Part, n.From)
			p.sp()
			p.expr(n.Expr)
		})
	default:
		panic(fmt.Sprintf("format: unexpected expression %T", n))
	}
}

// operator writes an arithmetic operator; in
// minify mode it is written without surrounding
// spaces (comparisons always keep theirs)
func (p *printer) operator(op string) {
	if p.minify {
		p.write(p.cased(op))
		return
	}
	p.key(op)
	p.sp()
}

// list writes a comma-separated list,
// breaking after each comma if brk is set
func (p *printer) list(items []expr.Node, brk bool) {
	for i := range items {
		if i > 0 {
			p.commaBreak(brk)
		}
		p.expr(items[i])
	}
}

// items writes n comma-separated items, each
// of them (with its trailing comma) a break
// region, and breaks after every comma if brk
// is set
func (p *printer) items(n int, brk bool, fn func(i int)) {
	for i := 0; i < n; i++ {
		more := i < n-1
		p.autoBreak(func() {
			fn(i)
			if more {
				p.writeComma()
			}
		})
		if more {
			p.newlineIf(brk)
		}
	}
}

// autoList writes a comma-separated list
// where every item may wrap on its own
func (p *printer) autoList(items []expr.Node) {
	p.items(len(items), false, func(i int) {
		p.expr(items[i])
	})
}

func (p *printer) inList(items []expr.Node) {
	brk, align := p.cfg.BreakInList, p.cfg.AlignInList
	p.parens(func() {
		switch {
		case brk && align:
			p.aligned(func() {
				p.list(items, true)
			})
		case brk:
			p.indented(func() {
				p.newline()
				p.list(items, true)
			})
			p.newline()
		case align:
			p.aligned(func() {
				p.autoList(items)
			})
		default:
			p.list(items, false)
		}
	})
}

func (p *printer) call(c *expr.Call) {
	if c.Builtin() {
		p.write(p.cased(c.Name))
	} else {
		p.write(c.Name)
	}
	brk, align := p.cfg.BreakFunctionArgs, p.cfg.AlignFunctionArgs
	p.parens(func() {
		if c.Distinct != "" {
			p.key(c.Distinct)
			p.sp()
		}
		switch {
		case brk && align:
			p.aligned(func() {
				p.list(c.Args, true)
			})
		case brk:
			p.list(c.Args, true)
		case align:
			p.aligned(func() {
				p.autoList(c.Args)
			})
		default:
			p.list(c.Args, false)
		}
	})
	if c.Over != nil {
		p.window(c.Over)
	}
}

func (p *printer) window(w *expr.Window) {
	p.key(w.Over)
	p.sp()
	p.parens(func() {
		if len(w.PartitionBy) > 0 {
			p.keys(w.Partition...)
			p.sp()
			p.list(w.PartitionBy, false)
		}
		if w.OrderBy != nil {
			p.keys(w.OrderBy.Order, w.OrderBy.By)
			p.sp()
			p.sortItems(w.OrderBy.Items, false)
		}
		if f := w.Frame; f != nil {
			p.keys(f.Unit, f.Between)
			p.frameBound(f.Start)
			if f.End != nil {
				p.key(f.And)
				p.frameBound(f.End)
			}
		}
	})
}

func (p *printer) frameBound(b *expr.FrameBound) {
	if b.Offset != nil {
		p.sp()
		p.expr(b.Offset)
	}
	p.keys(b.Words...)
}

func (p *printer) caseExpr(c *expr.Case) {
	brk := p.cfg.BreakCaseWhen
	body := func() {
		p.key(c.Case)
		if c.Operand != nil {
			p.sp()
			p.expr(c.Operand)
		}
		p.indented(func() {
			for _, w := range c.Whens {
				p.newlineIf(brk)
				p.key(w.When)
				p.sp()
				p.expr(w.Cond)
				p.key(w.Then)
				p.sp()
				p.expr(w.Result)
			}
			if c.ElseExpr != nil {
				p.newlineIf(brk)
				p.key(c.Else)
				p.sp()
				p.expr(c.ElseExpr)
			}
		})
		p.newlineIf(brk)
		p.key(c.End)
	}
	if p.cfg.AlignCaseWhen {
		p.sp()
		p.aligned(body)
		return
	}
	body()
}
