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

package sqlparse

import (
	"strings"

	"github.com/SnellerInc/sqlfmt/expr"
)

var intervalUnits = map[string]struct{}{
	"YEAR": {}, "YEARS": {},
	"QUARTER": {}, "QUARTERS": {},
	"MONTH": {}, "MONTHS": {},
	"WEEK": {}, "WEEKS": {},
	"DAY": {}, "DAYS": {},
	"HOUR": {}, "HOURS": {},
	"MINUTE": {}, "MINUTES": {},
	"SECOND": {}, "SECONDS": {},
	"MILLISECOND": {}, "MILLISECONDS": {},
	"MICROSECOND": {}, "MICROSECONDS": {},
}

// expression precedence, lowest first:
//
//	OR
//	AND
//	NOT
//	comparison, IS, BETWEEN, IN, LIKE
//	|| | & ^ << >>
//	+ -
//	* / %
//	unary - + ~
func (p *parser) expr() expr.Node {
	return p.or()
}

func (p *parser) exprList() []expr.Node {
	lst := []expr.Node{p.expr()}
	for p.acceptOp(",") {
		lst = append(lst, p.expr())
	}
	return lst
}

func (p *parser) or() expr.Node {
	left := p.and()
	for p.is("OR") {
		op := p.next().Text
		left = &expr.Logical{Op: op, Left: left, Right: p.and()}
	}
	return left
}

func (p *parser) and() expr.Node {
	left := p.not()
	for p.is("AND") {
		op := p.next().Text
		left = &expr.Logical{Op: op, Left: left, Right: p.not()}
	}
	return left
}

func (p *parser) not() expr.Node {
	if p.is("NOT") {
		n := &expr.Not{Not: p.next().Text}
		n.Expr = p.not()
		return n
	}
	return p.predicate()
}

func (p *parser) isLikeAt(n int) bool {
	t := p.peekAt(n)
	return t.Kind == Ident && inSet(likeOps, t.Text)
}

func (p *parser) predicate() expr.Node {
	left := p.concat()
	for {
		t := p.peek()
		if t.Kind == Op && inSet(comparisons, t.Text) {
			op := p.next().Text
			left = &expr.Comparison{Op: op, Left: left, Right: p.concat()}
			continue
		}
		if p.is("IS") {
			is := &expr.Is{Expr: left, Words: []string{p.next().Text}}
			if p.is("NOT") {
				is.Words = append(is.Words, p.next().Text)
			}
			is.Words = append(is.Words, p.expectOneOf("NULL", "TRUE", "FALSE", "UNKNOWN", "MISSING"))
			left = is
			continue
		}
		not := ""
		if p.is("NOT") && (p.isWordAt(1, "BETWEEN") || p.isWordAt(1, "IN") || p.isLikeAt(1)) {
			not = p.next().Text
		}
		switch {
		case p.is("BETWEEN"):
			b := &expr.Between{Expr: left, Not: not, Between: p.next().Text}
			b.Lo = p.concat()
			b.And = p.expect("AND")
			b.Hi = p.concat()
			left = b
		case p.is("IN"):
			in := p.next().Text
			p.expectOp("(")
			if p.startsQuery(0) {
				left = &expr.InSubquery{Expr: left, Not: not, In: in, Query: p.query()}
			} else {
				left = &expr.InList{Expr: left, Not: not, In: in, List: p.exprList()}
			}
			p.expectOp(")")
		case p.isLikeAt(0):
			l := &expr.Like{Expr: left, Not: not, Op: p.next().Text}
			l.Pattern = p.concat()
			if p.is("ESCAPE") {
				l.Escape = p.next().Text
				l.EscapeExpr = p.concat()
			}
			left = l
		default:
			return left
		}
	}
}

func (p *parser) isBinaryOp(ops ...string) bool {
	t := p.peek()
	if t.Kind != Op {
		return false
	}
	for _, op := range ops {
		if t.Text == op {
			return true
		}
	}
	return false
}

func (p *parser) concat() expr.Node {
	left := p.additive()
	for p.isBinaryOp("||", "|", "&", "^", "<<", ">>") {
		op := p.next().Text
		left = &expr.Binary{Op: op, Left: left, Right: p.additive()}
	}
	return left
}

func (p *parser) additive() expr.Node {
	left := p.multiplicative()
	for p.isBinaryOp("+", "-") {
		op := p.next().Text
		left = &expr.Binary{Op: op, Left: left, Right: p.multiplicative()}
	}
	return left
}

func (p *parser) multiplicative() expr.Node {
	left := p.unary()
	for p.isBinaryOp("*", "/", "%") {
		op := p.next().Text
		left = &expr.Binary{Op: op, Left: left, Right: p.unary()}
	}
	return left
}

func (p *parser) unary() expr.Node {
	if p.isBinaryOp("-", "+", "~") {
		op := p.next().Text
		return &expr.Unary{Op: op, Expr: p.unary()}
	}
	return p.primary()
}

func (p *parser) primary() expr.Node {
	t := p.peek()
	switch t.Kind {
	case Number:
		p.next()
		return &expr.Literal{Kind: expr.NumberLiteral, Text: t.Text}
	case String:
		p.next()
		return &expr.Literal{Kind: expr.StringLiteral, Text: t.Text}
	case Param, Variable:
		p.next()
		return &expr.Literal{Kind: expr.ParamLiteral, Text: t.Text}
	case QuotedIdent:
		return p.pathOrCall()
	case Ident:
		return p.word()
	case Op:
		switch t.Text {
		case "*":
			p.next()
			return &expr.Star{}
		case "(":
			return p.parenExpr()
		case "[":
			p.next()
			a := &expr.Array{}
			if !p.isOp("]") {
				a.Items = p.exprList()
			}
			p.expectOp("]")
			return a
		}
	}
	p.fail("unexpected %s", describe(t))
	return nil
}

func (p *parser) parenExpr() expr.Node {
	p.next()
	if p.startsQuery(0) {
		q := p.query()
		p.expectOp(")")
		return &expr.Subquery{Query: q}
	}
	if p.acceptOp(")") {
		return &expr.Row{}
	}
	first := p.expr()
	if p.acceptOp(",") {
		r := &expr.Row{Items: append([]expr.Node{first}, p.exprList()...)}
		p.expectOp(")")
		return r
	}
	p.expectOp(")")
	return &expr.Paren{Expr: first}
}

// word parses a primary expression
// starting with a bare word
func (p *parser) word() expr.Node {
	t := p.peek()
	w := upperASCII(t.Text)
	call := p.isOpAt(1, "(")
	switch {
	case w == "CASE":
		return p.caseExpr()
	case (w == "CAST" || w == "TRY_CAST") && call:
		return p.cast()
	case w == "EXTRACT" && call:
		return p.extract()
	case w == "EXISTS" && call:
		e := &expr.Exists{Exists: p.next().Text}
		p.next()
		e.Query = p.query()
		p.expectOp(")")
		return e
	case w == "INTERVAL":
		return p.interval()
	case inSet(typedLiterals, w) && p.peekAt(1).Kind == String:
		tl := &expr.TypedLiteral{Type: p.next().Text}
		tl.Value = &expr.Literal{Kind: expr.StringLiteral, Text: p.next().Text}
		return tl
	case inSet(constants, w) && !call:
		p.next()
		return &expr.Constant{Word: t.Text}
	}
	if isReserved(t.Text) && !((w == "LEFT" || w == "RIGHT") && call) {
		p.fail("unexpected keyword %s", t.Text)
	}
	return p.pathOrCall()
}

func (p *parser) pathOrCall() expr.Node {
	parts := []string{p.next().Text}
	for p.isOp(".") {
		n := p.peekAt(1)
		if n.Kind == Op && n.Text == "*" {
			p.next()
			p.next()
			return &expr.Star{Qualifier: strings.Join(parts, ".")}
		}
		if n.Kind != Ident && n.Kind != QuotedIdent {
			p.next()
			p.fail("expected identifier after '.', found %s", describe(n))
		}
		p.next()
		parts = append(parts, p.next().Text)
	}
	if p.isOp("(") {
		return p.call(strings.Join(parts, "."))
	}
	return &expr.Path{Parts: parts}
}

func (p *parser) call(name string) expr.Node {
	p.next() // '('
	c := &expr.Call{Name: name}
	if p.is("DISTINCT") || p.is("ALL") {
		c.Distinct = p.next().Text
	}
	if !p.isOp(")") {
		c.Args = p.exprList()
	}
	p.expectOp(")")
	if p.is("OVER") {
		c.Over = p.window()
	}
	return c
}

func (p *parser) window() *expr.Window {
	w := &expr.Window{Over: p.next().Text}
	p.expectOp("(")
	if p.is("PARTITION") {
		w.Partition = []string{p.next().Text, p.expect("BY")}
		w.PartitionBy = p.exprList()
	}
	if p.is("ORDER") {
		w.OrderBy = p.orderBy()
	}
	if p.is("ROWS") || p.is("RANGE") || p.is("GROUPS") {
		w.Frame = p.frame()
	}
	p.expectOp(")")
	return w
}

func (p *parser) frame() *expr.Frame {
	f := &expr.Frame{Unit: p.next().Text}
	if p.is("BETWEEN") {
		f.Between = p.next().Text
		f.Start = p.frameBound()
		f.And = p.expect("AND")
		f.End = p.frameBound()
		return f
	}
	f.Start = p.frameBound()
	return f
}

func (p *parser) frameBound() *expr.FrameBound {
	b := &expr.FrameBound{}
	switch {
	case p.is("UNBOUNDED"):
		b.Words = []string{p.next().Text, p.expectOneOf("PRECEDING", "FOLLOWING")}
	case p.is("CURRENT"):
		b.Words = []string{p.next().Text, p.expect("ROW")}
	default:
		b.Offset = p.concat()
		b.Words = []string{p.expectOneOf("PRECEDING", "FOLLOWING")}
	}
	return b
}

func (p *parser) caseExpr() expr.Node {
	c := &expr.Case{Case: p.next().Text}
	if !p.is("WHEN") {
		c.Operand = p.expr()
	}
	for p.is("WHEN") {
		w := &expr.When{When: p.next().Text}
		w.Cond = p.expr()
		w.Then = p.expect("THEN")
		w.Result = p.expr()
		c.Whens = append(c.Whens, w)
	}
	if len(c.Whens) == 0 {
		p.fail("expected WHEN, found %s", describe(p.peek()))
	}
	if p.is("ELSE") {
		c.Else = p.next().Text
		c.ElseExpr = p.expr()
	}
	c.End = p.expect("END")
	return c
}

func (p *parser) cast() expr.Node {
	c := &expr.Cast{Cast: p.next().Text}
	p.next() // '('
	c.Expr = p.expr()
	c.As = p.expect("AS")
	c.Type = p.typeName()
	p.expectOp(")")
	return c
}

func (p *parser) typeName() *expr.TypeName {
	t := &expr.TypeName{}
	for p.peek().Kind == Ident {
		t.Words = append(t.Words, p.next().Text)
	}
	if len(t.Words) == 0 {
		p.fail("expected type name, found %s", describe(p.peek()))
	}
	if p.acceptOp("(") {
		for {
			if k := p.peek().Kind; k != Number && k != Ident {
				p.fail("expected type parameter, found %s", describe(p.peek()))
			}
			t.Args = append(t.Args, p.next().Text)
			if !p.acceptOp(",") {
				break
			}
		}
		p.expectOp(")")
	}
	return t
}

func (p *parser) extract() expr.Node {
	e := &expr.Extract{Extract: p.next().Text}
	p.next() // '('
	if p.peek().Kind != Ident {
		p.fail("expected date part, found %s", describe(p.peek()))
	}
	e.Part = p.next().Text
	e.From = p.expect("FROM")
	e.Expr = p.expr()
	p.expectOp(")")
	return e
}

func (p *parser) interval() expr.Node {
	i := &expr.Interval{Interval: p.next().Text}
	i.Value = p.unary()
	if p.inSet(intervalUnits) {
		i.Unit = append(i.Unit, p.next().Text)
		if p.is("TO") && p.peekAt(1).Kind == Ident && inSet(intervalUnits, p.peekAt(1).Text) {
			i.Unit = append(i.Unit, p.next().Text, p.next().Text)
		}
	}
	return i
}
