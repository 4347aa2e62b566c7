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

// Package sqlparse implements a lexer and a
// recursive-descent parser for analytical SQL
// queries. The parser produces an expr.Script
// that keeps the source spelling of every token,
// and it collects syntax errors rather than
// stopping at the first one.
package sqlparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SnellerInc/sqlfmt/expr"
)

// Result is the output of Parse.
type Result struct {
	// Source is the parsed input.
	Source []byte
	// Script is the syntax tree. It is
	// not meaningful when Errors.HasErrors().
	Script *expr.Script
	// Tokens is the complete token stream,
	// including hidden comment tokens and
	// the final EOF token.
	Tokens []Token
	Errors *ErrorList
}

// Err returns the *SyntaxError for the
// parse, or nil if it succeeded.
func (r *Result) Err() error {
	return r.Errors.Err()
}

// Parse parses every statement in src.
// Syntax errors do not stop the parse;
// they are collected in Result.Errors.
func Parse(src []byte) *Result {
	res := &Result{
		Source: src,
		Errors: &ErrorList{},
	}
	toks, err := Tokens(src)
	res.Tokens = toks
	if err != nil {
		var le *LexerError
		if !errors.As(err, &le) {
			res.Errors.Add(1, 1, err.Error())
		} else {
			line, col, _ := position(src, le.Position)
			res.Errors.Add(line, col, le.Message)
		}
		res.Script = &expr.Script{}
		return res
	}
	p := &parser{src: src, errs: res.Errors}
	for i := range toks {
		if !toks[i].Hidden() {
			p.toks = append(p.toks, toks[i])
		}
	}
	res.Script = p.script()
	return res
}

// ParseScript is like Parse, but returns
// a *SyntaxError if the input did not parse.
func ParseScript(src []byte) (*expr.Script, error) {
	res := Parse(src)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Script, nil
}

// ParseQuery parses exactly one
// query statement.
func ParseQuery(src []byte) (*expr.Query, error) {
	s, err := ParseScript(src)
	if err != nil {
		return nil, err
	}
	var q *expr.Query
	for _, st := range s.Statements {
		if st.Body == nil {
			continue
		}
		if q != nil {
			return nil, fmt.Errorf("expected one query, found more than one statement")
		}
		q = st.Body
	}
	if q == nil {
		return nil, fmt.Errorf("no query in input")
	}
	return q, nil
}

// parseError is the panic value used
// to unwind out of a statement
type parseError struct {
	tok Token
	msg string
}

type parser struct {
	src  []byte
	toks []Token // visible tokens; the last one is EOF
	pos  int
	errs *ErrorList
}

func describe(t Token) string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (p *parser) fail(f string, args ...any) {
	panic(&parseError{tok: p.peek(), msg: fmt.Sprintf(f, args...)})
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

func (p *parser) eof() bool {
	return p.peek().Kind == EOF
}

// isWordAt returns true if the token n
// positions ahead is the (unquoted) keyword word
func (p *parser) isWordAt(n int, word string) bool {
	t := p.peekAt(n)
	return t.Kind == Ident && equalASCII(t.Text, word)
}

func (p *parser) is(word string) bool {
	return p.isWordAt(0, word)
}

func (p *parser) inSet(set map[string]struct{}) bool {
	t := p.peek()
	return t.Kind == Ident && inSet(set, t.Text)
}

func (p *parser) accept(word string) string {
	if p.is(word) {
		return p.next().Text
	}
	return ""
}

func (p *parser) expect(word string) string {
	if !p.is(word) {
		p.fail("expected %s, found %s%s", word, describe(p.peek()), suggest(p.peek(), word))
	}
	return p.next().Text
}

func (p *parser) expectOneOf(words ...string) string {
	for _, w := range words {
		if p.is(w) {
			return p.next().Text
		}
	}
	p.fail("expected %s, found %s%s", strings.Join(words, " or "), describe(p.peek()), suggest(p.peek(), words...))
	return ""
}

func (p *parser) isOpAt(n int, op string) bool {
	t := p.peekAt(n)
	return t.Kind == Op && t.Text == op
}

func (p *parser) isOp(op string) bool {
	return p.isOpAt(0, op)
}

func (p *parser) acceptOp(op string) bool {
	if p.isOp(op) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectOp(op string) {
	if !p.acceptOp(op) {
		p.fail("expected %q, found %s", op, describe(p.peek()))
	}
}

// startsQuery returns true if the token
// n positions ahead begins a query
func (p *parser) startsQuery(n int) bool {
	return p.isWordAt(n, "SELECT") || p.isWordAt(n, "WITH")
}

// sync skips past the next ';'
func (p *parser) sync() {
	for !p.eof() {
		if p.next().Text == ";" {
			return
		}
	}
}

func (p *parser) script() *expr.Script {
	s := &expr.Script{}
	for !p.eof() {
		st, ok := p.statementOrError()
		if !ok {
			p.sync()
			continue
		}
		s.Statements = append(s.Statements, st)
	}
	return s
}

func (p *parser) statementOrError() (st *expr.Statement, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			pe, isParseErr := r.(*parseError)
			if !isParseErr {
				panic(r)
			}
			line, col, _ := position(p.src, pe.tok.Pos)
			p.errs.Add(line, col, pe.msg)
			st, ok = nil, false
		}
	}()
	return p.statement(), true
}

func (p *parser) statement() *expr.Statement {
	st := &expr.Statement{}
	if p.acceptOp(";") {
		st.Semicolon = true
		return st
	}
	if p.is("EXPLAIN") {
		st.Explain = append(st.Explain, p.next().Text)
		for _, w := range []string{"LOGICAL", "VERBOSE", "COSTS", "ANALYZE"} {
			if p.is(w) {
				st.Explain = append(st.Explain, p.next().Text)
				break
			}
		}
	}
	if p.is("INSERT") {
		st.Insert = p.insert()
	}
	st.Body = p.query()
	if p.acceptOp(";") {
		st.Semicolon = true
	} else if !p.eof() {
		p.fail("unexpected %s", describe(p.peek()))
	}
	return st
}

func (p *parser) insert() *expr.Insert {
	ins := &expr.Insert{Words: []string{p.next().Text}}
	ins.Words = append(ins.Words, p.expectOneOf("INTO", "OVERWRITE"))
	if p.is("TABLE") {
		ins.Words = append(ins.Words, p.next().Text)
	}
	ins.Table = p.qualifiedName()
	if p.isOp("(") && !p.startsQuery(1) {
		ins.Columns = p.identList()
	}
	return ins
}

func (p *parser) query() *expr.Query {
	q := &expr.Query{}
	if p.is("WITH") {
		q.With = p.with()
	}
	q.Body = p.setExpr()
	if p.is("ORDER") {
		q.OrderBy = p.orderBy()
	}
	if p.is("LIMIT") {
		q.Limit = p.limit()
	}
	return q
}

func (p *parser) with() *expr.With {
	w := &expr.With{With: p.next().Text}
	w.Recursive = p.accept("RECURSIVE")
	for {
		w.CTEs = append(w.CTEs, p.cte())
		if !p.acceptOp(",") {
			break
		}
	}
	return w
}

func (p *parser) cte() *expr.CTE {
	c := &expr.CTE{Name: p.ident("CTE name")}
	if p.isOp("(") {
		c.Columns = p.identList()
	}
	c.As = p.expect("AS")
	p.expectOp("(")
	c.Query = p.query()
	p.expectOp(")")
	return c
}

func (p *parser) setExpr() expr.Node {
	left := p.queryTerm()
	for p.inSet(setops) {
		op := &expr.SetOp{Left: left, Op: p.next().Text}
		if p.is("ALL") || p.is("DISTINCT") {
			op.Quantifier = p.next().Text
		}
		op.Right = p.queryTerm()
		left = op
	}
	return left
}

func (p *parser) queryTerm() expr.Node {
	if p.is("SELECT") {
		return p.selectBlock()
	}
	if p.acceptOp("(") {
		q := p.query()
		p.expectOp(")")
		return &expr.ParenQuery{Query: q}
	}
	p.fail("expected SELECT, found %s%s", describe(p.peek()), suggest(p.peek(), "SELECT", "WITH"))
	return nil
}

func (p *parser) selectBlock() *expr.Select {
	s := &expr.Select{Select: p.next().Text}
	if p.is("DISTINCT") || p.is("ALL") {
		s.Quantifier = p.next().Text
	}
	for {
		s.Items = append(s.Items, p.selectItem())
		if !p.acceptOp(",") {
			break
		}
	}
	if p.is("FROM") {
		f := &expr.From{From: p.next().Text}
		for {
			f.Relations = append(f.Relations, p.relation())
			if !p.acceptOp(",") {
				break
			}
		}
		s.From = f
	}
	if p.is("WHERE") {
		s.Where = &expr.Clause{Keyword: p.next().Text, Expr: p.expr()}
	}
	if p.is("GROUP") {
		g := &expr.GroupBy{Group: p.next().Text, By: p.expect("BY")}
		for {
			g.Items = append(g.Items, p.groupingItem())
			if !p.acceptOp(",") {
				break
			}
		}
		s.GroupBy = g
	}
	if p.is("HAVING") {
		s.Having = &expr.Clause{Keyword: p.next().Text, Expr: p.expr()}
	}
	return s
}

func (p *parser) selectItem() *expr.SelectItem {
	it := &expr.SelectItem{Expr: p.expr()}
	it.As, it.Alias = p.alias()
	return it
}

// alias parses an optional [AS] alias
func (p *parser) alias() (as, name string) {
	if p.is("AS") {
		as = p.next().Text
		t := p.peek()
		switch t.Kind {
		case Ident, QuotedIdent, String:
			return as, p.next().Text
		}
		p.fail("expected alias after %s, found %s", as, describe(t))
	}
	t := p.peek()
	if t.Kind == QuotedIdent || (t.Kind == Ident && !isReserved(t.Text)) {
		return "", p.next().Text
	}
	return "", ""
}

// ident parses a non-reserved or quoted identifier
func (p *parser) ident(what string) string {
	t := p.peek()
	if t.Kind == QuotedIdent || (t.Kind == Ident && !isReserved(t.Text)) {
		return p.next().Text
	}
	p.fail("expected %s, found %s", what, describe(t))
	return ""
}

// qualifiedName parses name {'.' name};
// the text following '.' can be any word
func (p *parser) qualifiedName() string {
	parts := []string{p.ident("name")}
	for p.isOp(".") {
		n := p.peekAt(1)
		if n.Kind != Ident && n.Kind != QuotedIdent {
			p.next()
			p.fail("expected identifier after '.', found %s", describe(n))
		}
		p.next()
		parts = append(parts, p.next().Text)
	}
	return strings.Join(parts, ".")
}

func (p *parser) identList() []string {
	p.expectOp("(")
	var out []string
	for {
		out = append(out, p.ident("column name"))
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return out
}

func (p *parser) relation() expr.Node {
	left := p.relationPrimary()
	var joins []*expr.Join
	for p.is("JOIN") || p.inSet(joinKinds) {
		joins = append(joins, p.join())
	}
	if len(joins) == 0 {
		return left
	}
	return &expr.JoinTree{Left: left, Joins: joins}
}

func (p *parser) join() *expr.Join {
	j := &expr.Join{}
	for p.inSet(joinKinds) {
		j.Kind = append(j.Kind, p.next().Text)
	}
	j.Join = p.expect("JOIN")
	j.Right = p.relationPrimary()
	switch {
	case p.is("ON"):
		j.On = p.next().Text
		j.Cond = p.expr()
	case p.is("USING"):
		j.On = p.next().Text
		j.Using = p.identList()
	}
	return j
}

func (p *parser) relationPrimary() expr.Node {
	if p.isOp("(") {
		if p.startsQuery(1) {
			p.next()
			d := &expr.DerivedTable{Query: p.query()}
			p.expectOp(")")
			d.As, d.Alias = p.alias()
			if d.Alias != "" && p.isOp("(") {
				d.Columns = p.identList()
			}
			return d
		}
		p.next()
		pr := &expr.ParenRelation{}
		for {
			pr.Relations = append(pr.Relations, p.relation())
			if !p.acceptOp(",") {
				break
			}
		}
		p.expectOp(")")
		return pr
	}
	t := &expr.Table{Name: p.qualifiedName()}
	t.As, t.Alias = p.alias()
	return t
}

func (p *parser) groupingItem() expr.Node {
	if (p.is("ROLLUP") || p.is("CUBE")) && p.isOpAt(1, "(") {
		g := &expr.Grouping{Words: []string{p.next().Text}}
		p.next()
		g.Items = p.exprList()
		p.expectOp(")")
		return g
	}
	if p.is("GROUPING") && p.isWordAt(1, "SETS") {
		g := &expr.Grouping{Words: []string{p.next().Text, p.next().Text}}
		p.expectOp("(")
		for {
			if p.isOp("(") && p.isOpAt(1, ")") {
				p.next()
				p.next()
				g.Items = append(g.Items, &expr.Row{})
			} else {
				g.Items = append(g.Items, p.expr())
			}
			if !p.acceptOp(",") {
				break
			}
		}
		p.expectOp(")")
		return g
	}
	return p.expr()
}

func (p *parser) orderBy() *expr.OrderBy {
	o := &expr.OrderBy{Order: p.next().Text, By: p.expect("BY")}
	for {
		o.Items = append(o.Items, p.sortItem())
		if !p.acceptOp(",") {
			break
		}
	}
	return o
}

func (p *parser) sortItem() *expr.SortItem {
	s := &expr.SortItem{Expr: p.expr()}
	if p.is("ASC") || p.is("DESC") {
		s.Direction = p.next().Text
	}
	if p.is("NULLS") {
		s.Nulls = []string{p.next().Text, p.expectOneOf("FIRST", "LAST")}
	}
	return s
}

func (p *parser) limit() *expr.Limit {
	l := &expr.Limit{Limit: p.next().Text}
	first := p.limitValue()
	if p.acceptOp(",") {
		l.Comma = true
		l.Offset = first
		l.Count = p.limitValue()
		return l
	}
	l.Count = first
	if p.is("OFFSET") {
		l.OffsetKeyword = p.next().Text
		l.Offset = p.limitValue()
	}
	return l
}

func (p *parser) limitValue() string {
	switch t := p.peek(); t.Kind {
	case Number, Param, Variable:
		return p.next().Text
	}
	p.fail("expected a number, found %s", describe(p.peek()))
	return ""
}
