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

// Path is a (possibly qualified) column
// reference like "t.x" or "x".
type Path struct {
	Parts []string
}

// Ident returns a path with a single component.
func Ident(s string) *Path {
	return &Path{Parts: []string{s}}
}

func (p *Path) text(dst *strings.Builder, redact bool) {
	dst.WriteString(strings.Join(p.Parts, "."))
}

func (p *Path) walk(v Visitor) {}

// Star is '*' or 'qualifier.*'
type Star struct {
	Qualifier string
}

func (s *Star) text(dst *strings.Builder, redact bool) {
	if s.Qualifier != "" {
		dst.WriteString(s.Qualifier)
		dst.WriteByte('.')
	}
	dst.WriteByte('*')
}

func (s *Star) walk(v Visitor) {}

// LiteralKind is the lexical class of a Literal.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	// ParamLiteral is a bind parameter
	// ('?') or a variable ('@x')
	ParamLiteral
)

// Literal is a constant as written in the source.
type Literal struct {
	Kind LiteralKind
	// Text is the exact source text,
	// including quotes for strings.
	Text string
}

func (l *Literal) text(dst *strings.Builder, redact bool) {
	if redact {
		dst.WriteString(l.redacted())
		return
	}
	dst.WriteString(l.Text)
}

func (l *Literal) walk(v Visitor) {}

// Constant is a keyword constant
// such as TRUE, FALSE, NULL or CURRENT_DATE.
type Constant struct {
	Word string
}

func (c *Constant) text(dst *strings.Builder, redact bool) {
	kw(dst, c.Word)
}

func (c *Constant) walk(v Visitor) {}

// TypedLiteral is a string literal
// prefixed with a type, i.e. DATE '2020-01-01'
type TypedLiteral struct {
	Type  string
	Value *Literal
}

func (t *TypedLiteral) text(dst *strings.Builder, redact bool) {
	kw(dst, t.Type)
	dst.WriteByte(' ')
	t.Value.text(dst, redact)
}

func (t *TypedLiteral) walk(v Visitor) {}

// Interval is INTERVAL value unit
type Interval struct {
	Interval string
	Value    Node
	Unit     []string
}

func (i *Interval) text(dst *strings.Builder, redact bool) {
	kw(dst, i.Interval)
	dst.WriteByte(' ')
	i.Value.text(dst, redact)
	kw(dst, i.Unit...)
}

func (i *Interval) walk(v Visitor) {
	Walk(v, i.Value)
}

// Unary is a prefix arithmetic
// operator: '-', '+' or '~'
type Unary struct {
	Op   string
	Expr Node
}

func (u *Unary) text(dst *strings.Builder, redact bool) {
	dst.WriteString(u.Op)
	u.Expr.text(dst, redact)
}

func (u *Unary) walk(v Visitor) {
	Walk(v, u.Expr)
}

// Not is logical negation.
type Not struct {
	Not  string
	Expr Node
}

func (n *Not) text(dst *strings.Builder, redact bool) {
	kw(dst, n.Not)
	dst.WriteByte(' ')
	n.Expr.text(dst, redact)
}

func (n *Not) walk(v Visitor) {
	Walk(v, n.Expr)
}

// Binary is an arithmetic, bitwise
// or string concatenation operator.
type Binary struct {
	Op          string
	Left, Right Node
}

func (b *Binary) text(dst *strings.Builder, redact bool) {
	b.Left.text(dst, redact)
	dst.WriteByte(' ')
	dst.WriteString(b.Op)
	dst.WriteByte(' ')
	b.Right.text(dst, redact)
}

func (b *Binary) walk(v Visitor) {
	Walk(v, b.Left)
	Walk(v, b.Right)
}

// Comparison is a comparison operator
// (=, <>, !=, <, <=, >, >=, <=>).
type Comparison struct {
	Op          string
	Left, Right Node
}

func (c *Comparison) text(dst *strings.Builder, redact bool) {
	c.Left.text(dst, redact)
	dst.WriteByte(' ')
	dst.WriteString(c.Op)
	dst.WriteByte(' ')
	c.Right.text(dst, redact)
}

func (c *Comparison) walk(v Visitor) {
	Walk(v, c.Left)
	Walk(v, c.Right)
}

// Logical is AND or OR.
type Logical struct {
	Op          string
	Left, Right Node
}

// IsAnd returns true for AND,
// false for OR.
func (l *Logical) IsAnd() bool {
	return strings.EqualFold(l.Op, "and")
}

func (l *Logical) text(dst *strings.Builder, redact bool) {
	l.Left.text(dst, redact)
	kw(dst, l.Op)
	dst.WriteByte(' ')
	l.Right.text(dst, redact)
}

func (l *Logical) walk(v Visitor) {
	Walk(v, l.Left)
	Walk(v, l.Right)
}

// Is is an IS [NOT] NULL/TRUE/FALSE/UNKNOWN
// predicate. Words holds everything after
// the operand.
type Is struct {
	Expr  Node
	Words []string
}

func (i *Is) text(dst *strings.Builder, redact bool) {
	i.Expr.text(dst, redact)
	kw(dst, i.Words...)
}

func (i *Is) walk(v Visitor) {
	Walk(v, i.Expr)
}

// Between is expr [NOT] BETWEEN lo AND hi
type Between struct {
	Expr    Node
	Not     string
	Between string
	Lo      Node
	And     string
	Hi      Node
}

func (b *Between) text(dst *strings.Builder, redact bool) {
	b.Expr.text(dst, redact)
	kw(dst, b.Not, b.Between)
	dst.WriteByte(' ')
	b.Lo.text(dst, redact)
	kw(dst, b.And)
	dst.WriteByte(' ')
	b.Hi.text(dst, redact)
}

func (b *Between) walk(v Visitor) {
	Walk(v, b.Expr)
	Walk(v, b.Lo)
	Walk(v, b.Hi)
}

// Like is a pattern match:
// expr [NOT] LIKE|ILIKE|RLIKE|REGEXP pattern [ESCAPE e]
type Like struct {
	Expr    Node
	Not     string
	Op      string
	Pattern Node
	// Escape is the ESCAPE keyword,
	// if EscapeExpr is present
	Escape     string
	EscapeExpr Node
}

func (l *Like) text(dst *strings.Builder, redact bool) {
	l.Expr.text(dst, redact)
	kw(dst, l.Not, l.Op)
	dst.WriteByte(' ')
	l.Pattern.text(dst, redact)
	if l.EscapeExpr != nil {
		kw(dst, l.Escape)
		dst.WriteByte(' ')
		l.EscapeExpr.text(dst, redact)
	}
}

func (l *Like) walk(v Visitor) {
	Walk(v, l.Expr)
	Walk(v, l.Pattern)
	walkOpt(v, l.EscapeExpr)
}

// InList is expr [NOT] IN (a, b, ...)
type InList struct {
	Expr Node
	Not  string
	In   string
	List []Node
}

func (i *InList) text(dst *strings.Builder, redact bool) {
	i.Expr.text(dst, redact)
	kw(dst, i.Not, i.In)
	dst.WriteString(" (")
	textList(dst, i.List, redact)
	dst.WriteByte(')')
}

func (i *InList) walk(v Visitor) {
	Walk(v, i.Expr)
	walkList(v, i.List)
}

// InSubquery is expr [NOT] IN (SELECT ...)
type InSubquery struct {
	Expr  Node
	Not   string
	In    string
	Query *Query
}

func (i *InSubquery) text(dst *strings.Builder, redact bool) {
	i.Expr.text(dst, redact)
	kw(dst, i.Not, i.In)
	dst.WriteString(" (")
	i.Query.text(dst, redact)
	dst.WriteByte(')')
}

func (i *InSubquery) walk(v Visitor) {
	Walk(v, i.Expr)
	Walk(v, i.Query)
}

// Exists is EXISTS (SELECT ...)
type Exists struct {
	Exists string
	Query  *Query
}

func (e *Exists) text(dst *strings.Builder, redact bool) {
	kw(dst, e.Exists)
	dst.WriteString(" (")
	e.Query.text(dst, redact)
	dst.WriteByte(')')
}

func (e *Exists) walk(v Visitor) {
	Walk(v, e.Query)
}

// Subquery is a parenthesized query
// used as a scalar expression.
type Subquery struct {
	Query *Query
}

func (s *Subquery) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	s.Query.text(dst, redact)
	dst.WriteByte(')')
}

func (s *Subquery) walk(v Visitor) {
	Walk(v, s.Query)
}

// Paren is a parenthesized expression.
type Paren struct {
	Expr Node
}

func (p *Paren) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	p.Expr.text(dst, redact)
	dst.WriteByte(')')
}

func (p *Paren) walk(v Visitor) {
	Walk(v, p.Expr)
}

// Row is a parenthesized list of expressions
// (a row constructor, or a grouping set).
// An empty Row is '()'.
type Row struct {
	Items []Node
}

func (r *Row) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('(')
	textList(dst, r.Items, redact)
	dst.WriteByte(')')
}

func (r *Row) walk(v Visitor) {
	walkList(v, r.Items)
}

// Array is [a, b, ...]
type Array struct {
	Items []Node
}

func (a *Array) text(dst *strings.Builder, redact bool) {
	dst.WriteByte('[')
	textList(dst, a.Items, redact)
	dst.WriteByte(']')
}

func (a *Array) walk(v Visitor) {
	walkList(v, a.Items)
}

// Call is a function call, including
// aggregate and window function calls.
type Call struct {
	// Name is the function name as written.
	Name string
	// Distinct is DISTINCT or ALL
	// before the arguments, if present
	Distinct string
	Args     []Node
	Over     *Window
}

// Builtin returns true if the function
// name is a well-known built-in.
func (c *Call) Builtin() bool {
	return IsBuiltin(c.Name)
}

// Aggregate returns true if the call
// is to an aggregate function.
func (c *Call) Aggregate() bool {
	return IsAggregate(c.Name)
}

func (c *Call) text(dst *strings.Builder, redact bool) {
	dst.WriteString(c.Name)
	dst.WriteByte('(')
	kw(dst, c.Distinct)
	if c.Distinct != "" && len(c.Args) > 0 {
		dst.WriteByte(' ')
	}
	textList(dst, c.Args, redact)
	dst.WriteByte(')')
	if c.Over != nil {
		c.Over.text(dst, redact)
	}
}

func (c *Call) walk(v Visitor) {
	walkList(v, c.Args)
	if c.Over != nil {
		Walk(v, c.Over)
	}
}

// Window is an OVER (...) clause.
type Window struct {
	Over string
	// Partition is PARTITION BY
	// when PartitionBy is non-empty
	Partition   []string
	PartitionBy []Node
	OrderBy     *OrderBy
	Frame       *Frame
}

func (w *Window) text(dst *strings.Builder, redact bool) {
	kw(dst, w.Over)
	dst.WriteString(" (")
	if len(w.PartitionBy) > 0 {
		kw(dst, w.Partition...)
		dst.WriteByte(' ')
		textList(dst, w.PartitionBy, redact)
	}
	if w.OrderBy != nil {
		space(dst)
		w.OrderBy.text(dst, redact)
	}
	if w.Frame != nil {
		space(dst)
		w.Frame.text(dst, redact)
	}
	dst.WriteByte(')')
}

func (w *Window) walk(v Visitor) {
	walkList(v, w.PartitionBy)
	if w.OrderBy != nil {
		Walk(v, w.OrderBy)
	}
	if w.Frame != nil {
		Walk(v, w.Frame)
	}
}

// Frame is a window frame:
//
//	ROWS|RANGE bound
//	ROWS|RANGE BETWEEN bound AND bound
type Frame struct {
	Unit    string
	Between string
	Start   *FrameBound
	And     string
	End     *FrameBound
}

func (f *Frame) text(dst *strings.Builder, redact bool) {
	kw(dst, f.Unit, f.Between)
	f.Start.text(dst, redact)
	if f.End != nil {
		kw(dst, f.And)
		f.End.text(dst, redact)
	}
}

func (f *Frame) walk(v Visitor) {
	Walk(v, f.Start)
	if f.End != nil {
		Walk(v, f.End)
	}
}

// FrameBound is UNBOUNDED PRECEDING,
// CURRENT ROW, or 'offset PRECEDING|FOLLOWING'.
type FrameBound struct {
	Offset Node
	Words  []string
}

func (f *FrameBound) text(dst *strings.Builder, redact bool) {
	if f.Offset != nil {
		dst.WriteByte(' ')
		f.Offset.text(dst, redact)
	}
	kw(dst, f.Words...)
}

func (f *FrameBound) walk(v Visitor) {
	walkOpt(v, f.Offset)
}

// Case is a CASE expression,
// either searched (no Operand)
// or simple.
type Case struct {
	Case    string
	Operand Node
	Whens   []*When
	// Else is the ELSE keyword
	// when ElseExpr is present
	Else     string
	ElseExpr Node
	End      string
}

func (c *Case) text(dst *strings.Builder, redact bool) {
	kw(dst, c.Case)
	if c.Operand != nil {
		dst.WriteByte(' ')
		c.Operand.text(dst, redact)
	}
	for _, w := range c.Whens {
		w.text(dst, redact)
	}
	if c.ElseExpr != nil {
		kw(dst, c.Else)
		dst.WriteByte(' ')
		c.ElseExpr.text(dst, redact)
	}
	kw(dst, c.End)
}

func (c *Case) walk(v Visitor) {
	walkOpt(v, c.Operand)
	for _, w := range c.Whens {
		Walk(v, w)
	}
	walkOpt(v, c.ElseExpr)
}

// When is one WHEN ... THEN ... arm of a Case.
type When struct {
	When   string
	Cond   Node
	Then   string
	Result Node
}

func (w *When) text(dst *strings.Builder, redact bool) {
	kw(dst, w.When)
	dst.WriteByte(' ')
	w.Cond.text(dst, redact)
	kw(dst, w.Then)
	dst.WriteByte(' ')
	w.Result.text(dst, redact)
}

func (w *When) walk(v Visitor) {
	Walk(v, w.Cond)
	Walk(v, w.Result)
}

// Cast is CAST(expr AS type)
// (or TRY_CAST).
type Cast struct {
	Cast string
	Expr Node
	As   string
	Type *TypeName
}

func (c *Cast) text(dst *strings.Builder, redact bool) {
	kw(dst, c.Cast)
	dst.WriteByte('(')
	c.Expr.text(dst, redact)
	kw(dst, c.As)
	dst.WriteByte(' ')
	c.Type.text(dst, redact)
	dst.WriteByte(')')
}

func (c *Cast) walk(v Visitor) {
	Walk(v, c.Expr)
}

// TypeName is a type in a CAST,
// i.e. VARCHAR, DECIMAL(10, 2),
// DOUBLE PRECISION.
type TypeName struct {
	Words []string
	// Args are the literal type
	// parameters, if parenthesized
	Args []string
}

func (t *TypeName) text(dst *strings.Builder, redact bool) {
	kw(dst, t.Words...)
	if len(t.Args) > 0 {
		identList(dst, t.Args)
	}
}

// Extract is EXTRACT(part FROM expr)
type Extract struct {
	Extract string
	Part    string
	From    string
	Expr    Node
}

func (e *Extract) text(dst *strings.Builder, redact bool) {
	kw(dst, e.Extract)
	dst.WriteByte('(')
	kw(dst, e.Part, e.From)
	dst.WriteByte(' ')
	e.Expr.text(dst, redact)
	dst.WriteByte(')')
}

func (e *Extract) walk(v Visitor) {
	Walk(v, e.Expr)
}
