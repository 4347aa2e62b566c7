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

// Node is a node in the syntax tree.
type Node interface {
	Printable

	walk(v Visitor)
}

// Printable is anything that can write
// itself as (single-line) SQL text.
type Printable interface {
	// text should write the textual representation
	// of this node to dst, and should redact itself
	// if it is a constant and redact is true
	text(dst *strings.Builder, redact bool)
}

// Visitor is an interface that must
// be satisfied by the argument to Visit.
//
// A Visitor's Visit method is invoked for each node encountered by Walk. If
// the result visitor w is not nil, Walk visits each of the children of node
// with the visitor w, followed by a call of w.Visit(nil).
//
// (see also: ast.Visitor)
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor w for
// each of the non-nil children of node, followed by a call of w.Visit(nil).
//
// (see also: ast.Walk)
func Walk(v Visitor, n Node) {
	w := v.Visit(n)
	if w != nil {
		n.walk(w)
		w.Visit(nil)
	}
}

// walkOpt walks n only if it is present
func walkOpt(v Visitor, n Node) {
	if n != nil {
		Walk(v, n)
	}
}

func walkList(v Visitor, lst []Node) {
	for i := range lst {
		walkOpt(v, lst[i])
	}
}

type walkFn func(Node) bool

func (w walkFn) Visit(n Node) Visitor {
	if n == nil || !w(n) {
		return nil
	}
	return w
}

// Inspect calls fn for n and each of its
// descendants in depth-first order.
// If fn returns false, the children of
// that node are not visited.
func Inspect(n Node, fn func(Node) bool) {
	Walk(walkFn(fn), n)
}

// ToString returns the single-line string
// representation of this AST node
// and its children. Keywords are written
// in upper case; everything else keeps
// its source spelling.
func ToString(p Printable) string {
	if p == nil {
		return "<nil>"
	}
	var dst strings.Builder
	p.text(&dst, false)
	return dst.String()
}

// ToRedacted returns the string
// representation of this AST node
// and its children, but with all
// constant expressions replaced
// with opaque digests.
//
// Use this to log query text that
// may contain sensitive values.
func ToRedacted(p Printable) string {
	if p == nil {
		return "<nil>"
	}
	var dst strings.Builder
	p.text(&dst, true)
	return dst.String()
}

// kw writes each non-empty keyword
// in upper case, separated by spaces;
// a separating space is added before
// the first word unless dst is empty
// or already ends with a space or '('
func kw(dst *strings.Builder, words ...string) {
	for _, w := range words {
		if w == "" {
			continue
		}
		space(dst)
		dst.WriteString(strings.ToUpper(w))
	}
}

func space(dst *strings.Builder) {
	if dst.Len() == 0 {
		return
	}
	s := dst.String()
	switch s[len(s)-1] {
	case ' ', '(', '[', '.':
		return
	}
	dst.WriteByte(' ')
}

func textList(dst *strings.Builder, lst []Node, redact bool) {
	for i := range lst {
		if i != 0 {
			dst.WriteString(", ")
		}
		lst[i].text(dst, redact)
	}
}

func identList(dst *strings.Builder, lst []string) {
	dst.WriteByte('(')
	dst.WriteString(strings.Join(lst, ", "))
	dst.WriteByte(')')
}
