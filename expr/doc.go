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

// Package expr implements the
// syntax tree produced by the SQL parser.
//
// Each of the tree node types satisfies
// the Node interface. Unlike a typical
// AST, the tree keeps the exact source
// spelling of every keyword, identifier,
// operator and literal, so that a renderer
// can reproduce the input token-for-token
// while only changing whitespace and
// keyword case.
//
// The critical entry points for this
// package are Walk, ToString and ToRedacted.
package expr
