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

// Package plan extracts a logical
// operator graph from a parsed query.
//
// The Build and Analyze functions walk
// a syntax tree and produce a Graph of
// SCAN, JOIN, FILTER, AGGREGATE (...)
// nodes connected by DATAFLOW edges,
// terminated by a single RESULT node.
// The graph is purely syntactic: no
// catalog is consulted and nothing
// is optimized.
//
// A Graph can be encoded as JSON,
// as Ion text, as a grouped listing,
// as a bottom-up ASCII tree,
// or as Graphviz dot(1) input.
package plan
