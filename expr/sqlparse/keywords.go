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

// reserved words cannot be used as
// bare identifiers (aliases, column names)
var reserved = map[string]struct{}{
	"ALL":       {},
	"AND":       {},
	"ANTI":      {},
	"AS":        {},
	"ASC":       {},
	"BETWEEN":   {},
	"BY":        {},
	"CASE":      {},
	"CROSS":     {},
	"DESC":      {},
	"DISTINCT":  {},
	"ELSE":      {},
	"END":       {},
	"ESCAPE":    {},
	"EXCEPT":    {},
	"EXISTS":    {},
	"EXPLAIN":   {},
	"FALSE":     {},
	"FROM":      {},
	"FULL":      {},
	"GROUP":     {},
	"HAVING":    {},
	"ILIKE":     {},
	"IN":        {},
	"INNER":     {},
	"INSERT":    {},
	"INTERSECT": {},
	"INTO":      {},
	"IS":        {},
	"JOIN":      {},
	"LEFT":      {},
	"LIKE":      {},
	"LIMIT":     {},
	"MINUS":     {},
	"NATURAL":   {},
	"NOT":       {},
	"NULL":      {},
	"NULLS":     {},
	"OFFSET":    {},
	"ON":        {},
	"OR":        {},
	"ORDER":     {},
	"OUTER":     {},
	"OVER":      {},
	"PARTITION": {},
	"REGEXP":    {},
	"RIGHT":     {},
	"RLIKE":     {},
	"SELECT":    {},
	"SEMI":      {},
	"THEN":      {},
	"TRUE":      {},
	"UNION":     {},
	"USING":     {},
	"WHEN":      {},
	"WHERE":     {},
	"WINDOW":    {},
	"WITH":      {},
}

func isReserved(word string) bool {
	_, ok := reserved[upperASCII(word)]
	return ok
}

// words that form constants on their own
var constants = map[string]struct{}{
	"TRUE":              {},
	"FALSE":             {},
	"NULL":              {},
	"UNKNOWN":           {},
	"MISSING":           {},
	"CURRENT_DATE":      {},
	"CURRENT_TIME":      {},
	"CURRENT_TIMESTAMP": {},
	"CURRENT_USER":      {},
	"LOCALTIME":         {},
	"LOCALTIMESTAMP":    {},
}

// types that may prefix a string literal
var typedLiterals = map[string]struct{}{
	"DATE":      {},
	"TIME":      {},
	"TIMESTAMP": {},
	"DATETIME":  {},
}

// set operators
var setops = map[string]struct{}{
	"UNION":     {},
	"INTERSECT": {},
	"EXCEPT":    {},
	"MINUS":     {},
}

// words that may precede JOIN
var joinKinds = map[string]struct{}{
	"CROSS":   {},
	"INNER":   {},
	"LEFT":    {},
	"RIGHT":   {},
	"FULL":    {},
	"OUTER":   {},
	"SEMI":    {},
	"ANTI":    {},
	"NATURAL": {},
}

// pattern matching operators
var likeOps = map[string]struct{}{
	"LIKE":   {},
	"ILIKE":  {},
	"RLIKE":  {},
	"REGEXP": {},
}

var comparisons = map[string]struct{}{
	"=":   {},
	"==":  {},
	"<>":  {},
	"!=":  {},
	"<":   {},
	"<=":  {},
	">":   {},
	">=":  {},
	"<=>": {},
}

func inSet(set map[string]struct{}, word string) bool {
	_, ok := set[upperASCII(word)]
	return ok
}
