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

type builtinClass uint8

const (
	scalarBuiltin builtinClass = iota + 1
	aggregateBuiltin
	windowBuiltin
)

var builtin2Class = map[string]builtinClass{
	// aggregates
	"COUNT":                 aggregateBuiltin,
	"SUM":                   aggregateBuiltin,
	"AVG":                   aggregateBuiltin,
	"MIN":                   aggregateBuiltin,
	"MAX":                   aggregateBuiltin,
	"ARRAY_AGG":             aggregateBuiltin,
	"STRING_AGG":            aggregateBuiltin,
	"GROUP_CONCAT":          aggregateBuiltin,
	"BIT_AND":               aggregateBuiltin,
	"BIT_OR":                aggregateBuiltin,
	"BIT_XOR":               aggregateBuiltin,
	"BOOL_AND":              aggregateBuiltin,
	"BOOL_OR":               aggregateBuiltin,
	"EVERY":                 aggregateBuiltin,
	"STDDEV":                aggregateBuiltin,
	"STDDEV_POP":            aggregateBuiltin,
	"STDDEV_SAMP":           aggregateBuiltin,
	"VARIANCE":              aggregateBuiltin,
	"VAR_POP":               aggregateBuiltin,
	"VAR_SAMP":              aggregateBuiltin,
	"APPROX_COUNT_DISTINCT": aggregateBuiltin,
	"APPROX_PERCENTILE":     aggregateBuiltin,
	"PERCENTILE_CONT":       aggregateBuiltin,
	"PERCENTILE_DISC":       aggregateBuiltin,
	"MEDIAN":                aggregateBuiltin,
	"ANY_VALUE":             aggregateBuiltin,

	// window-only functions
	"ROW_NUMBER":   windowBuiltin,
	"RANK":         windowBuiltin,
	"DENSE_RANK":   windowBuiltin,
	"PERCENT_RANK": windowBuiltin,
	"CUME_DIST":    windowBuiltin,
	"NTILE":        windowBuiltin,
	"LAG":          windowBuiltin,
	"LEAD":         windowBuiltin,
	"FIRST_VALUE":  windowBuiltin,
	"LAST_VALUE":   windowBuiltin,
	"NTH_VALUE":    windowBuiltin,

	// scalar functions
	"ABS":            scalarBuiltin,
	"CEIL":           scalarBuiltin,
	"CEILING":        scalarBuiltin,
	"FLOOR":          scalarBuiltin,
	"ROUND":          scalarBuiltin,
	"TRUNC":          scalarBuiltin,
	"TRUNCATE":       scalarBuiltin,
	"SQRT":           scalarBuiltin,
	"POW":            scalarBuiltin,
	"POWER":          scalarBuiltin,
	"EXP":            scalarBuiltin,
	"LN":             scalarBuiltin,
	"LOG":            scalarBuiltin,
	"LOG10":          scalarBuiltin,
	"MOD":            scalarBuiltin,
	"SIGN":           scalarBuiltin,
	"GREATEST":       scalarBuiltin,
	"LEAST":          scalarBuiltin,
	"COALESCE":       scalarBuiltin,
	"NULLIF":         scalarBuiltin,
	"IFNULL":         scalarBuiltin,
	"NVL":            scalarBuiltin,
	"IF":             scalarBuiltin,
	"CONCAT":         scalarBuiltin,
	"CONCAT_WS":      scalarBuiltin,
	"LENGTH":         scalarBuiltin,
	"CHAR_LENGTH":    scalarBuiltin,
	"LOWER":          scalarBuiltin,
	"UPPER":          scalarBuiltin,
	"TRIM":           scalarBuiltin,
	"LTRIM":          scalarBuiltin,
	"RTRIM":          scalarBuiltin,
	"SUBSTR":         scalarBuiltin,
	"SUBSTRING":      scalarBuiltin,
	"REPLACE":        scalarBuiltin,
	"SPLIT_PART":     scalarBuiltin,
	"LPAD":           scalarBuiltin,
	"RPAD":           scalarBuiltin,
	"REGEXP_EXTRACT": scalarBuiltin,
	"REGEXP_REPLACE": scalarBuiltin,
	"DATE_ADD":       scalarBuiltin,
	"DATE_SUB":       scalarBuiltin,
	"DATE_DIFF":      scalarBuiltin,
	"DATEDIFF":       scalarBuiltin,
	"DATE_TRUNC":     scalarBuiltin,
	"DATE_FORMAT":    scalarBuiltin,
	"TO_DATE":        scalarBuiltin,
	"NOW":            scalarBuiltin,
	"YEAR":           scalarBuiltin,
	"MONTH":          scalarBuiltin,
	"DAY":            scalarBuiltin,
	"HOUR":           scalarBuiltin,
	"MINUTE":         scalarBuiltin,
	"SECOND":         scalarBuiltin,
}

func lookupBuiltin(name string) builtinClass {
	return builtin2Class[strings.ToUpper(name)]
}

// IsBuiltin returns true if name
// (in any case) is a well-known function.
func IsBuiltin(name string) bool {
	return lookupBuiltin(name) != 0
}

// IsAggregate returns true if name
// (in any case) is an aggregate function.
func IsAggregate(name string) bool {
	return lookupBuiltin(name) == aggregateBuiltin
}

// IsWindowOnly returns true if name is
// a function that is only valid with OVER.
func IsWindowOnly(name string) bool {
	return lookupBuiltin(name) == windowBuiltin
}
