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
	"fmt"
	"strings"
)

// distance returns the (unrestricted)
// Damerau-Levenshtein distance between a and b:
// the number of insertions, deletions, substitutions
// and transpositions of adjacent runes that turn a into b
func distance(a, b []rune) int {
	la, lb := len(a), len(b)
	switch {
	case la == 0:
		return lb
	case lb == 0:
		return la
	}
	// d is (la+2)x(lb+2); row and column 0 hold
	// the "infinite" sentinel
	w := lb + 2
	d := make([]int, (la+2)*w)
	inf := la + lb + 1
	d[0] = inf
	for i := 0; i <= la; i++ {
		d[(i+1)*w+1] = i
		d[(i+1)*w] = inf
	}
	for j := 0; j <= lb; j++ {
		d[w+j+1] = j
		d[j+1] = inf
	}
	// last row of a in which each rune was seen
	da := make(map[rune]int)
	for i := 1; i <= la; i++ {
		db := 0
		for j := 1; j <= lb; j++ {
			i1 := da[b[j-1]]
			j1 := db
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
				db = j
			}
			d[(i+1)*w+j+1] = min(
				d[i*w+j]+cost,                  // substitution
				d[(i+1)*w+j]+1,                 // insertion
				d[i*w+j+1]+1,                   // deletion
				d[i1*w+j1]+(i-i1-1)+1+(j-j1-1), // transposition
			)
		}
		da[a[i-1]] = i
	}
	return d[(la+1)*w+lb+1]
}

func min(first int, rest ...int) int {
	for _, i := range rest {
		if i < first {
			first = i
		}
	}
	return first
}

// suggest returns a "did you mean" hint
// when t is a word that is a likely
// misspelling of one of the keywords in words,
// or the empty string otherwise
func suggest(t Token, words ...string) string {
	if t.Kind != Ident {
		return ""
	}
	text := []rune(strings.ToUpper(t.Text))
	best, bestdist := "", 0
	for _, w := range words {
		d := distance(text, []rune(w))
		if d == 0 {
			return ""
		}
		// one edit for short words, two for longer ones
		limit := 1
		if len(w) > 4 {
			limit = 2
		}
		if d <= limit && (best == "" || d < bestdist) {
			best, bestdist = w, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("; did you mean %s?", best)
}
