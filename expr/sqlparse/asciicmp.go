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

func asciiUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return (b - 'a') + 'A'
	}

	return b
}

// equalASCII compares a word in any case
// with a word that is upper-case (or has
// no letters at all)
func equalASCII(anyCase, upperCaseOrNonLetter string) bool {
	if len(anyCase) != len(upperCaseOrNonLetter) {
		return false
	}

	for i := 0; i < len(anyCase); i++ {
		if asciiUpper(anyCase[i]) != upperCaseOrNonLetter[i] {
			return false
		}
	}

	return true
}

func upperASCII(s string) string {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		buf[i] = asciiUpper(s[i])
	}
	return string(buf)
}
