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

package format

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// quoted strings, with backslash escapes
	literalRe   = regexp.MustCompile(`'([^'\\]|\\.)*'|"([^"\\]|\\.)*"`)
	decEntityRe = regexp.MustCompile(`&#[0-9]+;`)
	hexEntityRe = regexp.MustCompile(`&#[xX][0-9a-fA-F]+;`)
	newlinesRe  = regexp.MustCompile(`\n{3,}`)

	escapes = strings.NewReplacer(
		`\n`, "\n",
		`\t`, "\t",
		`\r`, "\r",
		`\f`, "\f",
		`\b`, "\b",
		`\"`, `"`,
		`\'`, `'`,
		`\\`, `\`,
	)
	entities = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&#x27;", "'",
		"&apos;", "'",
		"&nbsp;", " ",
		"&#32;", " ",
		"&#160;", " ",
		"&#xa0;", " ",
		"&#xA0;", " ",
	)
	controls = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\f", "",
		"\b", "",
		"\x00", "",
		"\x1b", "",
		"\u200b", "",
		"\u200c", "",
		"\u200d", "",
		"\ufeff", "",
	)
)

// Normalize cleans up SQL text that has been
// escaped or mangled in transit (copied out of
// a log line, a JSON string or an HTML page).
// Outside of quoted strings it decodes backslash
// escapes and HTML entities, removes control
// and zero-width characters, converts line
// endings to '\n' and tabs to four spaces, and
// collapses runs of blank lines.
//
// Normalize does not parse its input.
func Normalize(src string) string {
	var out strings.Builder
	last := 0
	for _, loc := range literalRe.FindAllStringIndex(src, -1) {
		out.WriteString(normalizeText(src[last:loc[0]]))
		out.WriteString(src[loc[0]:loc[1]])
		last = loc[1]
	}
	out.WriteString(normalizeText(src[last:]))
	return out.String()
}

func normalizeText(s string) string {
	if s == "" {
		return s
	}
	s = escapes.Replace(s)
	s = entities.Replace(s)
	s = decEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		return entity(m, m[2:len(m)-1], 10)
	})
	s = hexEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		return entity(m, m[3:len(m)-1], 16)
	})
	s = controls.Replace(s)
	s = strings.ReplaceAll(s, "\t", "    ")
	return newlinesRe.ReplaceAllString(s, "\n\n")
}

func entity(m, digits string, base int) string {
	code, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return m
	}
	return string(rune(code))
}
