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

// Package format renders parsed SQL as
// formatted or minified text.
//
// Rendering only ever changes whitespace
// (and the case of keywords): the sequence of
// non-whitespace characters in the output is
// the same as in the input. Comments are
// re-inserted at the position they occupied
// in that sequence.
package format

import (
	"github.com/SnellerInc/sqlfmt/expr/sqlparse"
)

// Render renders the result of a parse.
// If the parse produced syntax errors,
// Render returns the *sqlparse.SyntaxError
// and no output.
//
// In ModeNormalize the source text is
// normalized instead; see Normalize.
func Render(res *sqlparse.Result, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if cfg.Mode == ModeNormalize {
		return Normalize(string(res.Source)), nil
	}
	if err := res.Err(); err != nil {
		return "", err
	}
	text := renderStatements(res.Script, cfg)
	return collectComments(res.Tokens, cfg.IgnoreComments).replay(text), nil
}

// Format parses src and renders it with cfg.
func Format(src []byte, cfg *Config) (string, error) {
	if cfg != nil && cfg.Mode == ModeNormalize {
		return Normalize(string(src)), nil
	}
	return Render(sqlparse.Parse(src), cfg)
}
