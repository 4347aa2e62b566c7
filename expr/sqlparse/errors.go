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

// ErrorList collects syntax errors
// in the order they were reported.
type ErrorList struct {
	msgs []string
}

// Add records a message for the
// given 1-based line and column.
func (e *ErrorList) Add(line, col int, msg string) {
	e.msgs = append(e.msgs, fmt.Sprintf("line %d:%d: %s", line, col, msg))
}

// HasErrors returns true if any
// error has been recorded.
func (e *ErrorList) HasErrors() bool {
	return e != nil && len(e.msgs) > 0
}

// Messages returns the recorded messages.
func (e *ErrorList) Messages() []string {
	if e == nil {
		return nil
	}
	return e.msgs
}

// Err returns a *SyntaxError carrying
// every message, or nil if there are none.
func (e *ErrorList) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return &SyntaxError{Messages: append([]string(nil), e.msgs...)}
}

// SyntaxError is returned when the input
// did not parse. It carries every message
// the parser reported.
type SyntaxError struct {
	Messages []string
}

func (s *SyntaxError) Error() string {
	return strings.Join(s.Messages, "\n")
}
