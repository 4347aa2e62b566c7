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

package plan

import (
	"fmt"
)

// AnalysisError is returned from Build and
// Analyze when a graph could not be produced.
// Err is the underlying cause, which may be
// a *sqlparse.SyntaxError.
type AnalysisError struct {
	Err error
}

func (a *AnalysisError) Error() string {
	return fmt.Sprintf("failed to analyze SQL DAG: %s", a.Err)
}

func (a *AnalysisError) Unwrap() error { return a.Err }
