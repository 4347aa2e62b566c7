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

package main

import (
	"net/http"
	"strings"

	"github.com/SnellerInc/sqlfmt/expr/sqlparse"
	"github.com/SnellerInc/sqlfmt/plan"
)

type analyzeRequest struct {
	SQL string `json:"sql"`
}

type analyzeResponse struct {
	Success bool        `json:"success"`
	Graph   *plan.Graph `json:"graph,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// analyzeHandler answers with 200 OK
// even when the analysis fails;
// clients check "success"
func (s *server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readRequest(r, &req); err != nil {
		writeResultResponse(w, http.StatusBadRequest, &analyzeResponse{Error: "Failed to analyze SQL: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeResultResponse(w, http.StatusOK, &analyzeResponse{Error: "SQL statement is required"})
		return
	}

	res := sqlparse.Parse([]byte(req.SQL))
	s.logger.Printf("analyze: %s", redacted(res))
	var g *plan.Graph
	err := res.Err()
	if err != nil {
		err = &plan.AnalysisError{Err: err}
	} else {
		g, err = plan.Build(res.Script)
	}
	if err != nil {
		writeResultResponse(w, http.StatusOK, &analyzeResponse{Error: "Failed to analyze SQL: " + err.Error()})
		return
	}
	s.logger.Printf("analyze: %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	writeResultResponse(w, http.StatusOK, &analyzeResponse{Success: true, Graph: g})
}
