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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/SnellerInc/sqlfmt/expr/sqlparse"
	"github.com/SnellerInc/sqlfmt/format"
)

type formatRequest struct {
	SQL string `json:"sql"`
	// Options is a (possibly partial) format.Config;
	// keys that are absent keep the server defaults
	Options json.RawMessage `json:"options,omitempty"`
}

type formatResponse struct {
	Success      bool   `json:"success"`
	FormattedSQL string `json:"formattedSQL,omitempty"`
	Error        string `json:"error,omitempty"`
}

func formatError(w http.ResponseWriter, msg string) {
	writeResultResponse(w, http.StatusBadRequest, &formatResponse{Error: msg})
}

// config returns the configuration for
// a request with the given options
func (s *server) config(options json.RawMessage) (*format.Config, error) {
	cfg := new(format.Config)
	*cfg = *s.defaults
	if len(options) == 0 || string(options) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(options, cfg); err != nil {
		return nil, err
	}
	if cfg.Mode == format.ModeMinify {
		// minify always uses the preset
		cfg = format.Minify()
	}
	return cfg, cfg.Validate()
}

func (s *server) formatHandler(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := readRequest(r, &req); err != nil {
		formatError(w, "Failed to format SQL: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		formatError(w, "SQL cannot be empty")
		return
	}
	cfg, err := s.config(req.Options)
	if err != nil {
		formatError(w, "Failed to format SQL: "+err.Error())
		return
	}

	text, ok, err := s.cache.Fetch(cfg, req.SQL)
	if err != nil {
		s.logger.Printf("cache fetch: %s", err)
	}
	if ok {
		writeResultResponse(w, http.StatusOK, &formatResponse{Success: true, FormattedSQL: text})
		return
	}

	res := sqlparse.Parse([]byte(req.SQL))
	s.logger.Printf("format (%s): %s", cfg.Mode, redacted(res))
	text, err = format.Render(res, cfg)
	if err != nil {
		formatError(w, "Failed to format SQL: "+err.Error())
		return
	}
	if err := s.cache.Store(cfg, req.SQL, text); err != nil {
		s.logger.Printf("cache store: %s", err)
	}
	writeResultResponse(w, http.StatusOK, &formatResponse{Success: true, FormattedSQL: text})
}
