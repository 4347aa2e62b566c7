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
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/SnellerInc/sqlfmt"
)

func (s *server) versionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	encodingFormat := r.Header.Get("Accept")
	switch encodingFormat {
	case "text/plain", "application/json":
	case "", "*/*":
		encodingFormat = "text/plain"
	default:
		http.Error(w, "invalid 'Accept' header", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", encodingFormat)
	w.WriteHeader(http.StatusOK)
	if encodingFormat == "text/plain" {
		fmt.Fprintf(w, "sqlfmt daemon %s", version)
		return
	}
	bi, _ := debug.ReadBuildInfo()
	out := map[string]any{"version": version}
	if v, ok := sqlfmt.Setting(bi, "vcs.time"); ok {
		out["date"] = v
	}
	if v, ok := sqlfmt.Setting(bi, "vcs.revision"); ok {
		out["revision"] = v
	}
	json.NewEncoder(w).Encode(out)
}

func (s *server) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}
