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
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/SnellerInc/sqlfmt/expr"
	"github.com/SnellerInc/sqlfmt/expr/sqlparse"

	"github.com/google/uuid"
)

// maxBodySize is the largest request
// body accepted by the API handlers
const maxBodySize = 4 << 20

func (s *server) handle(handler func(http.ResponseWriter, *http.Request), methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		// obtain the real address
		remoteAddress := r.RemoteAddr
		forwarded := false
		if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
			parts := strings.Split(forwardedFor, ",")
			remoteAddress = strings.TrimSpace(parts[len(parts)-1])
			forwarded = true
		}
		id := uuid.New()
		// unforwarded requests to "/"
		// are just load balancer heartbeats;
		// don't log these, as they spam the logs
		if r.URL.Path != "/" || forwarded {
			s.logger.Printf("Request %s %s from %s (id %s)", r.Method, r.URL.Path, remoteAddress, id)
		}
		w.Header().Set("X-Request-Id", id.String())
		if version != "" {
			w.Header().Set("X-Sqlfmt-Version", version)
		}
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		for _, httpMethod := range methods {
			if r.Method == httpMethod {
				handler(w, r)
				return
			}
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// readRequest decodes the JSON body of r into v
func readRequest(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return err
	}
	if len(body) > maxBodySize {
		return fmt.Errorf("request body larger than %d bytes", maxBodySize)
	}
	return json.Unmarshal(body, v)
}

func writeResultResponse(w http.ResponseWriter, statusCode int, v interface{}) {
	result, err := json.Marshal(v)
	if err != nil {
		panic("unable to serialize HTTP response")
	}
	w.Header().Add("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(result)))
	w.WriteHeader(statusCode)
	w.Write(result)
}

// redacted returns text that can be logged
// in place of the query held in res
func redacted(res *sqlparse.Result) string {
	if res.Script == nil || res.Err() != nil {
		return fmt.Sprintf("<%d bytes, not parsed>", len(res.Source))
	}
	return expr.ToRedacted(res.Script)
}
