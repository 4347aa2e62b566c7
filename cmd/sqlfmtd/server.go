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
	"context"
	"log"
	"net"
	"net/http"

	"github.com/SnellerInc/sqlfmt/format"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
)

type server struct {
	logger *log.Logger

	// defaults is the configuration that
	// per-request options are applied to;
	// it is never modified after startup
	defaults *format.Config
	// cache holds /api/format responses;
	// it is noCache{} when caching is disabled
	cache ResultCache

	// when started, the http server
	srv http.Server
	// when started, the address of the http listener
	bound net.Addr

	// hack to avoid data races in testing
	aboutToServe func()
}

func (s *server) Close() error {
	return s.srv.Close()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *server) route(r *mux.Router, path string, handler http.HandlerFunc, methods ...string) {
	r.HandleFunc(path, s.handle(handler, methods...)).Methods(append(methods, http.MethodOptions)...)
}

func (s *server) handler() http.Handler {
	r := mux.NewRouter()
	s.route(r, "/", s.versionHandler, http.MethodGet, http.MethodHead)
	s.route(r, "/ping", s.pingHandler, http.MethodGet)
	s.route(r, "/api/format", s.formatHandler, http.MethodPost)
	s.route(r, "/api/dag/analyze", s.analyzeHandler, http.MethodPost)
	return gzhttp.GzipHandler(r)
}

func (s *server) Serve(httpsock net.Listener) error {
	s.bound = httpsock.Addr()
	if s.defaults == nil {
		s.defaults = format.Default()
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	s.srv.Handler = s.handler()
	if s.aboutToServe != nil {
		s.aboutToServe()
	}
	return s.srv.Serve(httpsock)
}
