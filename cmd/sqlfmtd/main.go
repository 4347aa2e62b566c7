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

// Command sqlfmtd serves the SQL formatter
// and the plan graph analyzer over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SnellerInc/sqlfmt"
	"github.com/SnellerInc/sqlfmt/format"

	"github.com/bradfitz/gomemcache/memcache"
)

var version = "development"

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-version":
			v, ok := sqlfmt.Version()
			if ok {
				fmt.Println(v)
			} else {
				fmt.Println("version not available, please check -build")
			}
			return
		case "-build":
			bi, ok := sqlfmt.BuildInfo()
			if ok {
				fmt.Print(bi)
			} else {
				fmt.Println("build info not available")
			}
			return
		}
	}

	ver, ok := sqlfmt.Version()
	if ok {
		version = ver
	}
	runDaemon(args)
}

func runDaemon(args []string) {
	daemonCmd := flag.NewFlagSet("daemon", flag.ExitOnError)
	daemonEndpoint := daemonCmd.String("e", "127.0.0.1:8000", "endpoint to listen on (REST API)")
	memcacheEndpoint := daemonCmd.String("memcache", "", "optional memcache address for caching formatted SQL")
	cacheTTL := daemonCmd.Int("cache-ttl", 60*60, "expiration of cached results in seconds")
	cacheSecret := daemonCmd.String("cache-secret", os.Getenv("SQLFMT_CACHE_SECRET"), "secret for encrypting cached results (default $SQLFMT_CACHE_SECRET)")
	configFile := daemonCmd.String("config", "", "YAML or JSON file with the default format options")

	if daemonCmd.Parse(args) != nil {
		os.Exit(1)
	}
	logger := log.New(os.Stderr, "", log.Lshortfile)

	server := &server{
		logger:   logger,
		defaults: format.Default(),
		cache:    noCache{},
	}
	if *configFile != "" {
		cfg, err := format.LoadConfig(*configFile)
		if err != nil {
			logger.Fatalf("can't load %q: %s", *configFile, err)
		}
		server.defaults = cfg
	}
	if *memcacheEndpoint != "" {
		if *cacheSecret == "" {
			logger.Println("warning: caching with an empty -cache-secret")
		}
		cache, err := newMemcacheCache(memcache.New(*memcacheEndpoint), *cacheSecret, *cacheTTL)
		if err != nil {
			logger.Fatal(err)
		}
		server.cache = cache
	}

	httpl, err := net.Listen("tcp", *daemonEndpoint)
	if err != nil {
		server.logger.Fatal(err)
	}
	go func() {
		server.logger.Printf("sqlfmt daemon %s listening on %v\n", version, httpl.Addr())
		err := server.Serve(httpl)
		if err != nil && err != http.ErrServerClosed {
			server.logger.Fatal(err)
		}
	}()

	c := make(chan os.Signal, 1)

	// accept graceful shutdowns when quit via SIGINT (Ctrl+C) or SIGTERM
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// doesn't block if no connections, but will otherwise wait until the timeout deadline
	server.Shutdown(ctx)
}
