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
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SnellerInc/sqlfmt/format"

	"github.com/bradfitz/gomemcache/memcache"
)

func TestCacheKey(t *testing.T) {
	key := func(cfg *format.Config, sql string) string {
		k, err := cacheKey(cfg, sql)
		if err != nil {
			t.Fatal(err)
		}
		return k
	}
	a := key(format.Default(), "select 1")
	if a != key(format.Default(), "select 1") {
		t.Error("key is not deterministic")
	}
	if a == key(format.Default(), "select 2") {
		t.Error("different SQL shares a key")
	}
	if a == key(format.All(), "select 1") {
		t.Error("different options share a key")
	}
	if !strings.HasPrefix(a, "sqlfmt:format:") || len(a) > 250 || strings.ContainsAny(a, " \n") {
		t.Errorf("bad memcache key %q", a)
	}
}

func TestSealOpen(t *testing.T) {
	c, err := newMemcacheCache(nil, "secret", 0)
	if err != nil {
		t.Fatal(err)
	}
	const text = "SELECT a\nFROM t"
	buf, err := c.seal("k1", text)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(buf), "FROM t") {
		t.Error("sealed value contains the plaintext")
	}
	got, err := c.open("k1", buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != text {
		t.Errorf("got %q", got)
	}
	if _, err := c.open("k2", buf); err == nil {
		t.Error("opened an entry under a different key")
	}
	if _, err := c.open("k1", buf[:4]); err == nil {
		t.Error("opened a truncated entry")
	}

	other, err := newMemcacheCache(nil, "other secret", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.open("k1", buf); err == nil {
		t.Error("opened an entry with a different secret")
	}
}

func TestMemcacheCache(t *testing.T) {
	client := memcached(t)
	cache, err := newMemcacheCache(client, t.Name(), 0)
	if err != nil {
		t.Fatal(err)
	}
	cfg := format.Default()

	t.Run("get nonexisting", func(t *testing.T) {
		_, ok, err := cache.Fetch(cfg, "select nothing")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Errorf("no value should be returned")
		}
	})

	t.Run("store and load", func(t *testing.T) {
		err := cache.Store(cfg, "select a from t", "SELECT a\nFROM t")
		if err != nil {
			t.Fatal(err)
		}
		got, ok, err := cache.Fetch(cfg, "select a from t")
		if err != nil {
			t.Fatal(err)
		}
		if !ok || got != "SELECT a\nFROM t" {
			t.Errorf("got %q, %v", got, ok)
		}
	})
}

func memcached(t *testing.T) *memcache.Client {
	bin, err := exec.LookPath("memcached")
	if err != nil {
		t.Skip("cannot find memcached:", err)
	}

	port := 12346
	cmd := exec.Command(bin, "-X", "-W", "-l", "127.0.0.1", "-p", strconv.Itoa(port))
	err = cmd.Start()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cmd.Process.Signal(os.Kill)
		cmd.Wait()
	})

	client := memcache.New(fmt.Sprintf("127.0.0.1:%d", port))
	for { // wait for start
		err := client.Ping()
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	return client
}
