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
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SnellerInc/sqlfmt/format"
	"github.com/SnellerInc/sqlfmt/plan"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func parseFlags(t *testing.T, args ...string) *options {
	t.Helper()
	fs := flag.NewFlagSet("sqlfmt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestConfigure(t *testing.T) {
	cfg, err := parseFlags(t).configure()
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *format.Default() {
		t.Errorf("no flags: got %+v", cfg)
	}

	cfg, err = parseFlags(t, "-indent", "2", "-keyword-style", "lower",
		"-break-and-or", "-break-cte=false", "-comma-style", "both").configure()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Indent != "  " {
		t.Errorf("indent %q", cfg.Indent)
	}
	if cfg.KeywordCase != format.Lower || cfg.CommaStyle != format.CommaBoth {
		t.Errorf("case %s, comma %s", cfg.KeywordCase, cfg.CommaStyle)
	}
	if !cfg.BreakAndOr || cfg.BreakCTE {
		t.Errorf("switches not applied: %+v", cfg)
	}
	// switches that were not given keep the preset value
	if !cfg.AlignFunctionArgs || cfg.BreakInList {
		t.Errorf("preset not kept: %+v", cfg)
	}

	cfg, err = parseFlags(t, "-all", "-break-in-list=false").configure()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.BreakOrderBy || cfg.BreakInList {
		t.Errorf("-all: got %+v", cfg)
	}

	cfg, err = parseFlags(t, "-m", "-keyword-style", "upper").configure()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != format.ModeMinify || cfg.KeywordCase != format.Upper {
		t.Errorf("-m: got %+v", cfg)
	}

	for _, args := range [][]string{
		{"-indent", "-1"},
		{"-keyword-style", "shouting"},
		{"-comma-style", "sideways"},
	} {
		if _, err := parseFlags(t, args...).configure(); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestConfigFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "sqlfmt.yaml")
	err := os.WriteFile(name, []byte("keywordCase: lower\nbreakSelectItems: true\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := parseFlags(t, "-config", name, "-keyword-style", "unchanged").configure()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.BreakSelectItems {
		t.Error("file value not used")
	}
	if cfg.KeywordCase != format.Unchanged {
		t.Errorf("flag did not override the file: %s", cfg.KeywordCase)
	}
}

func TestReadInput(t *testing.T) {
	const text = "select a from t where b = 1"
	dir := t.TempDir()

	plain := filepath.Join(dir, "q.sql")
	if err := os.WriteFile(plain, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	var gzbuf bytes.Buffer
	gz := gzip.NewWriter(&gzbuf)
	io.WriteString(gz, text)
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	gzname := filepath.Join(dir, "q.sql.gz")
	if err := os.WriteFile(gzname, gzbuf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	zname := filepath.Join(dir, "q.sql.zst")
	if err := os.WriteFile(zname, enc.EncodeAll([]byte(text), nil), 0644); err != nil {
		t.Fatal(err)
	}
	enc.Close()

	for _, name := range []string{plain, gzname, zname} {
		got, err := readInput(name)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if string(got) != text {
			t.Errorf("%s: got %q", name, got)
		}
	}
	if _, err := readInput(filepath.Join(dir, "missing.sql")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDo(t *testing.T) {
	var out strings.Builder
	o := parseFlags(t, "-m")
	cfg, err := o.configure()
	if err != nil {
		t.Fatal(err)
	}
	if err := o.do(&out, []byte("SELECT  a ,  b\nFROM t"), cfg); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "SELECT a,b FROM t\n" {
		t.Errorf("got %q", got)
	}

	out.Reset()
	o = parseFlags(t, "-dag", "-graph", "list")
	if err := o.do(&out, []byte("SELECT * FROM users"), cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "graph: 2 nodes, 1 edges\n") {
		t.Errorf("got %q", out.String())
	}

	out.Reset()
	o = parseFlags(t, "-dag")
	if err := o.do(&out, []byte("SELECT FROM"), cfg); err == nil {
		t.Error("expected an analysis error")
	}
}

func TestWriteGraph(t *testing.T) {
	g, err := plan.Analyze([]byte("SELECT * FROM users"))
	if err != nil {
		t.Fatal(err)
	}
	for _, enc := range graphFormats {
		var out strings.Builder
		if err := writeGraph(&out, g, enc); err != nil {
			t.Errorf("%s: %s", enc, err)
			continue
		}
		// the tree only names operators
		want := "users"
		if enc == "tree" {
			want = "SCAN (0)"
		}
		if !strings.Contains(out.String(), want) {
			t.Errorf("%s: output does not contain %q: %s", enc, want, out.String())
		}
	}
	if err := writeGraph(io.Discard, g, "svg"); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
}

func TestInputs(t *testing.T) {
	if got := parseFlags(t).inputs(); len(got) != 1 || got[0] != "-" {
		t.Errorf("default inputs: %v", got)
	}
	if got := parseFlags(t, "a.sql", "b.sql").inputs(); len(got) != 2 {
		t.Errorf("file arguments: %v", got)
	}
	if got := parseFlags(t, "-s", "SELECT 1").inputs(); got != nil {
		t.Errorf("-s: %v", got)
	}
}

func TestHelp(t *testing.T) {
	var out bytes.Buffer
	printOrderedHelp(&out, helpOrder)
	text := out.String()
	for _, section := range []string{"Input/Output", "Layout", "Breaks", "Plan graph"} {
		if !strings.Contains(text, "\n"+section+"\n") {
			t.Errorf("missing section %q", section)
		}
	}
	for _, sw := range switches {
		if !strings.Contains(text, "-"+sw.name) {
			t.Errorf("-%s is not listed", sw.name)
		}
	}
	if strings.Index(text, "-break-cte") < strings.Index(text, "Breaks") {
		t.Error("-break-cte printed outside its section")
	}
}
