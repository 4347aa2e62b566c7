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

package format

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	text := `
indent: "  "
keywordCase: lower
commaStyle: before
breakAndOr: true
`
	c, err := ParseConfig([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Indent = "  "
	want.KeywordCase = Lower
	want.CommaStyle = CommaBefore
	want.BreakAndOr = true
	if !reflect.DeepEqual(c, want) {
		t.Errorf("got  %+v", c)
		t.Errorf("want %+v", want)
	}
}

func TestParseConfigErrors(t *testing.T) {
	testcases := []struct {
		text, field string
	}{
		{"keywordCase: sideways", "keywordCase"},
		{"commaStyle: middle", "commaStyle"},
		{"mode: pretty", "mode"},
		{"nosuchfield: true", "nosuchfield"},
	}
	for i := range testcases {
		_, err := ParseConfig([]byte(testcases[i].text))
		if err == nil {
			t.Errorf("%q: expected an error", testcases[i].text)
			continue
		}
		if !strings.Contains(err.Error(), testcases[i].field) {
			t.Errorf("%q: error %q does not name %s", testcases[i].text, err, testcases[i].field)
		}
	}

	_, err := ParseConfig([]byte(`indent: "ab"`))
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "indent" {
		t.Errorf("expected an indent ConfigError, got %v", err)
	}
}

func TestConfigJSON(t *testing.T) {
	for _, c := range []*Config{Default(), All(), Minify()} {
		buf, err := json.Marshal(c)
		if err != nil {
			t.Fatal(err)
		}
		if c.Mode == ModeMinify && !strings.Contains(string(buf), `"mode":"minify"`) {
			t.Errorf("unexpected encoding %s", buf)
		}
		var out Config
		if err := json.Unmarshal(buf, &out); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(&out, c) {
			t.Errorf("round-trip of %s produced %+v", buf, out)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sqlfmt.yaml")
	err := os.WriteFile(path, []byte("maxLineLength: 80\nbreakSelectItems: true\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxLineLength != 80 || !c.BreakSelectItems || c.Indent != "    " {
		t.Errorf("unexpected config %+v", c)
	}
	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
