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
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"
)

// Mode selects what Render does with its input.
type Mode uint8

const (
	// ModeFormat pretty-prints the input.
	ModeFormat Mode = iota
	// ModeMinify prints the input on as
	// few characters as possible.
	ModeMinify
	// ModeNormalize cleans up the input text
	// without parsing it; see Normalize.
	ModeNormalize
)

// KeywordCase selects how keywords are written.
type KeywordCase uint8

const (
	Upper KeywordCase = iota
	Lower
	// Unchanged keeps the source spelling.
	Unchanged
)

// CommaStyle selects the spacing around commas.
type CommaStyle uint8

const (
	// CommaNone is a bare ','
	CommaNone CommaStyle = iota
	// CommaAfter is ', '
	CommaAfter
	// CommaBefore is ' ,'
	CommaBefore
	// CommaBoth is ' , '
	CommaBoth
)

var (
	modeNames = map[string]Mode{
		"format":    ModeFormat,
		"minify":    ModeMinify,
		"normalize": ModeNormalize,
	}
	caseNames = map[string]KeywordCase{
		"upper":     Upper,
		"lower":     Lower,
		"unchanged": Unchanged,
	}
	commaNames = map[string]CommaStyle{
		"none":   CommaNone,
		"after":  CommaAfter,
		"before": CommaBefore,
		"both":   CommaBoth,
	}
)

// choices lists the accepted names
// of an enumeration in sorted order
func choices[T comparable](m map[string]T) string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

func nameOf[T comparable](m map[string]T, v T) string {
	for k, x := range m {
		if x == v {
			return k
		}
	}
	return fmt.Sprintf("%v", any(v))
}

func parseEnum[T comparable](m map[string]T, what string, text []byte) (T, error) {
	v, ok := m[strings.ToLower(strings.TrimSpace(string(text)))]
	if !ok {
		var zero T
		return zero, &ConfigError{
			Field:   what,
			Message: fmt.Sprintf("unknown value %q (expected one of %s)", text, choices(m)),
		}
	}
	return v, nil
}

func (m Mode) String() string        { return nameOf(modeNames, m) }
func (k KeywordCase) String() string { return nameOf(caseNames, k) }
func (c CommaStyle) String() string  { return nameOf(commaNames, c) }

func (m Mode) MarshalText() ([]byte, error)        { return []byte(m.String()), nil }
func (k KeywordCase) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (c CommaStyle) MarshalText() ([]byte, error)  { return []byte(c.String()), nil }

func (m *Mode) UnmarshalText(text []byte) (err error) {
	*m, err = parseEnum(modeNames, "mode", text)
	return err
}

func (k *KeywordCase) UnmarshalText(text []byte) (err error) {
	*k, err = parseEnum(caseNames, "keywordCase", text)
	return err
}

func (c *CommaStyle) UnmarshalText(text []byte) (err error) {
	*c, err = parseEnum(commaNames, "commaStyle", text)
	return err
}

// Config controls the output of Render.
// A Config is never modified by Render,
// so one Config may be shared between
// concurrent calls.
type Config struct {
	Mode Mode `json:"mode"`
	// Indent is the text written once
	// per indentation level.
	Indent string `json:"indent"`
	// MaxLineLength is the line width in
	// characters above which lines are
	// wrapped at the last break position;
	// zero or less disables wrapping.
	MaxLineLength int         `json:"maxLineLength"`
	KeywordCase   KeywordCase `json:"keywordCase"`
	CommaStyle    CommaStyle  `json:"commaStyle"`

	BreakFunctionArgs  bool `json:"breakFunctionArgs"`
	AlignFunctionArgs  bool `json:"alignFunctionArgs"`
	BreakCaseWhen      bool `json:"breakCaseWhen"`
	AlignCaseWhen      bool `json:"alignCaseWhen"`
	BreakInList        bool `json:"breakInList"`
	AlignInList        bool `json:"alignInList"`
	BreakAndOr         bool `json:"breakAndOr"`
	BreakExplain       bool `json:"breakExplain"`
	BreakCTE           bool `json:"breakCTE"`
	BreakJoinRelations bool `json:"breakJoinRelations"`
	BreakJoinOn        bool `json:"breakJoinOn"`
	AlignJoinOn        bool `json:"alignJoinOn"`
	BreakSelectItems   bool `json:"breakSelectItems"`
	BreakGroupByItems  bool `json:"breakGroupByItems"`
	BreakOrderBy       bool `json:"breakOrderBy"`

	// FormatSubquery expands subqueries in
	// place; when it is false, subqueries are
	// minified inside their parentheses.
	FormatSubquery bool `json:"formatSubquery"`
	// IgnoreComments drops comments other
	// than optimizer hints (/*+ ... */).
	IgnoreComments bool `json:"ignoreComments"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mode:              ModeFormat,
		Indent:            "    ",
		MaxLineLength:     120,
		KeywordCase:       Upper,
		CommaStyle:        CommaAfter,
		AlignFunctionArgs: true,
		BreakCaseWhen:     true,
		BreakCTE:          true,
		FormatSubquery:    true,
	}
}

// All returns a configuration with
// every break and align switch turned on.
func All() *Config {
	return &Config{
		Mode:               ModeFormat,
		Indent:             "    ",
		MaxLineLength:      120,
		KeywordCase:        Upper,
		CommaStyle:         CommaAfter,
		BreakFunctionArgs:  true,
		AlignFunctionArgs:  true,
		BreakCaseWhen:      true,
		AlignCaseWhen:      true,
		BreakInList:        true,
		AlignInList:        true,
		BreakAndOr:         true,
		BreakExplain:       true,
		BreakCTE:           true,
		BreakJoinRelations: true,
		BreakJoinOn:        true,
		AlignJoinOn:        true,
		BreakSelectItems:   true,
		BreakGroupByItems:  true,
		BreakOrderBy:       true,
		FormatSubquery:     true,
	}
}

// Minify returns the configuration
// for minified output.
func Minify() *Config {
	return &Config{
		Mode:        ModeMinify,
		KeywordCase: Unchanged,
		CommaStyle:  CommaNone,
	}
}

// minified returns the configuration used for
// a subquery that is not formatted in place
func (c *Config) minified() *Config {
	m := Minify()
	m.KeywordCase = c.KeywordCase
	m.IgnoreComments = true
	return m
}

// ConfigError is returned for an
// invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (c *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", c.Field, c.Message)
}

// Validate checks that every field of c
// holds an accepted value.
func (c *Config) Validate() error {
	if _, ok := modeNames[c.Mode.String()]; !ok {
		return &ConfigError{Field: "mode", Message: fmt.Sprintf("unknown mode %d", c.Mode)}
	}
	if _, ok := caseNames[c.KeywordCase.String()]; !ok {
		return &ConfigError{Field: "keywordCase", Message: fmt.Sprintf("unknown case %d", c.KeywordCase)}
	}
	if _, ok := commaNames[c.CommaStyle.String()]; !ok {
		return &ConfigError{Field: "commaStyle", Message: fmt.Sprintf("unknown style %d", c.CommaStyle)}
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return &ConfigError{Field: "indent", Message: fmt.Sprintf("%q contains characters other than spaces and tabs", c.Indent)}
	}
	return nil
}

// ParseConfig parses a YAML (or JSON)
// configuration. Keys that are not
// present keep their Default values.
func ParseConfig(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
