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

// Command sqlfmt formats SQL text, or
// prints the operator graph of a query
// when run with -dag.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SnellerInc/sqlfmt"
	"github.com/SnellerInc/sqlfmt/format"
	"github.com/SnellerInc/sqlfmt/plan"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// switchFlag is a command-line flag
// that sets one boolean Config field
type switchFlag struct {
	name, usage string
	field       func(c *format.Config) *bool
}

var switches = []switchFlag{
	{"break-function-args", "put each function argument on its own line", func(c *format.Config) *bool { return &c.BreakFunctionArgs }},
	{"align-function-args", "align function arguments after '('", func(c *format.Config) *bool { return &c.AlignFunctionArgs }},
	{"break-case-when", "put each WHEN/ELSE of a CASE on its own line", func(c *format.Config) *bool { return &c.BreakCaseWhen }},
	{"align-case-when", "indent WHEN/ELSE relative to CASE", func(c *format.Config) *bool { return &c.AlignCaseWhen }},
	{"break-in-list", "put each IN list item on its own line", func(c *format.Config) *bool { return &c.BreakInList }},
	{"align-in-list", "align IN list items after '('", func(c *format.Config) *bool { return &c.AlignInList }},
	{"break-and-or", "start a new line before each AND/OR", func(c *format.Config) *bool { return &c.BreakAndOr }},
	{"break-explain", "put the explained query on the line after EXPLAIN", func(c *format.Config) *bool { return &c.BreakExplain }},
	{"break-cte", "put each CTE on its own line", func(c *format.Config) *bool { return &c.BreakCTE }},
	{"break-join-relations", "put each JOIN on its own line", func(c *format.Config) *bool { return &c.BreakJoinRelations }},
	{"break-join-on", "start a new line before ON/USING", func(c *format.Config) *bool { return &c.BreakJoinOn }},
	{"align-join-on", "align join condition lines", func(c *format.Config) *bool { return &c.AlignJoinOn }},
	{"break-select-items", "put each SELECT item on its own line", func(c *format.Config) *bool { return &c.BreakSelectItems }},
	{"break-group-by-items", "put each GROUP BY item on its own line", func(c *format.Config) *bool { return &c.BreakGroupByItems }},
	{"break-order-by", "put each ORDER BY item on its own line", func(c *format.Config) *bool { return &c.BreakOrderBy }},
	{"format-subquery", "format subqueries in place (otherwise they are minified)", func(c *format.Config) *bool { return &c.FormatSubquery }},
	{"ignore-comments", "drop comments other than optimizer hints", func(c *format.Config) *bool { return &c.IgnoreComments }},
}

var graphFormats = []string{"json", "list", "tree", "dot", "ion"}

type options struct {
	flags *flag.FlagSet

	dashi, dashs, dasho string
	config              string
	minify, normalize   bool
	all                 bool
	indent              int
	maxLineLength       int
	keywordStyle        string
	commaStyle          string
	dag                 bool
	graph               string
	version             bool

	// values of the package-level switches, by index
	switches []*bool
}

func register(fs *flag.FlagSet) *options {
	o := &options{flags: fs, switches: make([]*bool, len(switches))}
	fs.StringVar(&o.dashi, "i", "-", "input file (- is stdin); .zst and .gz files are decompressed")
	fs.StringVar(&o.dashs, "s", "", "SQL text to format (instead of -i or file arguments)")
	fs.StringVar(&o.dasho, "o", "", "file for output (default is stdout)")
	fs.StringVar(&o.config, "config", "", "YAML or JSON configuration file")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	fs.BoolVar(&o.minify, "m", false, "minify instead of formatting")
	fs.BoolVar(&o.normalize, "normalize", false, "normalize the text without parsing it")
	fs.BoolVar(&o.all, "all", false, "start from the configuration with every break and align switch on")
	fs.IntVar(&o.indent, "indent", 4, "indent width in spaces")
	fs.IntVar(&o.maxLineLength, "max-line-length", 120, "wrap lines longer than this (0 disables wrapping)")
	fs.StringVar(&o.keywordStyle, "keyword-style", "upper", "keyword case: upper, lower or unchanged")
	fs.StringVar(&o.commaStyle, "comma-style", "after", "spaces around commas: none, after, before or both")
	for i := range switches {
		o.switches[i] = fs.Bool(switches[i].name, false, switches[i].usage)
	}
	fs.BoolVar(&o.dag, "dag", false, "print the operator graph of the input instead of formatting it")
	fs.StringVar(&o.graph, "graph", "tree", "graph encoding for -dag: "+strings.Join(graphFormats, ", "))
	return o
}

var opts *options

func init() {
	opts = register(flag.CommandLine)
	flag.Usage = usage
}

// configure builds the rendering configuration:
// a preset or configuration file, then
// every flag given on the command line
func (o *options) configure() (*format.Config, error) {
	cfg := format.Default()
	if o.all {
		cfg = format.All()
	}
	if o.config != "" {
		c, err := format.LoadConfig(o.config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if o.minify {
		m := format.Minify()
		m.IgnoreComments = cfg.IgnoreComments
		cfg = m
	}
	if o.normalize {
		cfg.Mode = format.ModeNormalize
	}
	var err error
	o.flags.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "indent":
			if o.indent < 0 {
				err = fmt.Errorf("-indent %d: must not be negative", o.indent)
				return
			}
			cfg.Indent = strings.Repeat(" ", o.indent)
		case "max-line-length":
			cfg.MaxLineLength = o.maxLineLength
		case "keyword-style":
			err = cfg.KeywordCase.UnmarshalText([]byte(o.keywordStyle))
		case "comma-style":
			err = cfg.CommaStyle.UnmarshalText([]byte(o.commaStyle))
		default:
			for i := range switches {
				if switches[i].name == f.Name {
					*switches[i].field(cfg) = *o.switches[i]
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// readInput reads the named file,
// or stdin when name is "-"
func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch filepath.Ext(name) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defer dec.Close()
		return io.ReadAll(dec)
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return io.ReadAll(f)
}

func writeGraph(dst io.Writer, g *plan.Graph, encoding string) error {
	var err error
	switch encoding {
	case "json":
		var buf []byte
		buf, err = json.MarshalIndent(g, "", "  ")
		if err == nil {
			buf = append(buf, '\n')
			_, err = dst.Write(buf)
		}
	case "list":
		_, err = io.WriteString(dst, g.Listing())
	case "tree":
		_, err = io.WriteString(dst, g.Tree())
	case "dot":
		err = plan.Graphviz(g, dst)
	case "ion":
		var buf []byte
		buf, err = g.MarshalIon()
		if err == nil {
			buf = append(buf, '\n')
			_, err = dst.Write(buf)
		}
	default:
		err = fmt.Errorf("unknown graph encoding %q (want one of %s)", encoding, strings.Join(graphFormats, ", "))
	}
	return err
}

// do formats (or analyzes) one input
func (o *options) do(dst io.Writer, src []byte, cfg *format.Config) error {
	if o.dag {
		g, err := plan.Analyze(src)
		if err != nil {
			return err
		}
		return writeGraph(dst, g, o.graph)
	}
	out, err := format.Format(src, cfg)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(dst, out)
	return err
}

// inputs returns the names of the inputs
// in the order they are processed
func (o *options) inputs() []string {
	if o.dashs != "" {
		return nil
	}
	if args := o.flags.Args(); len(args) > 0 {
		return args
	}
	return []string{o.dashi}
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	flag.Parse()
	if opts.version {
		v, ok := sqlfmt.Version()
		if ok {
			fmt.Println(v)
		} else {
			fmt.Println("version not available")
		}
		return
	}
	cfg, err := opts.configure()
	if err != nil {
		exit(err)
	}

	var dst io.Writer = os.Stdout
	if opts.dasho != "" {
		f, err := os.Create(opts.dasho)
		if err != nil {
			exit(err)
		}
		defer f.Close()
		dst = f
	}

	if opts.dashs != "" {
		if err := opts.do(dst, []byte(opts.dashs), cfg); err != nil {
			exit(err)
		}
		return
	}
	for i, name := range opts.inputs() {
		src, err := readInput(name)
		if err != nil {
			exit(err)
		}
		if len(bytes.TrimSpace(src)) == 0 {
			continue
		}
		if i > 0 && !opts.dag {
			io.WriteString(dst, "\n")
		}
		if err := opts.do(dst, src, cfg); err != nil {
			if name != "-" {
				err = fmt.Errorf("%s: %w", name, err)
			}
			exit(err)
		}
	}
}
