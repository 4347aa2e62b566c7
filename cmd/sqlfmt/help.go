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
	"flag"
	"fmt"
	"io"
)

// helpOrder lists the flags in the order
// they are printed by -h; any other
// string starts a new section
var helpOrder = []string{
	"Input/Output",
	"i", "s", "o", "config", "version",
	"Layout",
	"m", "normalize", "all", "indent", "max-line-length",
	"keyword-style", "comma-style", "format-subquery", "ignore-comments",
	"Breaks",
	"break-function-args", "align-function-args",
	"break-case-when", "align-case-when",
	"break-in-list", "align-in-list",
	"break-and-or", "break-explain", "break-cte",
	"break-join-relations", "break-join-on", "align-join-on",
	"break-select-items", "break-group-by-items", "break-order-by",
	"Plan graph",
	"dag", "graph",
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: %s [flags] [file ...]\n", flag.CommandLine.Name())
	printOrderedHelp(out, helpOrder)
}

func printOrderedHelp(dst io.Writer, order []string) {
	helptext := captureDefaultHelp()

	for _, text := range order {
		msg, ok := helptext[text]
		if ok {
			fmt.Fprint(dst, msg)
			delete(helptext, text)
		} else {
			fmt.Fprintln(dst, "")
			fmt.Fprintln(dst, text)
		}
	}

	if len(helptext) > 0 {
		fmt.Fprintln(dst, "")
		fmt.Fprintln(dst, "Uncategorized")
		flag.VisitAll(func(f *flag.Flag) {
			if msg, ok := helptext[f.Name]; ok {
				fmt.Fprint(dst, msg)
			}
		})
	}
}

func captureDefaultHelp() map[string]string {
	// This depends on the flag implementation:
	// PrintDefaults calls Write once for each flag.
	var flagcapture flagCapture
	old := flag.CommandLine.Output()
	flag.CommandLine.SetOutput(&flagcapture)
	flag.PrintDefaults()
	flag.CommandLine.SetOutput(old)

	// map: flag name => rendered help text
	helptext := make(map[string]string)
	index := 0
	flag.VisitAll(func(f *flag.Flag) {
		if index < len(flagcapture.items) {
			helptext[f.Name] = flagcapture.items[index]
		}
		index++
	})

	return helptext
}

// --------------------------------------------------

type flagCapture struct {
	items []string
}

func (fc *flagCapture) Write(p []byte) (int, error) {
	fc.items = append(fc.items, string(p))
	return len(p), nil
}
