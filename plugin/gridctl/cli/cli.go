// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"github.com/jessevdk/go-flags"
)

// Name is the program name used in usage output.
const Name = "gridctl"

// Option defines command line options.
type Option struct {
	Config   string   `short:"c" long:"config" description:"table definition file" value-name:"FILE"`
	Rows     []string `short:"r" long:"rows" description:"row file glob, overrides the config (repeatable)" value-name:"GLOB"`
	State    string   `short:"s" long:"state" description:"state file, overrides the config" value-name:"FILE"`
	Fragment string   `long:"fragment" description:"state fragment to apply, e.g. 'search=x&sort=name'"`
	Search   string   `short:"q" long:"search" description:"full-text search query"`
	Sort     string   `long:"sort" description:"column to sort by"`
	SortDir  string   `long:"sort-dir" description:"sort direction" choice:"asc" choice:"desc" default:"asc"`
	Format   string   `short:"o" long:"output" description:"output format" choice:"text" choice:"json" default:"text"`
	Limit    int      `short:"n" long:"limit" description:"maximum number of rows to print, 0 prints all"`
	Facets   bool     `long:"facets" description:"include filter facets in json output"`
	Watch    bool     `short:"w" long:"watch" description:"watch row and state files and print on every change"`
	Schema   bool     `long:"schema" description:"print the json schema of the table definition and exit"`
	Debug    bool     `short:"d" long:"debug" description:"debug mode"`
	Version  bool     `short:"v" long:"version" description:"display the version and exit"`
}

// Parse returns parsed command-line flags in Option struct
func Parse(args []string) (*Option, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = Name
	parser.Usage = "[OPTIONS]"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	return opt, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}
