// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/buildinfo"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/agent"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/cli"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/config"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/render"
)

func main() {
	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s, version: %s\n", cli.Name, buildinfo.Version)
		return
	}

	if opts.Schema {
		bs, err := config.Schema()
		if err != nil {
			exit(err)
		}
		fmt.Println(string(bs))
		return
	}

	if lvl := os.Getenv("GRIDCTL_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	log := logger.New().With(slog.String("component", "main"))
	log.Debugf("%s: %s", cli.Name, buildinfo.Info())

	cfg, err := loadConfig(opts)
	if err != nil {
		exit(err)
	}

	acfg, err := agentConfig(opts, cfg)
	if err != nil {
		exit(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := agent.New(acfg).Run(ctx); err != nil {
		exit(err)
	}
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args[1:])
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt
}

func loadConfig(opts *cli.Option) (*config.Config, error) {
	path := opts.Config
	if path == "" && buildinfo.ConfigDir != "" {
		path = filepath.Join(buildinfo.ConfigDir, "table.yaml")
	}
	if path == "" {
		return nil, errors.New("no table definition given (use --config)")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if len(opts.Rows) > 0 {
		cfg.Rows = opts.Rows
	}
	if opts.State != "" {
		cfg.StateFile = opts.State
	}
	return cfg, nil
}

func agentConfig(opts *cli.Option, cfg *config.Config) (agent.Config, error) {
	format, err := render.ParseFormat(opts.Format)
	if err != nil {
		return agent.Config{}, err
	}

	acfg := agent.Config{
		Table:    cfg,
		Fragment: opts.Fragment,
		Search:   opts.Search,
		Format:   format,
		Limit:    opts.Limit,
		Facets:   opts.Facets,
		Watch:    opts.Watch,
		Out:      os.Stdout,
	}

	if opts.Sort != "" {
		dir, err := gridapi.ParseSortDirection(opts.SortDir)
		if err != nil {
			return agent.Config{}, err
		}
		acfg.Sort = &gridapi.Sort{Active: opts.Sort, Direction: dir}
	}

	return acfg, nil
}

func exit(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", cli.Name, err)
	os.Exit(1)
}
