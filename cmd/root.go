// Copyright 2026 The linkedrows Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd is the CLI surface (spec.md §6): a thin collaborator that
// parses flags, opens a connection, runs one export, and writes JSON.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/linkedrows/linkedrows/internal/canon"
	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/graph"
	"github.com/linkedrows/linkedrows/internal/jsonexport"
	"github.com/linkedrows/linkedrows/internal/log"
	"github.com/linkedrows/linkedrows/internal/schema"
	"github.com/linkedrows/linkedrows/internal/sources"

	_ "github.com/linkedrows/linkedrows/internal/sources/mssql"
	_ "github.com/linkedrows/linkedrows/internal/sources/mysql"
	_ "github.com/linkedrows/linkedrows/internal/sources/oracle"
	_ "github.com/linkedrows/linkedrows/internal/sources/postgres"
	_ "github.com/linkedrows/linkedrows/internal/sources/sqlite"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config collects every flag-bound option the CLI accepts.
type Config struct {
	URL                string
	Dialect            string
	TableName          string
	PKValue            string
	Login              string
	Password           string
	StopTablesExcluded []string
	StopTablesIncluded []string
	Canon              bool
	LoggingFormat      string
	LogLevel           string
	CacheCapacity      int
}

// Command wraps a *cobra.Command, with flags bound directly onto a Config
// field in the constructor and the actual work performed in RunE.
type Command struct {
	*cobra.Command

	cfg Config

	inStream  io.Reader
	outStream io.Writer
	errStream io.Writer
}

// NewCommand returns the root command, ready to parse os.Args and run.
func NewCommand() *Command {
	c := &Command{
		inStream:  os.Stdin,
		outStream: os.Stdout,
		errStream: os.Stderr,
	}

	cmd := &cobra.Command{
		Use:           "linkedrows",
		Short:         "Export a connected subgraph of relational rows as nested JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(c.outStream)
	cmd.SetErr(c.errStream)

	flags := cmd.Flags()
	flags.StringVar(&c.cfg.URL, "url", "", "connection URL (dialect-specific: DSN, file path, or :memory: for sqlite)")
	flags.StringVar(&c.cfg.Dialect, "dialect", "", "dialect name: postgres, mysql, sqlite, mssql, oracle")
	flags.StringVar(&c.cfg.Dialect, "db", "", "alias for --dialect")
	flags.StringVar(&c.cfg.TableName, "tableName", "", "root table name")
	flags.StringVar(&c.cfg.PKValue, "pkValue", "", "root row's primary-key value")
	flags.StringVar(&c.cfg.Login, "login", "", "connection username")
	flags.StringVar(&c.cfg.Password, "password", "", "connection password")
	flags.StringSliceVar(&c.cfg.StopTablesExcluded, "stopTablesExcluded", nil, "deny-list of tables not to traverse into")
	flags.StringSliceVar(&c.cfg.StopTablesIncluded, "stopTablesIncluded", nil, "allow-list of tables to traverse into; unset means unconstrained")
	flags.BoolVar(&c.cfg.Canon, "canon", false, "canonicalize surrogate primary keys before emitting JSON")
	flags.StringVar(&c.cfg.LoggingFormat, "logging-format", "standard", "log output format: standard or json")
	flags.StringVar(&c.cfg.LogLevel, "log-level", "INFO", "minimum log level: DEBUG, INFO, WARN, ERROR")
	flags.IntVar(&c.cfg.CacheCapacity, "cache-capacity", 10000, "capacity of each metadata cache (fk/pk/column)")

	cmd.RunE = func(cc *cobra.Command, args []string) error {
		return c.run(cc.Context())
	}

	c.Command = cmd
	return c
}

func (c *Command) run(ctx context.Context) error {
	logger, err := log.NewLogger(c.cfg.LoggingFormat, c.cfg.LogLevel, c.outStream, c.errStream)
	if err != nil {
		return fmt.Errorf("unable to initialize logger: %w", err)
	}

	if !dialect.Known(dialect.Dialect(c.cfg.Dialect)) {
		return fmt.Errorf("unknown dialect %q", c.cfg.Dialect)
	}

	tracer := noop.NewTracerProvider().Tracer("linkedrows")

	src, err := sources.Open(ctx, tracer, c.cfg.Dialect, sources.ConnectionParams{
		URL:      c.cfg.URL,
		User:     c.cfg.Login,
		Password: c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("unable to open connection: %w", err)
	}
	defer src.DB().Close()

	probe, err := schema.NewProbe(dialect.Dialect(c.cfg.Dialect), src.DB(), c.cfg.CacheCapacity)
	if err != nil {
		return fmt.Errorf("unable to initialize schema probe: %w", err)
	}

	walker := &graph.Walker{
		DB:     src.DB(),
		Probe:  probe,
		Logger: logger,
		Tracer: tracer,
	}

	root, err := walker.Export(ctx, c.cfg.TableName, c.cfg.PKValue, graph.Options{
		StopTablesIncluded: c.cfg.StopTablesIncluded,
		StopTablesExcluded: c.cfg.StopTablesExcluded,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if c.cfg.Canon {
		if err := canon.Canonicalize(ctx, probe, logger, root); err != nil {
			return fmt.Errorf("canonicalization failed: %w", err)
		}
	}

	if err := jsonexport.Write(c.outStream, root); err != nil {
		return fmt.Errorf("unable to write JSON output: %w", err)
	}
	return nil
}

// Execute runs the root command against os.Args, returning a nonzero exit
// status on any failure, per spec.md §6.
func Execute() int {
	cmd := NewCommand()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
