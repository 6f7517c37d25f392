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

package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/linkedrows/linkedrows/internal/sources"
	_ "github.com/microsoft/go-mssqldb"
	"go.opentelemetry.io/otel/trace"
)

const SourceKind string = "mssql"

func init() {
	if !sources.Register(SourceKind, newConfig) {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newConfig(params sources.ConnectionParams) sources.Config {
	return Config(params)
}

// Config carries the raw connection parameters. URL may already be a
// "sqlserver://" DSN, or a bare "host:port?database=db" string combined
// with User/Password.
type Config sources.ConnectionParams

func (c Config) SourceKind() string { return SourceKind }

func (c Config) Initialize(ctx context.Context, tracer trace.Tracer) (sources.Source, error) {
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, c.URL)
	defer span.End()

	connStr := c.URL
	if !strings.HasPrefix(connStr, "sqlserver://") {
		connStr = fmt.Sprintf("sqlserver://%s:%s@%s", c.User, c.Password, connStr)
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to open mssql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to connect to mssql: %w", err)
	}
	return &Source{db: db}, nil
}

var _ sources.Source = &Source{}

type Source struct {
	db *sql.DB
}

func (s *Source) SourceKind() string { return SourceKind }
func (s *Source) DB() *sql.DB        { return s.db }
