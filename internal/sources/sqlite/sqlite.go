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

// Package sqlite provides the embedded, dependency-free dialect backed by
// modernc.org/sqlite: a zero-setup engine usable both as a production
// target and as an in-process fixture database for tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linkedrows/linkedrows/internal/sources"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

const SourceKind string = "sqlite"

func init() {
	if !sources.Register(SourceKind, newConfig) {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newConfig(params sources.ConnectionParams) sources.Config {
	return Config(params)
}

// Config's URL is a file path (or ":memory:"); User/Password are unused —
// SQLite has no authentication layer.
type Config sources.ConnectionParams

func (c Config) SourceKind() string { return SourceKind }

func (c Config) Initialize(ctx context.Context, tracer trace.Tracer) (sources.Source, error) {
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, c.URL)
	defer span.End()

	db, err := sql.Open("sqlite", c.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to connect to sqlite: %w", err)
	}
	return &Source{db: db}, nil
}

var _ sources.Source = &Source{}

type Source struct {
	db *sql.DB
}

func (s *Source) SourceKind() string { return SourceKind }
func (s *Source) DB() *sql.DB        { return s.db }
