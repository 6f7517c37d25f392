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

// Package sources is the pluggable connection factory behind the driver
// interface (spec.md §6): one Source per dialect, looked up by a short
// kind string, each wrapping a *sql.DB.
package sources

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linkedrows/linkedrows/internal/util"
	"go.opentelemetry.io/otel/trace"
)

// Source is a live, pingable connection to one database instance.
type Source interface {
	SourceKind() string
	DB() *sql.DB
}

// Config builds a Source from connection parameters. Each dialect package
// supplies its own concrete Config.
type Config interface {
	SourceKind() string
	Initialize(ctx context.Context, tracer trace.Tracer) (Source, error)
}

// ConnectionParams is the dialect-neutral shape the CLI collects from flags
// before handing off to a Config factory.
type ConnectionParams struct {
	URL      string
	User     string
	Password string
}

// Factory produces a Config from connection parameters.
type Factory func(params ConnectionParams) Config

var registry = make(map[string]Factory)

// Register associates a dialect kind string with a factory function. It is
// typically called from a dialect package's init(). Returns false if the
// kind was already registered.
func Register(kind string, factory Factory) bool {
	if _, exists := registry[kind]; exists {
		return false
	}
	registry[kind] = factory
	return true
}

// Open resolves the dialect's factory, builds its Config and initializes a
// live Source. Returns a util UnknownDialect error (see internal/util) when
// kind was never registered.
func Open(ctx context.Context, tracer trace.Tracer, kind string, params ConnectionParams) (Source, error) {
	factory, ok := registry[kind]
	if !ok {
		return nil, util.NewUnknownDialect(kind)
	}
	cfg := factory(params)
	return cfg.Initialize(ctx, tracer)
}

// InitConnectionSpan starts the span every dialect's Initialize wraps its
// dial attempt in.
func InitConnectionSpan(ctx context.Context, tracer trace.Tracer, kind, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, fmt.Sprintf("source/%s/initialize", kind), trace.WithAttributes())
}

// Known reports whether kind has a registered factory.
func Known(kind string) bool {
	_, ok := registry[kind]
	return ok
}
