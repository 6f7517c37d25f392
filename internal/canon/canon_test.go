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

package canon_test

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/linkedrows/linkedrows/internal/canon"
	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/graph"
	"github.com/linkedrows/linkedrows/internal/log"
	"github.com/linkedrows/linkedrows/internal/schema"
	_ "github.com/linkedrows/linkedrows/internal/sources/sqlite"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newWalker(t *testing.T, db *sql.DB) *graph.Walker {
	t.Helper()
	probe, err := schema.NewProbe(dialect.SQLite, db, 16)
	require.NoError(t, err)
	logger, err := log.NewLogger("standard", "ERROR", io.Discard, io.Discard)
	require.NoError(t, err)
	return &graph.Walker{
		DB:     db,
		Probe:  probe,
		Logger: logger,
		Tracer: noop.NewTracerProvider().Tracer("test"),
	}
}

func chainDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`
		CREATE TABLE author (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO author (id, name) VALUES (1, 'Ada');
		CREATE TABLE blogpost (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES author(id), title TEXT);
		INSERT INTO blogpost (id, author_id, title) VALUES (2, 1, 'Hello');
	`)
	require.NoError(t, err)
	return db
}

func TestCanonicalizeRewritesSurrogatePKsAndFKCell(t *testing.T) {
	db := chainDB(t)
	w := newWalker(t, db)
	probe, err := schema.NewProbe(dialect.SQLite, db, 16)
	require.NoError(t, err)

	root, err := w.Export(context.Background(), "blogpost", "2", graph.Options{})
	require.NoError(t, err)
	logger, err := log.NewLogger("standard", "ERROR", io.Discard, io.Discard)
	require.NoError(t, err)
	require.NoError(t, canon.Canonicalize(context.Background(), probe, logger, root))

	require.NotEqual(t, int64(2), root.Link.PK)

	authorCell, ok := root.Cell("author_id")
	require.True(t, ok)
	author := authorCell.SubRows["author"][0]
	require.NotEqual(t, int64(1), author.Link.PK)

	// The driving cell's value must now match the canonicalized author PK.
	require.Equal(t, author.Link.PK, authorCell.Value)
}

func siblingFanOutDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`
		CREATE TABLE blogpost (id INTEGER PRIMARY KEY, title TEXT);
		INSERT INTO blogpost (id, title) VALUES (2, 'Hello');
		CREATE TABLE comment (id INTEGER PRIMARY KEY, post_id INTEGER REFERENCES blogpost(id), body TEXT);
		INSERT INTO comment (id, post_id, body) VALUES (10, 2, 'First');
		INSERT INTO comment (id, post_id, body) VALUES (11, 2, 'Second');
		INSERT INTO comment (id, post_id, body) VALUES (12, 2, 'Third');
	`)
	require.NoError(t, err)
	return db
}

func TestCanonicalizeRewritesFanOutChildrenPointerCells(t *testing.T) {
	db := siblingFanOutDB(t)
	w := newWalker(t, db)
	probe, err := schema.NewProbe(dialect.SQLite, db, 16)
	require.NoError(t, err)

	root, err := w.Export(context.Background(), "blogpost", "2", graph.Options{})
	require.NoError(t, err)
	logger, err := log.NewLogger("standard", "ERROR", io.Discard, io.Discard)
	require.NoError(t, err)
	require.NoError(t, canon.Canonicalize(context.Background(), probe, logger, root))

	require.NotEqual(t, int64(2), root.Link.PK)

	idCell, ok := root.Cell("id")
	require.True(t, ok)
	comments := idCell.SubRows["comment"]
	require.Len(t, comments, 3)

	for _, comment := range comments {
		postIDCell, ok := comment.Cell("post_id")
		require.True(t, ok)
		require.Equal(t, root.Link.PK, postIDCell.Value)
	}
}

func TestCanonicalizeIsFixedPoint(t *testing.T) {
	db := chainDB(t)
	w := newWalker(t, db)
	probe, err := schema.NewProbe(dialect.SQLite, db, 16)
	require.NoError(t, err)

	root, err := w.Export(context.Background(), "blogpost", "2", graph.Options{})
	require.NoError(t, err)
	logger, err := log.NewLogger("standard", "ERROR", io.Discard, io.Discard)
	require.NoError(t, err)
	require.NoError(t, canon.Canonicalize(context.Background(), probe, logger, root))

	firstPost := root.Link.PK
	authorCell, _ := root.Cell("author_id")
	firstAuthor := authorCell.SubRows["author"][0].Link.PK

	require.NoError(t, canon.Canonicalize(context.Background(), probe, logger, root))

	require.Equal(t, firstPost, root.Link.PK)
	authorCell, _ = root.Cell("author_id")
	require.Equal(t, firstAuthor, authorCell.SubRows["author"][0].Link.PK)
}

func TestCanonicalizeLeavesCompositeOrStringPKUntouched(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`
		CREATE TABLE tag (code TEXT PRIMARY KEY, label TEXT);
		INSERT INTO tag (code, label) VALUES ('go', 'Go');
	`)
	require.NoError(t, err)

	probe, err := schema.NewProbe(dialect.SQLite, db, 16)
	require.NoError(t, err)
	logger, err := log.NewLogger("standard", "ERROR", io.Discard, io.Discard)
	require.NoError(t, err)
	w := &graph.Walker{DB: db, Probe: probe, Logger: logger, Tracer: noop.NewTracerProvider().Tracer("test")}

	root, err := w.Export(context.Background(), "tag", "go", graph.Options{})
	require.NoError(t, err)
	require.NoError(t, canon.Canonicalize(context.Background(), probe, logger, root))
	require.Equal(t, "go", root.Link.PK)
}
