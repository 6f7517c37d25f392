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

package rowreader_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/rowreader"
	"github.com/linkedrows/linkedrows/internal/schema"
	_ "github.com/linkedrows/linkedrows/internal/sources/sqlite"
	"github.com/stretchr/testify/require"
)

func openFixtureDB(t *testing.T) *sql.DB {
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

func TestReadWhere(t *testing.T) {
	db := openFixtureDB(t)
	probe, err := schema.NewProbe(dialect.SQLite, db, 0)
	require.NoError(t, err)
	cols, err := probe.ColumnsOf(context.Background(), "blogpost")
	require.NoError(t, err)

	recs, err := rowreader.ReadWhere(context.Background(), db, dialect.SQLite, "blogpost", cols, "id", "2", "id")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	require.Equal(t, int64(2), rec.Link.PK)
	require.Equal(t, "blogpost", rec.Link.Table)

	titleCell, ok := rec.Cell("title")
	require.True(t, ok)
	require.Equal(t, "Hello", titleCell.Value)
}

func TestReadWhereNoRows(t *testing.T) {
	db := openFixtureDB(t)
	probe, err := schema.NewProbe(dialect.SQLite, db, 0)
	require.NoError(t, err)
	cols, err := probe.ColumnsOf(context.Background(), "blogpost")
	require.NoError(t, err)

	recs, err := rowreader.ReadWhere(context.Background(), db, dialect.SQLite, "blogpost", cols, "id", "999", "id")
	require.NoError(t, err)
	require.Empty(t, recs)
}
