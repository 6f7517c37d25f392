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

package order_test

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/log"
	"github.com/linkedrows/linkedrows/internal/order"
	"github.com/linkedrows/linkedrows/internal/schema"
	_ "github.com/linkedrows/linkedrows/internal/sources/sqlite"
	"github.com/stretchr/testify/require"
)

func newProbe(t *testing.T, db *sql.DB) *schema.Probe {
	t.Helper()
	p, err := schema.NewProbe(dialect.SQLite, db, 16)
	require.NoError(t, err)
	return p
}

func newLogger(t *testing.T) log.Logger {
	t.Helper()
	l, err := log.NewLogger("standard", "ERROR", io.Discard, io.Discard)
	require.NoError(t, err)
	return l
}

func TestDetermineAcyclicOrderIsSound(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`
		CREATE TABLE author (id INTEGER PRIMARY KEY);
		CREATE TABLE blogpost (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES author(id));
		CREATE TABLE comment (id INTEGER PRIMARY KEY, post_id INTEGER REFERENCES blogpost(id));
	`)
	require.NoError(t, err)

	probe := newProbe(t, db)
	got, err := order.Determine(context.Background(), probe, newLogger(t), "blogpost", true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"author", "blogpost", "comment"}, got)

	index := make(map[string]int, len(got))
	for i, t := range got {
		index[t] = i
	}
	require.Less(t, index["author"], index["blogpost"])
	require.Less(t, index["blogpost"], index["comment"])
}

func TestDetermineCyclicStrictFails(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`
		CREATE TABLE a (id INTEGER PRIMARY KEY, b_id INTEGER REFERENCES b(id));
		CREATE TABLE b (id INTEGER PRIMARY KEY, a_id INTEGER REFERENCES a(id));
	`)
	require.NoError(t, err)

	probe := newProbe(t, db)
	_, err = order.Determine(context.Background(), probe, newLogger(t), "a", true)
	require.Error(t, err)
}

func TestDetermineCyclicPermissiveReturnsPartial(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`
		CREATE TABLE a (id INTEGER PRIMARY KEY, b_id INTEGER REFERENCES b(id));
		CREATE TABLE b (id INTEGER PRIMARY KEY, a_id INTEGER REFERENCES a(id));
	`)
	require.NoError(t, err)

	probe := newProbe(t, db)
	got, err := order.Determine(context.Background(), probe, newLogger(t), "a", false)
	require.NoError(t, err)
	require.Empty(t, got)
}
