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

package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/linkedrows/linkedrows/internal/sources/sqlite"
	"github.com/stretchr/testify/require"
)

func invokeCommand(t *testing.T, args []string) (*Command, string, error) {
	t.Helper()
	c := NewCommand()
	buf := new(bytes.Buffer)
	c.outStream = buf
	c.errStream = buf
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)
	err := c.ExecuteContext(context.Background())
	return c, buf.String(), err
}

func seedFixtureFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE author (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO author (id, name) VALUES (1, 'Ada');
		CREATE TABLE blogpost (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES author(id), title TEXT);
		INSERT INTO blogpost (id, author_id, title) VALUES (2, 1, 'Hello');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return path
}

func TestRunExportsNestedJSON(t *testing.T) {
	path := seedFixtureFile(t)

	_, out, err := invokeCommand(t, []string{
		"--dialect", "sqlite",
		"--url", path,
		"--tableName", "blogpost",
		"--pkValue", "2",
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, float64(2), decoded["id"])

	subRow := decoded["subRow"].(map[string]any)
	authors := subRow["author"].([]any)
	require.Len(t, authors, 1)
}

func TestRunUnknownDialectFails(t *testing.T) {
	_, _, err := invokeCommand(t, []string{
		"--dialect", "not-a-real-dialect",
		"--url", ":memory:",
		"--tableName", "blogpost",
		"--pkValue", "2",
	})
	require.Error(t, err)
}

func TestRunTableNotFoundFails(t *testing.T) {
	path := seedFixtureFile(t)

	_, _, err := invokeCommand(t, []string{
		"--dialect", "sqlite",
		"--url", path,
		"--tableName", "nosuchtable",
		"--pkValue", "2",
	})
	require.Error(t, err)
}

func TestExecuteReturnsNonzeroOnFailure(t *testing.T) {
	argsBackup := os.Args
	os.Args = []string{"linkedrows", "--dialect", "nope", "--url", ":memory:", "--tableName", "x", "--pkValue", "1"}
	t.Cleanup(func() { os.Args = argsBackup })

	require.Equal(t, 1, Execute())
}
