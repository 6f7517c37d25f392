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

package mysql

import (
	"context"
	"database/sql"

	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/schema"
)

func init() {
	schema.RegisterCatalog(dialect.MySQL, catalog{})
}

// catalog implements schema.Catalog against information_schema, scoped to
// the connection's current database via database().
type catalog struct{}

func (catalog) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_schema = database() AND table_name = ?`, table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (catalog) Columns(ctx context.Context, db *sql.DB, table string) ([]schema.ColumnMetadata, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type, ordinal_position,
		       coalesce(character_maximum_length, numeric_precision, 0),
		       coalesce(column_default, '')
		FROM information_schema.columns
		WHERE table_schema = database() AND table_name = ?
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.ColumnMetadata
	for rows.Next() {
		var c schema.ColumnMetadata
		if err := rows.Scan(&c.Name, &c.TypeName, &c.OrdinalPosition, &c.Size, &c.DefaultExpr); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (catalog) PrimaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = database() AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

// ForeignKeys concatenates the exported-keys catalog (this table is the
// referenced PK side; inverted=false) with the imported-keys catalog
// (this table is the referencing FK side; inverted=true), per spec.md
// §4.1.
func (catalog) ForeignKeys(ctx context.Context, db *sql.DB, table string) ([]schema.Fk, error) {
	const exportedKeysQuery = `
		SELECT referenced_table_name, referenced_column_name, table_name, column_name, 'FOREIGN KEY'
		FROM information_schema.key_column_usage
		WHERE table_schema = database() AND referenced_table_name = ?`

	const importedKeysQuery = `
		SELECT referenced_table_name, referenced_column_name, table_name, column_name, 'FOREIGN KEY'
		FROM information_schema.key_column_usage
		WHERE table_schema = database() AND table_name = ? AND referenced_table_name IS NOT NULL`

	var out []schema.Fk
	exported, err := queryFks(ctx, db, exportedKeysQuery, table, false)
	if err != nil {
		return nil, err
	}
	out = append(out, exported...)

	imported, err := queryFks(ctx, db, importedKeysQuery, table, true)
	if err != nil {
		return nil, err
	}
	out = append(out, imported...)
	return out, nil
}

func queryFks(ctx context.Context, db *sql.DB, query, table string, inverted bool) ([]schema.Fk, error) {
	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Fk
	for rows.Next() {
		var fk schema.Fk
		if err := rows.Scan(&fk.PKTable, &fk.PKColumn, &fk.FKTable, &fk.FKColumn, &fk.DeclaredType); err != nil {
			return nil, err
		}
		fk.Inverted = inverted
		out = append(out, fk)
	}
	return out, rows.Err()
}
