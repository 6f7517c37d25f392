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

	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/schema"
)

func init() {
	schema.RegisterCatalog(dialect.MSSQL, catalog{})
}

// catalog implements schema.Catalog against information_schema plus the
// sys.foreign_key_columns catalog view for FK resolution, since
// information_schema alone does not expose the PK/FK table pairing cleanly
// on this dialect.
type catalog struct{}

func (catalog) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_name = @p1`, table).Scan(&n)
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
		WHERE table_name = @p1
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
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_name = @p1
		ORDER BY kcu.ordinal_position`, table)
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
		SELECT
			rt.name AS pk_table, rc.name AS pk_column,
			ft.name AS fk_table, fc.name AS fk_column
		FROM sys.foreign_key_columns fkc
		JOIN sys.tables ft ON ft.object_id = fkc.parent_object_id
		JOIN sys.columns fc ON fc.object_id = fkc.parent_object_id AND fc.column_id = fkc.parent_column_id
		JOIN sys.tables rt ON rt.object_id = fkc.referenced_object_id
		JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
		WHERE rt.name = @p1`

	const importedKeysQuery = `
		SELECT
			rt.name AS pk_table, rc.name AS pk_column,
			ft.name AS fk_table, fc.name AS fk_column
		FROM sys.foreign_key_columns fkc
		JOIN sys.tables ft ON ft.object_id = fkc.parent_object_id
		JOIN sys.columns fc ON fc.object_id = fkc.parent_object_id AND fc.column_id = fkc.parent_column_id
		JOIN sys.tables rt ON rt.object_id = fkc.referenced_object_id
		JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
		WHERE ft.name = @p1`

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
		if err := rows.Scan(&fk.PKTable, &fk.PKColumn, &fk.FKTable, &fk.FKColumn); err != nil {
			return nil, err
		}
		fk.DeclaredType = "FOREIGN KEY"
		fk.Inverted = inverted
		out = append(out, fk)
	}
	return out, rows.Err()
}
