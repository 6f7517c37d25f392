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

package oracle

import (
	"context"
	"database/sql"

	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/schema"
)

func init() {
	schema.RegisterCatalog(dialect.Oracle, catalog{})
}

// catalog implements schema.Catalog against the ALL_* data dictionary
// views, scoped to the session's current schema.
type catalog struct{}

func (catalog) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT count(*) FROM ALL_TABLES
		WHERE table_name = :1 AND owner = sys_context('USERENV', 'CURRENT_SCHEMA')`, table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (catalog) Columns(ctx context.Context, db *sql.DB, table string) ([]schema.ColumnMetadata, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type, column_id, data_length,
		       coalesce(to_char(data_default), '')
		FROM ALL_TAB_COLUMNS
		WHERE table_name = :1 AND owner = sys_context('USERENV', 'CURRENT_SCHEMA')
		ORDER BY column_id`, table)
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
		SELECT cc.column_name
		FROM ALL_CONSTRAINTS c
		JOIN ALL_CONS_COLUMNS cc ON c.constraint_name = cc.constraint_name AND c.owner = cc.owner
		WHERE c.constraint_type = 'P' AND c.table_name = :1
		  AND c.owner = sys_context('USERENV', 'CURRENT_SCHEMA')
		ORDER BY cc.position`, table)
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
			pk_cols.table_name AS pk_table, pk_cols.column_name AS pk_column,
			fk_cols.table_name AS fk_table, fk_cols.column_name AS fk_column
		FROM ALL_CONSTRAINTS fk
		JOIN ALL_CONS_COLUMNS fk_cols ON fk.constraint_name = fk_cols.constraint_name AND fk.owner = fk_cols.owner
		JOIN ALL_CONS_COLUMNS pk_cols ON fk.r_constraint_name = pk_cols.constraint_name AND fk.owner = pk_cols.owner
			AND fk_cols.position = pk_cols.position
		WHERE fk.constraint_type = 'R' AND pk_cols.table_name = :1
		  AND fk.owner = sys_context('USERENV', 'CURRENT_SCHEMA')`

	const importedKeysQuery = `
		SELECT
			pk_cols.table_name AS pk_table, pk_cols.column_name AS pk_column,
			fk_cols.table_name AS fk_table, fk_cols.column_name AS fk_column
		FROM ALL_CONSTRAINTS fk
		JOIN ALL_CONS_COLUMNS fk_cols ON fk.constraint_name = fk_cols.constraint_name AND fk.owner = fk_cols.owner
		JOIN ALL_CONS_COLUMNS pk_cols ON fk.r_constraint_name = pk_cols.constraint_name AND fk.owner = pk_cols.owner
			AND fk_cols.position = pk_cols.position
		WHERE fk.constraint_type = 'R' AND fk_cols.table_name = :1
		  AND fk.owner = sys_context('USERENV', 'CURRENT_SCHEMA')`

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
