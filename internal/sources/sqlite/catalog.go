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

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/schema"
)

func init() {
	schema.RegisterCatalog(dialect.SQLite, catalog{})
}

// catalog implements schema.Catalog against SQLite's pragma table-valued
// functions; there is no information_schema equivalent on this dialect.
type catalog struct{}

func (catalog) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`, table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (catalog) Columns(ctx context.Context, db *sql.DB, table string) ([]schema.ColumnMetadata, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, type, cid, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.ColumnMetadata
	for rows.Next() {
		var (
			c        schema.ColumnMetadata
			notNull  int
			pk       int
			dfltExpr sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.TypeName, &c.OrdinalPosition, &notNull, &dfltExpr, &pk); err != nil {
			return nil, err
		}
		// pragma_table_info's cid is 0-based; the contract is 1-based.
		c.OrdinalPosition++
		c.DefaultExpr = dfltExpr.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (catalog) PrimaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, table)
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
// §4.1. SQLite's pragma_foreign_key_list(X) only ever reports
// constraints declared ON X (X as the FK/child side), so the exported
// side must be assembled by scanning every other table's declarations
// for ones that reference this table.
func (catalog) ForeignKeys(ctx context.Context, db *sql.DB, table string) ([]schema.Fk, error) {
	declared, err := exportedFks(ctx, db, table)
	if err != nil {
		return nil, err
	}
	imported := make([]schema.Fk, len(declared))
	for i, fk := range declared {
		fk.Inverted = true
		// table arrives re-cased by dialect.AdaptTableName; store it lowercased.
		fk.FKTable = strings.ToLower(fk.FKTable)
		imported[i] = fk
	}

	allTables, err := tableNames(ctx, db)
	if err != nil {
		return nil, err
	}
	var exported []schema.Fk
	for _, other := range allTables {
		fks, err := exportedFks(ctx, db, other)
		if err != nil {
			return nil, err
		}
		for _, fk := range fks {
			if strings.EqualFold(fk.PKTable, table) {
				fk.Inverted = false
				exported = append(exported, fk)
			}
		}
	}

	return append(exported, imported...), nil
}

// exportedFks lists the FK constraints declared ON table, with
// Inverted=false. ForeignKeys flips Inverted to true when it uses the
// result for the queried table itself (its imported set), and keeps it
// false for the results of other tables that reference the queried table
// (its exported set).
func exportedFks(ctx context.Context, db *sql.DB, table string) ([]schema.Fk, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT "table", "from", "to"
		FROM pragma_foreign_key_list(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Fk
	for rows.Next() {
		var pkTable, fkColumn string
		var pkColumn sql.NullString
		if err := rows.Scan(&pkTable, &fkColumn, &pkColumn); err != nil {
			return nil, err
		}
		resolvedPKColumn := pkColumn.String
		if resolvedPKColumn == "" {
			// sqlite omits "to" when the constraint references the
			// parent's rowid/INTEGER PRIMARY KEY implicitly.
			pks, err := (catalog{}).PrimaryKeys(ctx, db, pkTable)
			if err != nil {
				return nil, err
			}
			if len(pks) > 0 {
				resolvedPKColumn = pks[0]
			}
		}
		out = append(out, schema.Fk{
			PKTable:      pkTable,
			PKColumn:     resolvedPKColumn,
			FKTable:      table,
			FKColumn:     fkColumn,
			DeclaredType: "FOREIGN KEY",
		})
	}
	return out, rows.Err()
}

func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
