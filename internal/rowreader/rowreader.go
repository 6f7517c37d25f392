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

// Package rowreader implements the Row Reader (C4): parameterized
// single-column equality SELECTs materialized into graph.Records, per
// spec.md §4.4.
package rowreader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/linkedrows/linkedrows/internal/coerce"
	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/graph"
	"github.com/linkedrows/linkedrows/internal/schema"
	"github.com/linkedrows/linkedrows/internal/util"
)

// ReadWhere executes `SELECT * FROM table WHERE column = <placeholder>`,
// using d's bound-parameter syntax, binding value via the Value Coercer
// against column's declared type, and materializes every returned row
// into a *graph.Record. pkColumn names the column promoted into each
// record's RowLink.PK after normalization.
func ReadWhere(ctx context.Context, db *sql.DB, d dialect.Dialect, table string, cols *schema.ColumnSet, column string, value string, pkColumn string) ([]*graph.Record, error) {
	declared, ok := cols.Get(column)
	if !ok {
		return nil, util.NewQueryError(table, fmt.Errorf("column %q not found in table metadata", column))
	}

	bound, err := coerce.Bind(value, declared.TypeName)
	if err != nil {
		return nil, util.NewCoercionError(table, column, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", table, column, dialect.Placeholder(d, 1))
	rows, err := db.QueryContext(ctx, query, bound.Value)
	if err != nil {
		return nil, util.NewQueryError(table, err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, util.NewQueryError(table, err)
	}

	var out []*graph.Record
	for rows.Next() {
		scanDest := make([]any, len(colNames))
		scanPtrs := make([]any, len(colNames))
		for i := range scanDest {
			scanPtrs[i] = &scanDest[i]
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, util.NewQueryError(table, err)
		}

		rec := &graph.Record{}
		var pkValue any
		for i, name := range colNames {
			meta, _ := cols.Get(name)
			cell := &graph.Cell{Name: name, Value: scanDest[i], Metadata: meta}
			rec.Cells = append(rec.Cells, cell)
			if pkColumn != "" && strings.EqualFold(name, pkColumn) {
				pkValue = scanDest[i]
			}
		}
		rec.Link = graph.NewRowLink(table, pkValue)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewQueryError(table, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, util.NewCancelled(err)
	}
	return out, nil
}
