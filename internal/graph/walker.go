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

package graph

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/linkedrows/linkedrows/internal/log"
	"github.com/linkedrows/linkedrows/internal/rowreader"
	"github.com/linkedrows/linkedrows/internal/schema"
	"github.com/linkedrows/linkedrows/internal/util"
	"go.opentelemetry.io/otel/trace"
)

// Options configures one Export call, per spec.md §6.
type Options struct {
	// StopTablesIncluded, when non-empty, is the only set of child tables
	// the walker may recurse into.
	StopTablesIncluded []string
	// StopTablesExcluded is checked before StopTablesIncluded and always
	// blocks a table if present.
	StopTablesExcluded []string
}

func stopSet(tables []string) map[string]bool {
	if len(tables) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tables))
	for _, t := range tables {
		set[strings.ToLower(t)] = true
	}
	return set
}

// blocked applies the excluded-before-included stop-table policy of
// spec.md §4.5.
func blocked(table string, excluded, included map[string]bool) bool {
	lower := strings.ToLower(table)
	if excluded != nil && excluded[lower] {
		return true
	}
	if included != nil && !included[lower] {
		return true
	}
	return false
}

// Walker is the Graph Walker (C5): it owns one database connection for the
// duration of an Export call, per spec.md §5.
type Walker struct {
	DB     *sql.DB
	Probe  *schema.Probe
	Logger log.Logger
	Tracer trace.Tracer
}

// Export is the public entry point of spec.md §4.5 and §6:
// export(conn, rootTable, rootPk, opts) -> Record.
func (w *Walker) Export(ctx context.Context, rootTable, rootPk string, opts Options) (*Record, error) {
	ctx, span := w.Tracer.Start(ctx, "graph.Export")
	defer span.End()

	if err := w.Probe.AssertTableExists(ctx, rootTable); err != nil {
		return nil, err
	}

	pkColumn, err := w.Probe.FirstPrimaryKey(ctx, rootTable)
	if err != nil {
		return nil, err
	}

	cols, err := w.Probe.ColumnsOf(ctx, rootTable)
	if err != nil {
		return nil, err
	}

	recs, err := rowreader.ReadWhere(ctx, w.DB, w.Probe.Dialect, rootTable, cols, pkColumn, rootPk, pkColumn)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, util.NewQueryError(rootTable, fmt.Errorf("no row found for %s=%s", pkColumn, rootPk))
	}
	root := recs[0]

	ec := NewExportContext()
	ec.Visited[root.Link] = root

	excluded := stopSet(opts.StopTablesExcluded)
	included := stopSet(opts.StopTablesIncluded)

	if err := w.expand(ctx, root, rootTable, ec, excluded, included); err != nil {
		return nil, err
	}

	root.Metadata = map[string]any{ExportContextKey: ec}
	return root, nil
}

// expand implements spec.md §4.5 step 3: recursively attaching subrows to
// record for every FK edge reachable from table.
func (w *Walker) expand(ctx context.Context, record *Record, table string, ec *ExportContext, excluded, included map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return util.NewCancelled(err)
	}

	ctx, span := w.Tracer.Start(ctx, "graph.expand")
	defer span.End()

	fks, err := w.Probe.ForeignKeysOf(ctx, table)
	if err != nil {
		return err
	}

	for _, fk := range fks {
		ec.MarkTreated(fk)

		drivingColumn := fk.PKColumn
		if fk.Inverted {
			drivingColumn = fk.FKColumn
		}

		cell, ok := record.Cell(drivingColumn)
		if !ok || cell.Value == nil {
			w.Logger.WarnContext(ctx, "skipping fk edge: driving column absent or null",
				"table", table, "column", drivingColumn)
			continue
		}

		otherTable := fk.FKTable
		otherColumn := fk.FKColumn
		if fk.Inverted {
			otherTable = fk.PKTable
			otherColumn = fk.PKColumn
		}

		if blocked(otherTable, excluded, included) {
			w.Logger.WarnContext(ctx, "skipping fk edge: stop-table blocked",
				"table", table, "other_table", otherTable)
			continue
		}

		drivingValue := fmt.Sprintf("%v", cell.Value)
		drivingLink := NewRowLink(otherTable, cell.Value)
		if _, seen := ec.Visited[drivingLink]; seen {
			w.Logger.WarnContext(ctx, "skipping fk edge: already visited",
				"table", table, "other_table", otherTable)
			continue
		}

		otherCols, err := w.Probe.ColumnsOf(ctx, otherTable)
		if err != nil {
			return err
		}
		otherPK, err := w.Probe.FirstPrimaryKey(ctx, otherTable)
		if err != nil {
			return err
		}

		subRecs, err := rowreader.ReadWhere(ctx, w.DB, w.Probe.Dialect, otherTable, otherCols, otherColumn, drivingValue, otherPK)
		if err != nil {
			return err
		}

		w.Logger.DebugContext(ctx, "expanded fk edge",
			"table", table, "other_table", otherTable, "row_count", len(subRecs))

		if len(subRecs) == 0 {
			// A non-NULL value that matches no row still yields an empty list.
			cell.AddSubRows(otherTable, nil)
		}
		for _, sub := range subRecs {
			if _, seen := ec.Visited[sub.Link]; seen {
				cell.AddSubRows(otherTable, []*Record{sub})
				continue
			}
			ec.Visited[sub.Link] = sub
			cell.AddSubRows(otherTable, []*Record{sub})
			if err := w.expand(ctx, sub, otherTable, ec, excluded, included); err != nil {
				return err
			}
		}
	}

	return nil
}
