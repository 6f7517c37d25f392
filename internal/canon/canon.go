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

// Package canon implements the Canonicalizer (C7): a post-walk pass that
// renumbers surrogate numeric primary keys into values derived
// deterministically from row content, so that two structurally equivalent
// exports compare byte-identical, per spec.md §4.7.
package canon

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/linkedrows/linkedrows/internal/graph"
	"github.com/linkedrows/linkedrows/internal/log"
	"github.com/linkedrows/linkedrows/internal/order"
	"github.com/linkedrows/linkedrows/internal/schema"
)

// Canonicalize renumbers every surrogate numeric primary key reachable from
// root into a value derived deterministically from its row's content, and
// rewrites every foreign-key cell anywhere in the tree that pointed at a
// renumbered row — including cells the walker attached without a subrow
// because their target had already been visited elsewhere (spec.md §4.7).
// Rows with a composite or non-numeric primary key are left unchanged, and
// so is any FK cell that pointed at one.
//
// Rows are processed one table at a time, in the dependency order C6 would
// compute for root.Link.Table (parent tables before the children that
// reference them), so that a row's own content hash always incorporates
// its already-canonicalized parents rather than their stale surrogate ids.
func Canonicalize(ctx context.Context, probe *schema.Probe, logger log.Logger, root *graph.Record) error {
	byTable := collectByTable(root)

	tableOrder, err := order.Determine(ctx, probe, logger, root.Link.Table, false)
	if err != nil {
		return err
	}
	tableOrder = completeOrder(tableOrder, byTable)

	canonicalPK := make(map[graph.RowLink]int64)

	for _, table := range tableOrder {
		rows := byTable[table]
		if len(rows) == 0 {
			continue
		}

		fks, err := probe.ForeignKeysOf(ctx, table)
		if err != nil {
			return err
		}
		for _, occurrences := range rows {
			rewriteInboundCells(occurrences, fks, canonicalPK)
		}

		pks, err := probe.PrimaryKeysOf(ctx, table)
		if err != nil {
			return err
		}
		if len(pks) != 1 {
			continue
		}
		pkColumn := pks[0]

		for link, occurrences := range rows {
			if _, isNumeric := link.PK.(int64); !isNumeric {
				continue
			}
			newPK := contentHash(occurrences[0], pkColumn)
			canonicalPK[link] = newPK
			for _, occ := range occurrences {
				occ.Link.PK = newPK
				if cell, ok := occ.Cell(pkColumn); ok {
					cell.Value = newPK
				}
			}
		}
	}

	return nil
}

// rewriteInboundCells updates, on every occurrence of one row, the driving
// cell of each FK edge on which this table is the referencing (child)
// side, to the already-finalized canonical PK of the row it points at.
// Occurrences the walker attached without expanding (because the target
// had already been visited by the time the edge was followed) still carry
// the driving column as a plain cell, so they are rewritten the same way.
func rewriteInboundCells(occurrences []*graph.Record, fks []schema.Fk, canonicalPK map[graph.RowLink]int64) {
	for _, fk := range fks {
		if !fk.Inverted {
			continue // this table is the referenced (parent) side; nothing to rewrite here
		}
		for _, occ := range occurrences {
			cell, ok := occ.Cell(fk.FKColumn)
			if !ok || cell.Value == nil {
				continue
			}
			oldLink := graph.NewRowLink(fk.PKTable, cell.Value)
			if newPK, ok := canonicalPK[oldLink]; ok {
				cell.Value = newPK
			}
		}
	}
}

// collectByTable walks every record reachable from root, grouped first by
// table and then by RowLink, since the walker can attach several distinct
// *graph.Record occurrences for the same physical row (once expanded, and
// again each further time it is reached without being re-expanded).
func collectByTable(root *graph.Record) map[string]map[graph.RowLink][]*graph.Record {
	result := make(map[string]map[graph.RowLink][]*graph.Record)
	var walk func(rec *graph.Record)
	walk = func(rec *graph.Record) {
		table := rec.Link.Table
		if result[table] == nil {
			result[table] = make(map[graph.RowLink][]*graph.Record)
		}
		result[table][rec.Link] = append(result[table][rec.Link], rec)
		for _, cell := range rec.Cells {
			for _, children := range cell.SubRows {
				for _, child := range children {
					walk(child)
				}
			}
		}
	}
	walk(root)
	return result
}

// completeOrder appends any table byTable knows about but tableOrder
// omitted — the unresolved remainder of a cyclic schema, which
// order.Determine returns empty-handed in permissive mode — in
// alphabetical order, so every reachable row still gets processed even
// though the cycle itself can't be fully resolved.
func completeOrder(tableOrder []string, byTable map[string]map[graph.RowLink][]*graph.Record) []string {
	seen := make(map[string]bool, len(tableOrder))
	for _, t := range tableOrder {
		seen[t] = true
	}
	var missing []string
	for t := range byTable {
		if !seen[t] {
			missing = append(missing, t)
		}
	}
	sort.Strings(missing)
	return append(tableOrder, missing...)
}

// contentHash derives a deterministic, non-negative int64 from every
// non-PK cell on record, sorted by column name for order independence.
func contentHash(record *graph.Record, pkColumn string) int64 {
	names := make([]string, 0, len(record.Cells))
	values := make(map[string]string, len(record.Cells))
	for _, c := range record.Cells {
		if strings.EqualFold(c.Name, pkColumn) {
			continue
		}
		key := strings.ToLower(c.Name)
		names = append(names, key)
		values[key] = fmt.Sprintf("%v", c.Value)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(strings.ToLower(record.Link.Table))
	for _, name := range names {
		sb.WriteByte('\x1f')
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(values[name])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	n := int64(binary.BigEndian.Uint64(sum[:8]))
	if n < 0 {
		n = -n
	}
	return n
}
