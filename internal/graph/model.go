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

// Package graph holds the in-memory record tree data model (§3) and the
// Graph Walker (C5) that builds it.
package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linkedrows/linkedrows/internal/schema"
)

// RowLink identifies one concrete row by table and normalized primary key,
// per spec.md §3. It is comparable and usable as a map key.
type RowLink struct {
	Table string
	PK    any
}

// NewRowLink normalizes table to lowercase and pk per NormalizePK.
func NewRowLink(table string, pk any) RowLink {
	return RowLink{Table: strings.ToLower(table), PK: NormalizePK(pk)}
}

// NormalizePK converts any integral numeric type to a 64-bit signed
// integer so that (T, 7) and (T, int64(7)) hash equal; a whole-valued float
// or an integer-shaped string (surrounding whitespace ignored) becomes an
// int64 too, and any other value is kept in its canonical string form.
// Normalizing twice is
// idempotent: NormalizePK(NormalizePK(v)) == NormalizePK(v).
func NormalizePK(pk any) any {
	switch v := pk.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		if n := int64(v); float32(n) == v {
			return n
		}
		return canonicalString(v)
	case float64:
		if n := int64(v); float64(n) == v {
			return n
		}
		return canonicalString(v)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
		return v
	case nil:
		return nil
	default:
		return canonicalString(v)
	}
}

func canonicalString(v any) string {
	return fmt.Sprintf("%v", v)
}

// ParseRowLink parses the short-form "table/pk" textual encoding
// best-effort: an integer-shaped tail becomes an integer PK, otherwise the
// tail is kept as a string. Per spec.md §9's open question, this never
// falls through to an earlier partial match — only a tail that parses as a
// whole integer (surrounding whitespace ignored, via NormalizePK) yields an
// integer.
func ParseRowLink(shortForm string) (RowLink, bool) {
	idx := strings.LastIndex(shortForm, "/")
	if idx < 0 || idx == len(shortForm)-1 {
		return RowLink{}, false
	}
	table := shortForm[:idx]
	tail := shortForm[idx+1:]
	if table == "" {
		return RowLink{}, false
	}
	if n, err := strconv.ParseInt(tail, 10, 64); err == nil {
		return NewRowLink(table, n), true
	}
	return NewRowLink(table, tail), true
}

// Cell is one named value within a Record, per spec.md §3. SubRows is
// populated only when Name names a column that drove a traversed FK edge.
type Cell struct {
	Name     string
	Value    any
	Metadata schema.ColumnMetadata
	SubRows  map[string][]*Record
}

// AddSubRows appends records under childTable, creating the map lazily.
func (c *Cell) AddSubRows(childTable string, records []*Record) {
	if c.SubRows == nil {
		c.SubRows = make(map[string][]*Record)
	}
	c.SubRows[childTable] = append(c.SubRows[childTable], records...)
}

// Record is an ordered list of Cells plus the RowLink identifying the row
// they came from. Metadata is nil on every record except the root, which
// carries the ExportContext under ExportContextKey (spec.md §4.5 step 4).
type Record struct {
	Link     RowLink
	Cells    []*Cell
	Metadata map[string]any
}

// Cell looks a cell up case-insensitively by column name.
func (r *Record) Cell(name string) (*Cell, bool) {
	for _, c := range r.Cells {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// ExportContextKey is the reserved metadata key the root Record's context
// is attached under (spec.md §4.5 step 4).
const ExportContextKey = "__exportContext"

// ExportContext owns the visited-node set for the duration of one export
// call, per spec.md §3.
type ExportContext struct {
	Visited    map[RowLink]*Record
	TreatedFks []schema.Fk
}

// NewExportContext returns an empty context.
func NewExportContext() *ExportContext {
	return &ExportContext{Visited: make(map[RowLink]*Record)}
}

// MarkTreated appends fk to TreatedFks; append-only within one export.
func (ec *ExportContext) MarkTreated(fk schema.Fk) {
	ec.TreatedFks = append(ec.TreatedFks, fk)
}
