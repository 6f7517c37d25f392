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

// Package schema implements the Schema Probe (C1): resolving table
// existence, column metadata, primary keys, and foreign-key edges (both
// directions) from a live *sql.DB, per spec.md §4.1 and §3.
package schema

import "strings"

// ColumnMetadata describes one column, per spec.md §3. OrdinalPosition is
// 1-based and fixes statement parameter order.
type ColumnMetadata struct {
	Name            string
	TypeName        string
	JDBCTypeCode    int
	SourceTypeCode  int
	Size            int
	DefaultExpr     string
	OrdinalPosition int
}

// ColumnSet is the ordered map<lowerName, ColumnMetadata> that
// columnMetadata() returns: ordered by OrdinalPosition, looked up
// case-insensitively.
type ColumnSet struct {
	order []string
	byKey map[string]ColumnMetadata
}

// NewColumnSet builds a ColumnSet from columns already ordered by
// OrdinalPosition.
func NewColumnSet(cols []ColumnMetadata) *ColumnSet {
	cs := &ColumnSet{byKey: make(map[string]ColumnMetadata, len(cols))}
	for _, c := range cols {
		key := strings.ToLower(c.Name)
		cs.order = append(cs.order, key)
		cs.byKey[key] = c
	}
	return cs
}

// Get looks a column up case-insensitively.
func (cs *ColumnSet) Get(name string) (ColumnMetadata, bool) {
	c, ok := cs.byKey[strings.ToLower(name)]
	return c, ok
}

// Ordered returns the columns in ordinal order.
func (cs *ColumnSet) Ordered() []ColumnMetadata {
	out := make([]ColumnMetadata, 0, len(cs.order))
	for _, key := range cs.order {
		out = append(out, cs.byKey[key])
	}
	return out
}

func (cs *ColumnSet) Len() int { return len(cs.order) }

// Fk is a foreign-key edge discovered via either the exported-keys or
// imported-keys catalog, per spec.md §3. Equal ignores Inverted: the same
// physical constraint is discovered from both tables it touches and must
// deduplicate across the two catalogs.
type Fk struct {
	PKTable      string
	PKColumn     string
	FKTable      string
	FKColumn     string
	DeclaredType string
	Inverted     bool
}

// Equal compares two Fks ignoring Inverted and casing of identifiers.
func (f Fk) Equal(o Fk) bool {
	return strings.EqualFold(f.PKTable, o.PKTable) &&
		strings.EqualFold(f.PKColumn, o.PKColumn) &&
		strings.EqualFold(f.FKTable, o.FKTable) &&
		strings.EqualFold(f.FKColumn, o.FKColumn)
}

// DedupeFks removes physically-duplicate constraints from the concatenation
// of a table's exported and imported key catalogs (spec.md §4.1).
func DedupeFks(fks []Fk) []Fk {
	out := make([]Fk, 0, len(fks))
	for _, fk := range fks {
		dup := false
		for _, seen := range out {
			if fk.Equal(seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, fk)
		}
	}
	return out
}
