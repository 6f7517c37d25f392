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

// Package jsonexport renders a record tree into the JSON contract fixed by
// spec.md §6: each node is an object keyed by lowercased column names, and
// every cell that drove a traversal additionally carries a "subRow" object
// mapping child-table-name to an array of child nodes.
package jsonexport

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/linkedrows/linkedrows/internal/graph"
)

// SubRowKey is the well-known key under which traversed child records are
// nested in the rendered tree.
const SubRowKey = "subRow"

// Marshal renders root as indented JSON.
func Marshal(root *graph.Record) ([]byte, error) {
	return json.MarshalIndent(node(root), "", "  ")
}

// Write renders root as JSON and writes it to w.
func Write(w io.Writer, root *graph.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(node(root))
}

// node converts one Record into the map the JSON contract describes.
func node(record *graph.Record) map[string]any {
	out := make(map[string]any, len(record.Cells)+1)
	for _, cell := range record.Cells {
		key := strings.ToLower(cell.Name)
		out[key] = cell.Value
		if len(cell.SubRows) == 0 {
			continue
		}
		sub := make(map[string]any, len(cell.SubRows))
		for childTable, children := range cell.SubRows {
			nodes := make([]map[string]any, len(children))
			for i, child := range children {
				nodes[i] = node(child)
			}
			sub[childTable] = nodes
		}
		if existing, ok := out[SubRowKey]; ok {
			merged := existing.(map[string]any)
			for k, v := range sub {
				merged[k] = v
			}
		} else {
			out[SubRowKey] = sub
		}
	}
	return out
}
