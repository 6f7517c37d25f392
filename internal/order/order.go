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

// Package order implements the Dependency Orderer (C6): a topological sort
// of the tables reachable from a root table, for downstream importers that
// must insert parent rows before the children that reference them, per
// spec.md §4.6.
package order

import (
	"context"
	"sort"
	"strings"

	"github.com/linkedrows/linkedrows/internal/log"
	"github.com/linkedrows/linkedrows/internal/schema"
	"github.com/linkedrows/linkedrows/internal/util"
)

// Determine computes a topological ordering of every table reachable from
// rootTable along FK edges in either direction: determineInsertionOrder(conn,
// rootTable, failOnCycles) -> list<table>, per spec.md §6.
//
// Tables are compared case-insensitively throughout. If a round of the
// Kahn's-algorithm peel removes no table and tables remain, the remainder
// is cyclic: when failOnCycles is true, CyclicDependencies is returned
// alongside the partial order built so far; otherwise the partial order is
// returned and a single warning listing the unresolved tables is logged.
func Determine(ctx context.Context, probe *schema.Probe, logger log.Logger, rootTable string, failOnCycles bool) ([]string, error) {
	children, discovered, err := buildDependencyGraph(ctx, probe, rootTable)
	if err != nil {
		return nil, err
	}

	inDegree := make(map[string]int, len(discovered))
	for t := range discovered {
		inDegree[t] = 0
	}
	for parent, kids := range children {
		for kid := range kids {
			if parent == kid {
				continue // self-reference never blocks insertion
			}
			inDegree[kid]++
		}
	}

	var order []string
	remaining := make(map[string]bool, len(discovered))
	for t := range discovered {
		remaining[t] = true
	}

	for len(remaining) > 0 {
		var ready []string
		for t := range remaining {
			if inDegree[t] == 0 {
				ready = append(ready, t)
			}
		}
		if len(ready) == 0 {
			break
		}
		sort.Strings(ready) // deterministic: break ties alphabetically
		for _, t := range ready {
			order = append(order, t)
			delete(remaining, t)
			for kid := range children[t] {
				if remaining[kid] {
					inDegree[kid]--
				}
			}
		}
	}

	if len(remaining) > 0 {
		var cyclic []string
		for t := range remaining {
			cyclic = append(cyclic, t)
		}
		sort.Strings(cyclic)
		if failOnCycles {
			return order, util.NewCyclicDependencies("cyclic dependency among tables: " + strings.Join(cyclic, ", "))
		}
		logger.WarnContext(ctx, "dependency orderer found a cycle; returning partial order",
			"root_table", rootTable, "unresolved_tables", strings.Join(cyclic, ","))
	}

	return order, nil
}

// buildDependencyGraph performs a BFS over FK edges starting at rootTable,
// discovering every reachable table and recording parent->children edges
// (a parent must be inserted before each of its children).
func buildDependencyGraph(ctx context.Context, probe *schema.Probe, rootTable string) (map[string]map[string]bool, map[string]bool, error) {
	discovered := map[string]bool{strings.ToLower(rootTable): true}
	queue := []string{strings.ToLower(rootTable)}
	children := make(map[string]map[string]bool)

	addEdge := func(parent, child string) {
		parent, child = strings.ToLower(parent), strings.ToLower(child)
		if children[parent] == nil {
			children[parent] = make(map[string]bool)
		}
		children[parent][child] = true
	}

	for len(queue) > 0 {
		table := queue[0]
		queue = queue[1:]

		fks, err := probe.ForeignKeysOf(ctx, table)
		if err != nil {
			return nil, nil, err
		}
		for _, fk := range fks {
			parent := strings.ToLower(fk.PKTable)
			child := strings.ToLower(fk.FKTable)
			addEdge(parent, child)
			for _, t := range []string{parent, child} {
				if !discovered[t] {
					discovered[t] = true
					queue = append(queue, t)
				}
			}
		}
	}

	return children, discovered, nil
}
