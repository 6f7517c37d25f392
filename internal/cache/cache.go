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

// Package cache implements the Metadata Cache (C2): three independent,
// size-bounded, concurrency-safe key/value stores fronting the Schema
// Probe so repeated lookups of the same table's columns/PK/FKs are O(1).
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the per-cache entry limit when none is configured.
const DefaultCapacity = 10_000

// Caches bundles the three metadata caches C2 keeps independently. A
// lookup miss is the caller's job to populate via Columns/PKs/FKs.Add —
// misses on a failed probe must never be cached, so the caches never
// perform the probe themselves.
type Caches[Col any, PK any, Fk any] struct {
	Columns *lru.Cache[string, Col]
	PKs     *lru.Cache[string, PK]
	FKs     *lru.Cache[string, Fk]
}

// New builds a Caches with the given per-cache capacity (approximate-LRU
// eviction, safe for concurrent readers/writers — golang-lru/v2's Cache is
// internally mutex-protected).
func New[Col any, PK any, Fk any](capacity int) (*Caches[Col, PK, Fk], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cols, err := lru.New[string, Col](capacity)
	if err != nil {
		return nil, err
	}
	pks, err := lru.New[string, PK](capacity)
	if err != nil {
		return nil, err
	}
	fks, err := lru.New[string, Fk](capacity)
	if err != nil {
		return nil, err
	}
	return &Caches[Col, PK, Fk]{Columns: cols, PKs: pks, FKs: fks}, nil
}
