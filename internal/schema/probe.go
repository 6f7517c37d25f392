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

package schema

import (
	"context"
	"database/sql"
	"strings"

	"github.com/linkedrows/linkedrows/internal/cache"
	"github.com/linkedrows/linkedrows/internal/dialect"
	"github.com/linkedrows/linkedrows/internal/util"
)

// Catalog is the dialect-specific half of the Schema Probe: the actual
// catalog queries, one implementation per supported Dialect.
type Catalog interface {
	TableExists(ctx context.Context, db *sql.DB, table string) (bool, error)
	Columns(ctx context.Context, db *sql.DB, table string) ([]ColumnMetadata, error)
	PrimaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error)
	// ForeignKeys returns both exported (Inverted=false) and imported
	// (Inverted=true) edges concatenated, per spec.md §4.1.
	ForeignKeys(ctx context.Context, db *sql.DB, table string) ([]Fk, error)
}

var catalogs = map[dialect.Dialect]Catalog{}

// RegisterCatalog wires a dialect's catalog implementation; called from
// each dialect-specific file's init().
func RegisterCatalog(d dialect.Dialect, c Catalog) {
	catalogs[d] = c
}

// Probe is the Schema Probe (C1), optionally fronted by the Metadata
// Cache (C2).
type Probe struct {
	Dialect dialect.Dialect
	DB      *sql.DB
	Cache   *cache.Caches[*ColumnSet, []string, []Fk]
}

// NewProbe builds a Probe for d. If capacity > 0 a Metadata Cache is
// attached; pass 0 to probe uncached.
func NewProbe(d dialect.Dialect, db *sql.DB, cacheCapacity int) (*Probe, error) {
	var caches *cache.Caches[*ColumnSet, []string, []Fk]
	if cacheCapacity > 0 {
		var err error
		caches, err = cache.New[*ColumnSet, []string, []Fk](cacheCapacity)
		if err != nil {
			return nil, err
		}
	}
	return &Probe{Dialect: d, DB: db, Cache: caches}, nil
}

func (p *Probe) catalog() (Catalog, error) {
	c, ok := catalogs[p.Dialect]
	if !ok {
		return nil, util.NewUnknownDialect(string(p.Dialect))
	}
	return c, nil
}

// AssertTableExists implements spec.md §4.1's assertTableExists.
func (p *Probe) AssertTableExists(ctx context.Context, table string) error {
	c, err := p.catalog()
	if err != nil {
		return err
	}
	adapted := dialect.AdaptTableName(p.Dialect, table)
	ok, err := c.TableExists(ctx, p.DB, adapted)
	if err != nil {
		return util.NewMetadataError(table, err)
	}
	if !ok {
		return util.NewTableNotFound(table)
	}
	return nil
}

// ColumnsOf implements spec.md §4.1's columnMetadata, fronted by the
// columnCache.
func (p *Probe) ColumnsOf(ctx context.Context, table string) (*ColumnSet, error) {
	key := strings.ToLower(table)
	if p.Cache != nil {
		if cs, ok := p.Cache.Columns.Get(key); ok {
			return cs, nil
		}
	}
	c, err := p.catalog()
	if err != nil {
		return nil, err
	}
	cols, err := c.Columns(ctx, p.DB, dialect.AdaptTableName(p.Dialect, table))
	if err != nil {
		return nil, util.NewMetadataError(table, err)
	}
	cs := NewColumnSet(cols)
	if p.Cache != nil {
		p.Cache.Columns.Add(key, cs)
	}
	return cs, nil
}

// PrimaryKeysOf implements spec.md §4.1's primaryKeys, fronted by the
// pkCache.
func (p *Probe) PrimaryKeysOf(ctx context.Context, table string) ([]string, error) {
	key := strings.ToLower(table)
	if p.Cache != nil {
		if pks, ok := p.Cache.PKs.Get(key); ok {
			return pks, nil
		}
	}
	c, err := p.catalog()
	if err != nil {
		return nil, err
	}
	pks, err := c.PrimaryKeys(ctx, p.DB, dialect.AdaptTableName(p.Dialect, table))
	if err != nil {
		return nil, util.NewMetadataError(table, err)
	}
	if p.Cache != nil {
		p.Cache.PKs.Add(key, pks)
	}
	return pks, nil
}

// ForeignKeysOf implements spec.md §4.1's foreignKeysOf, fronted by the
// fkCache, deduplicating the exported/imported concatenation.
func (p *Probe) ForeignKeysOf(ctx context.Context, table string) ([]Fk, error) {
	key := strings.ToLower(table)
	if p.Cache != nil {
		if fks, ok := p.Cache.FKs.Get(key); ok {
			return fks, nil
		}
	}
	c, err := p.catalog()
	if err != nil {
		return nil, err
	}
	fks, err := c.ForeignKeys(ctx, p.DB, dialect.AdaptTableName(p.Dialect, table))
	if err != nil {
		return nil, util.NewMetadataError(table, err)
	}
	fks = DedupeFks(fks)
	if p.Cache != nil {
		p.Cache.FKs.Add(key, fks)
	}
	return fks, nil
}

// FirstPrimaryKey returns primaryKeys[0], the column the walker treats as
// "the" PK. Returns PrimaryKeyMissing if the table has none (spec.md §9's
// composite-key limitation: callers rejecting composite-keyed roots do so
// by comparing len(PrimaryKeysOf(...)) > 1 themselves).
func (p *Probe) FirstPrimaryKey(ctx context.Context, table string) (string, error) {
	pks, err := p.PrimaryKeysOf(ctx, table)
	if err != nil {
		return "", err
	}
	if len(pks) == 0 {
		return "", util.NewPrimaryKeyMissing(table)
	}
	return pks[0], nil
}
