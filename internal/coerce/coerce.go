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

// Package coerce implements the Value Coercer (C3): a pure mapping from a
// textual cell value plus a declared column type to a correctly-typed
// bound parameter, per spec.md §4.3. It performs no I/O.
package coerce

import (
	"strconv"
	"strings"
	"time"
)

// Bound is the value ready to be passed as a database/sql query argument.
type Bound struct {
	// Value is nil for SQL NULL, else one of bool, int64, float64,
	// time.Time, or string.
	Value any
}

// typeFamily classifies a declared column type per spec.md §4.3's table.
type typeFamily int

const (
	familyOther typeFamily = iota
	familyBoolean
	familyInteger
	familyNumeric
	familyDate
	familyTimestamp
)

func classify(declaredType string) typeFamily {
	t := strings.ToUpper(strings.TrimSpace(declaredType))
	switch {
	case t == "BOOLEAN" || t == "BOOL":
		return familyBoolean
	case t == "SERIAL" || t == "INT" || t == "INT2" || t == "INT4" || t == "INT8" ||
		t == "INTEGER" || t == "NUMBER" || t == "FLOAT4" || t == "FLOAT8":
		return familyInteger
	case t == "NUMERIC" || t == "DECIMAL":
		return familyNumeric
	case t == "DATE":
		return familyDate
	case t == "TIMESTAMP":
		return familyTimestamp
	default:
		return familyOther
	}
}

// isNull reports whether raw should bind as SQL NULL: empty, whitespace
// only, or the literal "null" (case-insensitive), per spec.md §4.3.
func isNull(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.EqualFold(trimmed, "null")
}

// Bind maps raw (the textual cell value) and declaredType (the column's
// declared SQL type name) to a Bound value suitable for a prepared
// statement parameter. An error is returned only when a non-NULL value
// fails to parse for a family that requires parsing (boolean, integer,
// numeric, date, timestamp).
func Bind(raw, declaredType string) (Bound, error) {
	if isNull(raw) {
		return Bound{Value: nil}, nil
	}

	switch classify(declaredType) {
	case familyBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Bound{}, err
		}
		return Bound{Value: b}, nil

	case familyInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Bound{}, err
		}
		return Bound{Value: n}, nil

	case familyNumeric:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Bound{}, err
		}
		return Bound{Value: f}, nil

	case familyDate:
		t, err := parseDateLike(raw, "2006-01-02")
		if err != nil {
			return Bound{}, err
		}
		return Bound{Value: t}, nil

	case familyTimestamp:
		t, err := parseDateLike(raw, "2006-01-02T15:04:05")
		if err != nil {
			return Bound{}, err
		}
		return Bound{Value: t}, nil

	default:
		// Generic object: pass the raw string through untouched. The
		// declared type code is metadata the caller already has via
		// ColumnMetadata; Bind itself carries no type hint for this case.
		return Bound{Value: raw}, nil
	}
}

// parseDateLike replaces the sole space separator with 'T' (per spec.md
// §4.3's "replacing ' ' with 'T'" rule) before parsing with layout.
func parseDateLike(raw, layout string) (time.Time, error) {
	normalized := strings.Replace(strings.TrimSpace(raw), " ", "T", 1)
	if len(normalized) > len(layout) {
		normalized = normalized[:len(layout)]
	}
	return time.Parse(layout, normalized)
}
