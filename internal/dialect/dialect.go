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

// Package dialect names the relational dialects the engine speaks and the
// per-dialect identifier-case rule catalog queries must apply.
package dialect

import (
	"strconv"
	"strings"
)

// Dialect is a short, lowercase identifier naming a supported driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	// SQLite is an embeddable, dependency-free engine, well suited to
	// fixtures and local tests as well as small production deployments.
	SQLite Dialect = "sqlite"
	MSSQL  Dialect = "mssql"
	Oracle Dialect = "oracle"
)

// AdaptTableName re-cases a table name the way each dialect's catalog
// expects it to be presented in a query, per §4.1.
func AdaptTableName(d Dialect, table string) string {
	switch d {
	case Postgres:
		return strings.ToLower(table)
	case MySQL:
		return table
	default:
		return strings.ToUpper(table)
	}
}

// Placeholder returns the dialect's bound-parameter syntax for the
// position'th (1-based) parameter of a query, matching the style each
// dialect's catalog queries already use: "$1"-style for Postgres, "@p1"
// for MSSQL, ":1" for Oracle, and the positionless "?" everywhere else.
func Placeholder(d Dialect, position int) string {
	switch d {
	case Postgres:
		return "$" + strconv.Itoa(position)
	case MSSQL:
		return "@p" + strconv.Itoa(position)
	case Oracle:
		return ":" + strconv.Itoa(position)
	default:
		return "?"
	}
}

// Known reports whether d is one of the dialects registered with the driver
// factory (internal/sources).
func Known(d Dialect) bool {
	switch d {
	case Postgres, MySQL, SQLite, MSSQL, Oracle:
		return true
	default:
		return false
	}
}
