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

// Package util holds the structured error taxonomy shared by every
// component of the export engine.
package util

import "fmt"

// ErrorKind classifies a failure the way §7 of the design enumerates them.
type ErrorKind string

const (
	KindTableNotFound      ErrorKind = "TABLE_NOT_FOUND"
	KindPrimaryKeyMissing  ErrorKind = "PRIMARY_KEY_MISSING"
	KindMetadataError      ErrorKind = "METADATA_ERROR"
	KindQueryError         ErrorKind = "QUERY_ERROR"
	KindCoercionError      ErrorKind = "COERCION_ERROR"
	KindCyclicDependencies ErrorKind = "CYCLIC_DEPENDENCIES"
	KindUnknownDialect     ErrorKind = "UNKNOWN_DIALECT"
	KindCancelled          ErrorKind = "CANCELLED"
)

// ExportError is the interface every error raised by the engine satisfies.
type ExportError interface {
	error
	Kind() ErrorKind
	Unwrap() error
}

// exportError is the concrete implementation backing all of the
// constructors below; callers interact with it only through ExportError.
type exportError struct {
	kind   ErrorKind
	table  string
	column string
	msg    string
	cause  error
}

var _ ExportError = (*exportError)(nil)

func (e *exportError) Error() string {
	loc := e.table
	if e.column != "" {
		loc = fmt.Sprintf("%s.%s", e.table, e.column)
	}
	switch {
	case loc != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.kind, loc, e.msg, e.cause)
	case loc != "":
		return fmt.Sprintf("%s: %s: %s", e.kind, loc, e.msg)
	case e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	default:
		return fmt.Sprintf("%s: %s", e.kind, e.msg)
	}
}

func (e *exportError) Kind() ErrorKind { return e.kind }
func (e *exportError) Unwrap() error   { return e.cause }

func newErr(kind ErrorKind, table, column, msg string, cause error) *exportError {
	return &exportError{kind: kind, table: table, column: column, msg: msg, cause: cause}
}

func NewTableNotFound(table string) ExportError {
	return newErr(KindTableNotFound, table, "", "table does not exist", nil)
}

func NewPrimaryKeyMissing(table string) ExportError {
	return newErr(KindPrimaryKeyMissing, table, "", "table has no primary key column", nil)
}

func NewMetadataError(table string, cause error) ExportError {
	return newErr(KindMetadataError, table, "", "catalog query failed", cause)
}

func NewQueryError(table string, cause error) ExportError {
	return newErr(KindQueryError, table, "", "parameterized query failed", cause)
}

func NewCoercionError(table, column string, cause error) ExportError {
	return newErr(KindCoercionError, table, column, "value could not be bound to declared type", cause)
}

func NewCyclicDependencies(msg string) ExportError {
	return newErr(KindCyclicDependencies, "", "", msg, nil)
}

func NewUnknownDialect(dialect string) ExportError {
	return newErr(KindUnknownDialect, "", "", fmt.Sprintf("unknown dialect %q", dialect), nil)
}

func NewCancelled(cause error) ExportError {
	return newErr(KindCancelled, "", "", "export cancelled", cause)
}
