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

package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBindNull(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "NULL", "Null"} {
		b, err := Bind(raw, "INTEGER")
		require.NoError(t, err)
		require.Nil(t, b.Value)
	}
}

func TestBindBoolean(t *testing.T) {
	b, err := Bind("true", "BOOLEAN")
	require.NoError(t, err)
	require.Equal(t, true, b.Value)

	b, err = Bind("false", "bool")
	require.NoError(t, err)
	require.Equal(t, false, b.Value)
}

func TestBindInteger(t *testing.T) {
	for _, ty := range []string{"SERIAL", "INT", "INT2", "INT4", "INT8", "INTEGER", "NUMBER", "FLOAT4", "FLOAT8"} {
		b, err := Bind("42", ty)
		require.NoError(t, err, ty)
		require.Equal(t, int64(42), b.Value, ty)
	}
}

func TestBindNumeric(t *testing.T) {
	b, err := Bind("3.14", "NUMERIC")
	require.NoError(t, err)
	require.Equal(t, 3.14, b.Value)

	b, err = Bind("2.5", "decimal")
	require.NoError(t, err)
	require.Equal(t, 2.5, b.Value)
}

func TestBindDate(t *testing.T) {
	b, err := Bind("2026-07-31", "DATE")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), b.Value)
}

func TestBindTimestamp(t *testing.T) {
	b, err := Bind("2026-07-31 15:04:05", "TIMESTAMP")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 7, 31, 15, 4, 5, 0, time.UTC), b.Value)
}

func TestBindGenericObject(t *testing.T) {
	b, err := Bind("hello world", "VARCHAR")
	require.NoError(t, err)
	require.Equal(t, "hello world", b.Value)
}

func TestBindCoercionFailure(t *testing.T) {
	_, err := Bind("not-a-number", "INTEGER")
	require.Error(t, err)
}
