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

package dialect

import "testing"

func TestAdaptTableName(t *testing.T) {
	tcs := []struct {
		d    Dialect
		in   string
		want string
	}{
		{Postgres, "BlogPost", "blogpost"},
		{MySQL, "BlogPost", "BlogPost"},
		{SQLite, "blogpost", "BLOGPOST"},
		{MSSQL, "blogpost", "BLOGPOST"},
		{Oracle, "blogpost", "BLOGPOST"},
		{Dialect("db2"), "blogpost", "BLOGPOST"},
	}
	for _, tc := range tcs {
		if got := AdaptTableName(tc.d, tc.in); got != tc.want {
			t.Errorf("AdaptTableName(%s, %q) = %q, want %q", tc.d, tc.in, got, tc.want)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	tcs := []struct {
		d    Dialect
		pos  int
		want string
	}{
		{Postgres, 1, "$1"},
		{Postgres, 2, "$2"},
		{MSSQL, 1, "@p1"},
		{Oracle, 1, ":1"},
		{MySQL, 1, "?"},
		{SQLite, 1, "?"},
	}
	for _, tc := range tcs {
		if got := Placeholder(tc.d, tc.pos); got != tc.want {
			t.Errorf("Placeholder(%s, %d) = %q, want %q", tc.d, tc.pos, got, tc.want)
		}
	}
}

func TestKnown(t *testing.T) {
	for _, d := range []Dialect{Postgres, MySQL, SQLite, MSSQL, Oracle} {
		if !Known(d) {
			t.Errorf("Known(%s) = false, want true", d)
		}
	}
	if Known(Dialect("db2")) {
		t.Error("Known(db2) = true, want false")
	}
}
