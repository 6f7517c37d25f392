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

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePKIntegralTypes(t *testing.T) {
	want := int64(7)
	require.Equal(t, want, NormalizePK(int(7)))
	require.Equal(t, want, NormalizePK(int32(7)))
	require.Equal(t, want, NormalizePK(int64(7)))
	require.Equal(t, want, NormalizePK(uint64(7)))
	require.Equal(t, want, NormalizePK(float64(7)))
	require.Equal(t, want, NormalizePK("7"))
}

func TestNormalizePKIdempotent(t *testing.T) {
	once := NormalizePK("7")
	twice := NormalizePK(once)
	require.Equal(t, once, twice)
}

func TestNormalizePKNonNumericKeepsString(t *testing.T) {
	require.Equal(t, "abc-123", NormalizePK("abc-123"))
}

func TestNewRowLinkEqualAcrossNumericTypes(t *testing.T) {
	a := NewRowLink("Blogpost", int32(7))
	b := NewRowLink("blogpost", int64(7))
	require.Equal(t, a, b)
}

func TestParseRowLinkIntegerTail(t *testing.T) {
	link, ok := ParseRowLink("blogpost/7")
	require.True(t, ok)
	require.Equal(t, "blogpost", link.Table)
	require.Equal(t, int64(7), link.PK)
}

func TestParseRowLinkStringTail(t *testing.T) {
	link, ok := ParseRowLink("blogpost/abc")
	require.True(t, ok)
	require.Equal(t, "abc", link.PK)
}

func TestParseRowLinkMalformed(t *testing.T) {
	_, ok := ParseRowLink("noSlashHere")
	require.False(t, ok)

	_, ok = ParseRowLink("blogpost/")
	require.False(t, ok)
}

func TestCellAddSubRows(t *testing.T) {
	c := &Cell{Name: "author_id"}
	c.AddSubRows("author", []*Record{{Link: RowLink{Table: "author", PK: int64(1)}}})
	require.Len(t, c.SubRows["author"], 1)
}

func TestRecordCellCaseInsensitive(t *testing.T) {
	r := &Record{Cells: []*Cell{{Name: "Author_Id", Value: int64(1)}}}
	c, ok := r.Cell("author_id")
	require.True(t, ok)
	require.Equal(t, int64(1), c.Value)
}
