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

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerFormats(t *testing.T) {
	var out, errw bytes.Buffer

	std, err := NewLogger("standard", "DEBUG", &out, &errw)
	require.NoError(t, err)
	std.InfoContext(context.Background(), "walking table", "table", "blogpost")
	require.Contains(t, out.String(), "walking table")
	require.Contains(t, out.String(), "table=blogpost")

	out.Reset()
	errw.Reset()

	structured, err := NewLogger("json", "WARN", &out, &errw)
	require.NoError(t, err)
	structured.WarnContext(context.Background(), "skipping stop-filtered table")
	require.Contains(t, errw.String(), `"message":"skipping stop-filtered table"`)
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	var out, errw bytes.Buffer
	_, err := NewLogger("xml", "INFO", &out, &errw)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "invalid"))
}
