// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pricelist-engine/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestWriteRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list_data.json")
	records := []types.Record{{
		ID:          strPtr("X<1>"),
		Title:       "Nuts & Bolts",
		Description: types.DefaultDescription,
		Attributes:  map[string]*string{"Size": nil},
	}}

	require.NoError(t, WriteRecords(path, records, 2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "ID": "X<1>",
    "title": "Nuts & Bolts",
    "description": "No Description",
    "price": null,
    "attributes": {
      "Size": null
    }
  }
]
`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteRecords_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out_data.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteRecords(path, nil, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteRecords_MissingDir(t *testing.T) {
	err := WriteRecords(filepath.Join(t.TempDir(), "missing", "out.json"), nil, 4)
	assert.ErrorContains(t, err, "creating temp file")
}
