package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("CustomerId\n"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestFindDatasets(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	touch(t, dir, "march.csv", base.Add(48*time.Hour))
	touch(t, dir, "january.XLSX", base)
	touch(t, dir, "notes.txt", base)
	touch(t, dir, ".hidden.csv", base)
	touch(t, dir, "~$january.xlsx", base)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755))

	found, err := NewDiscovery("").FindDatasets(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "january.XLSX", found[0].Name)
	assert.Equal(t, "march.csv", found[1].Name)
	assert.Equal(t, filepath.Join(dir, "march.csv"), found[1].Path)
}

func TestFindDatasetsMissingDirectory(t *testing.T) {
	_, err := NewDiscovery("").FindDatasets(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestResolveDataset(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "data")
	require.NoError(t, os.Mkdir(dir, 0o755))
	now := time.Now()

	touch(t, dir, "old.csv", now.Add(-time.Hour))
	newest := touch(t, dir, "new.xlsx", now)

	d := NewDiscovery(base)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"directory picks newest", "data", newest},
		{"file is kept", "data/old.csv", filepath.Join(dir, "old.csv")},
		{"absolute file is kept", newest, newest},
		{"missing path is passed through", "data/absent.csv", filepath.Join(dir, "absent.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ResolveDataset(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDatasetEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md", time.Now())

	_, err := NewDiscovery("").ResolveDataset(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDataset))
}

func TestIsDataset(t *testing.T) {
	assert.True(t, IsDataset("customers.csv"))
	assert.True(t, IsDataset("Customers.XLSX"))
	assert.False(t, IsDataset("customers.xls"))
	assert.False(t, IsDataset("customers"))
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "a", ModTime: now.Add(-time.Minute)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)
}
