// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// FindObservation finds the observation dated date (YYYY-MM-DD) in rows.
// Returns a pointer into rows if found, nil otherwise.
func FindObservation(rows []series.PriceObservation, date string) *series.PriceObservation {
	for i := range rows {
		if rows[i].Date.String() == date {
			return &rows[i]
		}
	}
	return nil
}

// CopyDir copies the regular files of src into a fresh temporary directory and
// returns its path.
func CopyDir(t testing.TB, src string) string {
	t.Helper()
	dir := t.TempDir()
	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("failed to read %s: %v", src, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		WriteFile(t, dir, e.Name(), string(data))
	}
	return dir
}

// WriteFile writes content to dir/name, failing the test on error.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
