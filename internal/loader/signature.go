package loader

import (
	"fmt"
	"os"

	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// Stat returns the signature of every path, in order.
func Stat(paths []string) ([]series.FileSignature, error) {
	sigs := make([]series.FileSignature, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", ErrLoad, path, err)
		}
		sigs = append(sigs, series.FileSignature{Path: path, Size: info.Size(), ModTime: info.ModTime()})
	}
	return sigs, nil
}

// SameSignatures reports whether two signature sets describe identical inputs.
func SameSignatures(a, b []series.FileSignature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Size != b[i].Size || !a[i].ModTime.Equal(b[i].ModTime) {
			return false
		}
	}
	return true
}
