package loader

import (
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
)

// ParseDate parses a date cell with a Go time layout, or with the "mixed"
// layout which tries the common forms in turn. Any time of day is dropped.
func ParseDate(text, layout string) (datetime.Date, error) {
	return datetime.Parse(layout, text)
}
