package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
)

// mixedLayouts are tried in order for the "mixed" layout. Slash dates are read
// month-first and fall back to day-first when the month would be out of range.
var mixedLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"2/1/2006",
	"1/2/06",
	"02.01.2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01",
	"January 2006",
}

// Parse reads text with a Go time layout, or with MixedDateLayout to accept any
// of the common layouts. The time of day, if any, is discarded.
func Parse(layout, text string) (Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if layout == constants.MixedDateLayout {
		return parseMixed(text)
	}
	t, err := time.Parse(layout, text)
	if err != nil {
		return Date{}, err
	}
	return FromTime(t), nil
}

func parseMixed(text string) (Date, error) {
	for _, layout := range mixedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date format %q", text)
}
