// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
)

// ValidateDateRange parses optional YYYY-MM-DD bounds. An empty bound yields the
// zero date, which filters treat as unbounded.
func ValidateDateRange(start, end string) (datetime.Date, datetime.Date, error) {
	var from, to datetime.Date
	var err error

	if start != "" {
		if from, err = datetime.Parse(constants.DateLayout, start); err != nil {
			return datetime.Date{}, datetime.Date{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
	}
	if end != "" {
		if to, err = datetime.Parse(constants.DateLayout, end); err != nil {
			return datetime.Date{}, datetime.Date{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return datetime.Date{}, datetime.Date{}, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return from, to, nil
}

// ValidateCoverage warns when the requested range lies outside the loaded data.
func ValidateCoverage(from, to, first, last datetime.Date) []string {
	var warnings []string
	if first.IsZero() || last.IsZero() {
		return []string{"no data loaded"}
	}
	if !to.IsZero() && to.Before(first) {
		warnings = append(warnings, fmt.Sprintf("range ends %s, before the first observation on %s", to, first))
	}
	if !from.IsZero() && from.After(last) {
		warnings = append(warnings, fmt.Sprintf("range starts %s, after the last observation on %s", from, last))
	}
	return warnings
}
