// Package constants provides shared constants for the peso-dashboard application.
package constants

import "time"

// DateLayout is the format used for dates in config files, query parameters and
// all output.
const DateLayout = "2006-01-02"

// MixedDateLayout asks the loader to try several common layouts per cell.
const MixedDateLayout = "mixed"

// Default view range, matching the initial state of the dashboard date inputs.
const (
	DefaultViewStart = "2018-01-01"
	DefaultViewEnd   = "2023-11-30"
)

// Number locales accepted for value columns.
const (
	// NumberLocaleStandard parses values like "1234.5" (an optional "," thousands
	// separator is tolerated).
	NumberLocaleStandard = "standard"

	// NumberLocaleDecimalComma parses values like "4.123,45".
	NumberLocaleDecimalComma = "decimal-comma"
)

// ScaleFactor converts the fertilizer columns, which are quoted per thousandth of
// a bag, into the per-bag price used elsewhere.
const ScaleFactor = 1000

// Observation categories.
const (
	CategoryPrice = "price"
	CategoryEvent = "event"
)

// EventJoinSeparator joins several event descriptions that share a date.
const EventJoinSeparator = " / "

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the spreadsheet export format
	OutputFormatXLSX = "xlsx"
)

// PrimaryCurrency is the ISO code of the primary series values.
const PrimaryCurrency = "COP"

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxOverlays bounds the number of overlay ids accepted per request
	DefaultMaxOverlays = 16

	// DefaultReadTimeout bounds reading a request, headers included
	DefaultReadTimeout = 15 * time.Second

	// DefaultInvalidateRate is the sustained rate of accepted cache invalidations per second
	DefaultInvalidateRate = 0.2

	// DefaultInvalidateBurst is the number of invalidations accepted at once
	DefaultInvalidateBurst = 3

	// EnvPrefix prefixes environment overrides of the server configuration
	EnvPrefix = "PESO"
)
