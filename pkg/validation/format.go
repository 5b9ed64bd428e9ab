// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported terminal formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateExportFormat checks if the export format is one of the supported file formats.
func ValidateExportFormat(format string) error {
	if format != constants.OutputFormatCSV && format != constants.OutputFormatXLSX {
		return fmt.Errorf("expected export format of %s or %s, got %s",
			constants.OutputFormatCSV, constants.OutputFormatXLSX, format)
	}
	return nil
}
