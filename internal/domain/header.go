package domain

import "strings"

// schemaMarkers are the substrings that identify a header row as an
// air-quality export. Matching is case-insensitive and substring-based,
// so "pm25Standard", "PM2.5 (ug/m3)" and "relativeHumidity" all qualify.
var schemaMarkers = []string{
	"datetime",
	"pm25",
	"pm25standard",
	"pm10",
	"pm10standard",
	"temperature",
	"humidity",
	"relativehumidity",
}

// ValidateHeader gates obviously wrong files before normalization.
// It returns ErrMalformedCSV for headers with fewer than two columns and
// ErrUnrecognizedSchema when no column name contains a known marker.
func ValidateHeader(header []string) error {
	if len(header) < 2 {
		return ErrMalformedCSV
	}
	for _, column := range header {
		lower := strings.ToLower(column)
		for _, marker := range schemaMarkers {
			if strings.Contains(lower, marker) {
				return nil
			}
		}
	}
	return ErrUnrecognizedSchema
}
