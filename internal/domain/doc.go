// Package domain models air-quality sensor readings uploaded as CSV exports.
//
// # Data Source
//
// Uploads come from field sensor networks (PurpleAir-style particulate
// monitors and LoRa mesh nodes) whose export formats never quite agree:
// column names vary in casing and spelling between vendors and firmware
// versions ("pm25Standard", "pm25standard", "pm2.5"), and some exports omit
// coordinates or node identifiers entirely. The normalizer reconciles these
// into a single Reading shape via a static alias table; see [NewNormalizer].
//
// # CSV Conventions
//
// Tokenizing:
//
//	Lines are split on newlines, blank lines discarded. Fields are split on
//	commas outside double quotes; a doubled quote inside a quoted field is a
//	literal quote. Surrounding whitespace is trimmed from every field.
//	A row whose field count differs from the header is zipped against the
//	header up to the shorter length rather than dropped. This is a deliberate
//	lenient policy: sensor exports routinely truncate trailing columns, and
//	losing the whole row over a missing humidity value is worse than losing
//	the humidity value.
//
// Schema gate:
//
//	A header row qualifies as an air-quality export when at least one column
//	name contains one of the known marker substrings (datetime, pm25, pm10,
//	temperature, humidity, ...). This is a heuristic, not a strict schema
//	check; it exists to reject obviously wrong files before normalization.
//
// Measurements:
//
//	Numeric fields (pm25, pm10, temperature, humidity, latitude, longitude)
//	are nullable. A value that fails to parse ("N/A", "", "err") becomes
//	absent, never zero: absence must stay distinguishable from a genuine
//	zero reading.
//
// Timestamps:
//
//	The datetime column accepts RFC 3339, space- or T-separated local
//	datetimes, bare dates, and unix epoch seconds or milliseconds. When no
//	timestamp parses, the reading is stamped with the ingestion wall-clock
//	time and marked inferred. Inferred timestamps are surfaced in the
//	ingestion report and exempt from date-range filtering so that
//	unknown-time data is never silently dropped or misfiltered.
package domain
