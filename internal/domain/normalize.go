package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// fieldAliases maps each canonical Reading field to the header spellings
// seen across sensor vendors' exports, in priority order. The first alias
// present in the header wins, so ordering is significant: keep the exact
// vendor spellings before the generic fallbacks.
var fieldAliases = []struct {
	canonical string
	spellings []string
}{
	{"datetime", []string{"datetime", "date_time", "timestamp", "recorded_at", "time", "date"}},
	{"sourceId", []string{"sourceId", "source_id", "nodeId", "node_id", "sensorId", "sensor_id", "deviceId", "device_id", "from_node"}},
	{"pm25", []string{"pm25Standard", "pm25standard", "pm2.5", "pm2_5", "pm25"}},
	{"pm10", []string{"pm10Standard", "pm10standard", "pm_10", "pm10"}},
	{"temperature", []string{"temperature", "temperature_c", "temp_c", "temp"}},
	{"humidity", []string{"relativeHumidity", "relativehumidity", "relative_humidity", "humidity", "rh"}},
	{"latitude", []string{"latitude", "lat"}},
	{"longitude", []string{"longitude", "lon", "lng", "long"}},
}

// datetimeLayouts are tried in order when coercing the datetime column.
// Layouts without a zone are interpreted as UTC.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalizer maps raw CSV rows to Readings. Alias resolution happens once
// per upload, against the header row, so per-row work is a plain index
// lookup and the alias order stays deterministic.
type Normalizer struct {
	columns map[string]int // canonical field -> column index
}

// NewNormalizer resolves the alias table against a header row. When two
// header columns match the same canonical field, the first column wins.
func NewNormalizer(header []string) *Normalizer {
	lowered := make(map[string]int, len(header))
	for i, column := range header {
		key := strings.ToLower(strings.TrimSpace(column))
		if _, ok := lowered[key]; !ok {
			lowered[key] = i
		}
	}

	columns := make(map[string]int, len(fieldAliases))
	for _, fa := range fieldAliases {
		for _, spelling := range fa.spellings {
			if idx, ok := lowered[strings.ToLower(spelling)]; ok {
				columns[fa.canonical] = idx
				break
			}
		}
	}
	return &Normalizer{columns: columns}
}

// Normalize builds a Reading from one tokenized row. Rows shorter than the
// header simply leave the missing fields absent. A row with no parseable
// timestamp is stamped with the current ingestion time and flagged inferred.
func (n *Normalizer) Normalize(fields []string) Reading {
	r := Reading{
		SourceID:    n.stringAt(fields, "sourceId"),
		PM25:        n.floatAt(fields, "pm25"),
		PM10:        n.floatAt(fields, "pm10"),
		Temperature: n.floatAt(fields, "temperature"),
		Humidity:    n.floatAt(fields, "humidity"),
		Latitude:    n.floatAt(fields, "latitude"),
		Longitude:   n.floatAt(fields, "longitude"),
	}

	if ts, ok := parseDatetime(n.stringAt(fields, "datetime")); ok {
		r.Datetime = ts
	} else {
		r.Datetime = clock.Now().UTC()
		r.DatetimeInferred = true
	}
	return r
}

func (n *Normalizer) stringAt(fields []string, canonical string) string {
	idx, ok := n.columns[canonical]
	if !ok || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// floatAt coerces a raw field to a measurement. Empty, non-numeric, and
// non-finite values become absent, never zero.
func (n *Normalizer) floatAt(fields []string, canonical string) *float64 {
	raw := n.stringAt(fields, canonical)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseDatetime tries the known layouts, then unix epoch seconds and
// milliseconds. Zone-less layouts are read as UTC.
func parseDatetime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}

	if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil && epoch > 0 {
		// 13+ digits is milliseconds; 10 digits is seconds.
		if len(raw) >= 13 {
			return time.UnixMilli(epoch).UTC(), true
		}
		if len(raw) == 10 {
			return time.Unix(epoch, 0).UTC(), true
		}
	}

	return time.Time{}, false
}
