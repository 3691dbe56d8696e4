// Command genmock generates a deterministic mock sensor CSV fixture for
// local development and demos. Rows mimic a LoRa mesh export: mixed column
// casing, occasional missing coordinates, and a few unparseable values, so
// the fixture exercises the same normalization paths real uploads do.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/mock_readings.csv -rows 1200
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"
)

var baseTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var nodes = []struct {
	id       string
	lat, lon float64
}{
	{"node-01", 39.7392, -121.8375},
	{"node-02", 39.7441, -121.8129},
	{"node-03", 39.7288, -121.8552},
	{"node-04", 39.7515, -121.8290},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the CSV fixture")
	rows := flag.Int("rows", 1200, "number of data rows to generate")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	var b strings.Builder
	b.WriteString("datetime,from_node,pm25Standard,pm10Standard,temperature,relativeHumidity,latitude,longitude\n")

	for i := 0; i < *rows; i++ {
		node := nodes[i%len(nodes)]
		ts := baseTime.Add(time.Duration(i) * 10 * time.Minute)

		// Deterministic pseudo-measurements: a daily cycle plus per-node offset.
		phase := float64(i) / 144 * 2 * math.Pi
		pm25 := 8.0 + 6.0*math.Sin(phase) + float64(i%len(nodes))
		pm10 := pm25 * 1.8
		temp := 14.0 + 9.0*math.Sin(phase-math.Pi/3)
		rh := 55.0 - 20.0*math.Sin(phase-math.Pi/3)

		pm25Field := fmt.Sprintf("%.1f", pm25)
		latField := fmt.Sprintf("%.4f", node.lat)
		lonField := fmt.Sprintf("%.4f", node.lon)

		// Sprinkle in the defects real exports have.
		if i%97 == 0 {
			pm25Field = "N/A"
		}
		if i%53 == 0 {
			latField, lonField = "", ""
		}

		fmt.Fprintf(&b, "%s,%s,%s,%.1f,%.1f,%.1f,%s,%s\n",
			ts.Format(time.RFC3339), node.id, pm25Field, pm10, temp, rh, latField, lonField)
	}

	if err := os.WriteFile(*out, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	log.Printf("%s: wrote %d rows", *out, *rows)
	return nil
}
