// Package supabase implements the storage collaborator against a Supabase
// project's PostgREST endpoint. Inserts go through the REST bulk-insert
// surface (POST a JSON array to /rest/v1/<table>); no direct Postgres
// connection is held.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emberline/airq-ingest-service/internal/domain"
	"github.com/emberline/airq-ingest-service/internal/storage"
)

// readingColumns are the table columns the insert payload writes. Used to
// recognize schema-mismatch rejections by scanning the PostgREST error
// message; checked longest-first so "pm25standard" does not also report
// "pm25".
var readingColumns = []string{
	"pm25standard",
	"pm10standard",
	"temperature",
	"source_id",
	"longitude",
	"humidity",
	"latitude",
	"datetime",
	"pm25",
	"pm10",
}

// Client implements storage.Store against PostgREST.
type Client struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a PostgREST client for the given project URL and
// service key.
func NewClient(baseURL, apiKey, table string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		table:      table,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// insertRow is the wire shape of one reading. Column names are the table's
// snake_case names; nil measurements are omitted so the database keeps NULL
// rather than zero. The inferred flag is not a table column and is dropped.
type insertRow struct {
	Datetime    string   `json:"datetime"`
	SourceID    string   `json:"source_id,omitempty"`
	PM25        *float64 `json:"pm25,omitempty"`
	PM10        *float64 `json:"pm10,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// InsertBatch bulk-inserts one batch. On a PostgREST rejection whose message
// names a known column, it returns a *storage.SchemaMismatchError carrying
// the offending fields.
func (c *Client) InsertBatch(ctx context.Context, readings []domain.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	rows := make([]insertRow, len(readings))
	for i, r := range readings {
		rows[i] = insertRow{
			Datetime:    r.Datetime.UTC().Format(time.RFC3339Nano),
			SourceID:    r.SourceID,
			PM25:        r.PM25,
			PM10:        r.PM10,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		}
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return 0, fmt.Errorf("marshal insert payload: %w", err)
	}

	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create insert request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return len(readings), nil
	}

	return 0, c.decodeError(resp)
}

// Ping checks that the table is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	u := fmt.Sprintf("%s/rest/v1/%s?select=datetime&limit=1", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping storage: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("ping storage: status %d", resp.StatusCode)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// postgrestError is the JSON error body PostgREST returns on rejection.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// decodeError turns a non-2xx response into a typed error. Column-name
// mentions in the message become a SchemaMismatchError so the caller can
// tell a data problem from an infrastructure one.
func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var pgErr postgrestError
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &pgErr); err == nil && pgErr.Message != "" {
		message = pgErr.Message
	}

	if fields := matchColumns(message); len(fields) > 0 {
		return &storage.SchemaMismatchError{Fields: fields, Message: message}
	}

	return fmt.Errorf("insert batch: status %d: %s", resp.StatusCode, message)
}

// matchColumns finds known column names mentioned in a PostgREST error
// message. Longer names are matched first and their spans blanked out so a
// hit on "pm25standard" does not double-report "pm25".
func matchColumns(message string) []string {
	lower := strings.ToLower(message)

	var fields []string
	for _, column := range readingColumns {
		if !strings.Contains(lower, column) {
			continue
		}
		fields = append(fields, column)
		lower = strings.ReplaceAll(lower, column, "")
	}
	return fields
}
