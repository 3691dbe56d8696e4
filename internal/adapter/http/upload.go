package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/emberline/airq-ingest-service/internal/domain"
)

// handleUpload accepts a CSV payload — either the raw request body or a
// multipart "file" field — with optional startDate/endDate parameters, runs
// it through the ingestion pipeline, and returns the report.
//
// A report with totalFailed > 0 is still a 200: per-batch failures are part
// of the report, not a failure of the upload call. Only fatal validation
// errors map to error statuses.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	csvText, err := readCSVPayload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			renderError(w, r, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	window, err := domain.ParseTimeWindow(param(r, "startDate"), param(r, "endDate"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.ingester.Ingest(r.Context(), csvText, window)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrMalformedCSV):
			renderError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUnrecognizedSchema):
			renderError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("ingest failed", "error", err)
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, report)
}

// readCSVPayload extracts the CSV text from a multipart "file" field when
// present, falling back to the raw request body.
func readCSVPayload(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", err
			}
			return "", errors.New(`multipart upload is missing the "file" field`)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// param reads a parameter from the query string, or from the form for
// multipart uploads.
func param(r *http.Request, name string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return r.FormValue(name)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
