package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/FocuswithJustin/seqconvert/core/cas"
	"github.com/FocuswithJustin/seqconvert/core/convert"
	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/internal/cache"
	"github.com/FocuswithJustin/seqconvert/internal/logging"
	"github.com/FocuswithJustin/seqconvert/internal/validation"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ConvertResult is the result of a conversion: the converted text and its
// report.
type ConvertResult struct {
	Output string          `json:"output"`
	Report *convert.Report `json:"report"`
	Cached bool            `json:"cached,omitempty"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Formats int         `json:"formats"`
	Jobs    int         `json:"jobs"`
	Cache   cache.Stats `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: s.cfg.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Formats: len(formats.List()),
		Jobs:    s.jobs.Len(),
		Cache:   s.cacheStats(),
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	handlers := formats.List()
	list := make([]formats.Descriptor, len(handlers))
	for i, h := range handlers {
		list[i] = h.Descriptor()
	}
	response := APIResponse{
		Success: true,
		Data:    list,
		Meta: &APIMeta{
			Total:     len(list),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleConvert handles POST /convert?from=&to=: the body is the source
// text, possibly gzip or xz compressed, and the response carries the
// converted text.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "from and to are required")
		return
	}
	opts, err := parseOptions(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_OPTION", err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.maxBody()))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", err.Error())
		return
	}
	body, kind, err := validation.Source(bytes.NewReader(body), s.cfg.maxBody())
	if err != nil {
		logging.SecurityEvent("upload_rejected", "api", "content_type", string(kind), "error", err.Error())
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := s.runConversion(r.Context(), body, from, to, opts)
	if err != nil {
		status, code := errorStatus(err)
		respondError(w, status, code, err.Error())
		return
	}
	respond(w, http.StatusOK, result)
}

// runConversion converts an in-memory source between two named formats.
// Results are memoized by the digest of the source, the formats and the
// options.
func (s *Server) runConversion(ctx context.Context, src []byte, from, to string, opts formats.Options) (*ConvertResult, error) {
	in, err := formats.Lookup(from)
	if err != nil {
		return nil, err
	}
	out, err := formats.Lookup(to)
	if err != nil {
		return nil, err
	}
	if !in.Descriptor().CanRead {
		return nil, errors.NewUnsupported(from, "read")
	}
	if !out.Descriptor().CanWrite {
		return nil, errors.NewUnsupported(to, "write")
	}

	key := resultKey(src, in.Descriptor().Name, out.Descriptor().Name, opts)
	if s.results != nil {
		if hit, ok := s.results.Get(key); ok {
			cached := *hit
			cached.Cached = true
			return &cached, nil
		}
	}

	start := time.Now()
	logging.ConversionStarted(ctx, "request", "response", from, to)
	var buf bytes.Buffer
	rep, err := convert.Stream(bytes.NewReader(src), &buf, in, out, opts)
	if err != nil {
		logging.ConversionFailed(ctx, "request", err)
		return nil, err
	}
	logging.ConversionFinished(ctx, "request", rep.RecordsWritten, rep.Skipped, len(rep.Warnings), time.Since(start))

	result := &ConvertResult{Output: buf.String(), Report: rep}
	if s.results != nil {
		s.results.Put(key, result)
	}
	return result, nil
}

func resultKey(src []byte, from, to string, opts formats.Options) string {
	return fmt.Sprintf("%s|%s|%s|%t%t%t", cas.Blake3Hash(src), from, to,
		opts.AllowEmptySequences, opts.AutomaticRenaming, opts.PreserveSpaces)
}

// parseOptions reads allow_empty, preserve_spaces and automatic_renaming
// from the query, starting from the defaults.
func parseOptions(q url.Values) (formats.Options, error) {
	opts := formats.DefaultOptions()
	for key, dst := range map[string]*bool{
		"allow_empty":        &opts.AllowEmptySequences,
		"preserve_spaces":    &opts.PreserveSpaces,
		"automatic_renaming": &opts.AutomaticRenaming,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrapf(errors.ErrInvalidInput, "%s: %q is not a boolean", key, v)
		}
		*dst = b
	}
	return opts, nil
}

// errorStatus maps conversion errors onto HTTP statuses.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrFormatUnknown):
		return http.StatusBadRequest, "UNKNOWN_FORMAT"
	case errors.Is(err, errors.ErrUnsupportedDirection):
		return http.StatusBadRequest, "UNSUPPORTED_DIRECTION"
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, errors.ErrMalformedInput):
		return http.StatusUnprocessableEntity, "MALFORMED_INPUT"
	case errors.Is(err, errors.ErrMissingField):
		return http.StatusUnprocessableEntity, "MISSING_FIELD"
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	}
	return http.StatusInternalServerError, "CONVERSION_FAILED"
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
