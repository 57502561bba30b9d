package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/rankings"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

const maxGamesLimit = 100

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes. Store failures are logged and hidden.
func writeError(w http.ResponseWriter, err error, action string) {
	status := http.StatusInternalServerError
	switch {
	case league.IsInputError(err), errors.Is(err, rankings.ErrUnknownMetric):
		status = http.StatusBadRequest
	case errors.Is(err, league.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, league.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Error("Failed to "+action, "error", err)
		writeJSON(w, status, errorResponse{Error: "Failed to " + action})
		return
	}
	log.Warn("Rejected request", "action", action, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, league.ErrValidation)
	}
	return nil
}

// parseDate accepts RFC 3339 or a plain YYYY-MM-DD day. With endOfDay a plain day covers
// the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", raw, league.ErrValidation)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseRange(r *http.Request) (league.DateRange, error) {
	q := r.URL.Query()
	start, err := parseDate(q.Get("startDate"), false)
	if err != nil {
		return league.DateRange{}, err
	}
	end, err := parseDate(q.Get("endDate"), true)
	if err != nil {
		return league.DateRange{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return league.DateRange{}, fmt.Errorf("endDate before startDate: %w", league.ErrValidation)
	}
	return league.DateRange{Start: start, End: end}, nil
}

// parseLimit returns 0 when the parameter is absent so callers fall back to their default.
func parseLimit(r *http.Request, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || (max > 0 && n > max) {
		return 0, fmt.Errorf("invalid limit %q: %w", raw, league.ErrValidation)
	}
	return n, nil
}

func parseBool(r *http.Request, key string) bool {
	return r.URL.Query().Get(key) == "true"
}
