package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PolarWolf314/capi/internal/audit"
	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/go-chi/chi/v5"
)

// handleLookup serves GET /{id}. Only a missing or unknown API key produces
// an error status; any identifier problem resolves to the NotFound record.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	raw := chi.URLParam(r, "id")
	position := ParsePosition(raw, s.app.Index.Len())

	entry := audit.Entry{
		RequestID:  RequestID(r.Context()),
		Operation:  "lookup",
		Requested:  raw,
		Position:   position,
		RemoteAddr: r.RemoteAddr,
	}
	defer func() {
		s.audit.Write(entry)
		s.metrics.ObserveLookup(entry.Outcome, time.Since(start))
	}()

	token := r.Header.Get(s.config.APIKeyHeader)
	if token == "" {
		s.logger.Warnf("Rejected %s: %v", entry.RequestID, kerrors.ErrMissingAPIKey)
		entry.Outcome = audit.OutcomeMissingKey
		writeText(w, http.StatusBadRequest, kerrors.ErrMissingAPIKey.Error())
		return
	}

	slot, ok := s.app.Keys.Match(token)
	if !ok {
		s.logger.Warnf("Rejected %s: %v", entry.RequestID, kerrors.ErrBadAPIKey)
		entry.Outcome = audit.OutcomeBadKey
		writeText(w, http.StatusForbidden, kerrors.ErrBadAPIKey.Error())
		return
	}
	entry.KeySlot = slot

	record := s.app.Index.Resolve(position)
	if record.IsNotFound() {
		entry.Outcome = audit.OutcomeNotFound
		s.logger.Debugf("Request %s for %q resolved to nothing", entry.RequestID, raw)
	} else {
		entry.Outcome = audit.OutcomeOK
		entry.RecordID = record.ID
	}

	writeJSON(w, http.StatusOK, record)
}

// ParsePosition turns the path identifier into an index position. Leading
// whitespace is skipped and the longest signed run of decimal digits is
// used, so "12abc" is 12 and "1.5" is 1. Anything without leading digits,
// or outside [0, n], becomes 0.
func ParsePosition(raw string, n int) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	position, err := strconv.Atoi(s[:end])
	if err != nil || position < 0 || position > n {
		return 0
	}
	return position
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "failed to encode record")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
