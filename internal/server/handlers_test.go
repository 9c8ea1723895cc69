package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/capi/internal/audit"
	"github.com/PolarWolf314/capi/internal/dataset"
	"github.com/PolarWolf314/capi/internal/index"
	"github.com/PolarWolf314/capi/internal/keyring"
	logger "github.com/PolarWolf314/capi/internal/logging"
	"github.com/PolarWolf314/capi/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "valid-key-0123456789"

// testApp indexes records with IDs [5 2 2 9].
func testApp() *App {
	return &App{
		Index: index.Build([]dataset.Record{
			{ID: 5, Description: []string{"five"}},
			{ID: 2, Description: []string{"two-first"}},
			{ID: 2, Description: []string{"two-second"}},
			{ID: 9, Description: []string{"nine"}},
		}),
		Keys: keyring.New("CAPI_API_KEY", "older-key", validKey),
	}
}

func quietLogger() logger.Logger {
	return logger.Logger{Out: io.Discard, Err: io.Discard}
}

func get(t *testing.T, h http.Handler, path string, key *string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != nil {
		req.Header.Set("X-API-KEY", *key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRecord(t *testing.T, rec *httptest.ResponseRecorder) dataset.Record {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var r dataset.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return r
}

func key(s string) *string { return &s }

func TestLookupValidKey(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	rec := get(t, h, "/1", key(validKey))
	require.Equal(t, http.StatusOK, rec.Code)
	r := decodeRecord(t, rec)
	assert.Equal(t, 2, r.ID)
	assert.Equal(t, []string{"two-first"}, r.Description)

	r = decodeRecord(t, get(t, h, "/2", key(validKey)))
	assert.Equal(t, []string{"two-second"}, r.Description)

	r = decodeRecord(t, get(t, h, "/4", key(validKey)))
	assert.Equal(t, 9, r.ID)
}

func TestLookupAnyRingKeyWorks(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()
	assert.Equal(t, http.StatusOK, get(t, h, "/3", key("older-key")).Code)
}

func TestLookupInvalidKey(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	rec := get(t, h, "/1", key("not-a-key"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "bad api key", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "not-a-key")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestLookupMissingKey(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	rec := get(t, h, "/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing token", rec.Body.String())

	// An empty header counts as missing.
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/1", key("")).Code)
}

func TestLookupKeyCheckedBeforeIdentifier(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/banana", nil).Code)
	assert.Equal(t, http.StatusForbidden, get(t, h, "/banana", key("nope")).Code)
}

func TestLookupBadIdentifiersResolveToNotFound(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	for _, path := range []string{"/0", "/5", "/99999", "/-1", "/abc", "/+", "/x12", "/99999999999999999999999"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path, key(validKey))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, decodeRecord(t, rec).IsNotFound())
			assert.JSONEq(t, `{"locationID":0,"desc":["Cannot find this Location ??!!"]}`, rec.Body.String())
		})
	}
}

func TestLookupUsesLeadingDigits(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	tests := map[string]string{
		"/4abc": "nine",
		"/1.5":  "two-first",
		"/3x":   "five",
		"/%202": "two-second",
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path, key(validKey))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{want}, decodeRecord(t, rec).Description)
		})
	}
}

func TestLookupOtherMethodsAndPaths(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/1", nil)
	req.Header.Set("X-API-KEY", validKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/1/extra", key(validKey)).Code)
}

func TestLookupCustomHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKeyHeader = "X-Custom-Key"
	h := New(testApp(), cfg, quietLogger()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/1", nil)
	req.Header.Set("X-Custom-Key", validKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/1", key(validKey)).Code)
}

func TestLookupSetsRequestID(t *testing.T) {
	h := New(testApp(), nil, quietLogger()).Handler()

	a := get(t, h, "/1", key(validKey)).Header().Get(RequestIDHeader)
	b := get(t, h, "/1", key(validKey)).Header().Get(RequestIDHeader)
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestLookupWritesAccessLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.jsonl")
	log, err := audit.Open(path)
	require.NoError(t, err)

	h := New(testApp(), nil, quietLogger(), WithAccessLog(log)).Handler()
	get(t, h, "/4", key(validKey))
	get(t, h, "/0", key("older-key"))
	get(t, h, "/1", key("wrong"))
	get(t, h, "/1", nil)
	require.NoError(t, log.Close())

	entries, err := audit.ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, audit.OutcomeOK, entries[0].Outcome)
	assert.Equal(t, 9, entries[0].RecordID)
	assert.Equal(t, "CAPI_API_KEY_1", entries[0].KeySlot)
	assert.NotEmpty(t, entries[0].RequestID)

	assert.Equal(t, audit.OutcomeNotFound, entries[1].Outcome)
	assert.Equal(t, "CAPI_API_KEY", entries[1].KeySlot)

	assert.Equal(t, audit.OutcomeBadKey, entries[2].Outcome)
	assert.Empty(t, entries[2].KeySlot)

	assert.Equal(t, audit.OutcomeMissingKey, entries[3].Outcome)
}

func TestLookupRecordsMetrics(t *testing.T) {
	m := metrics.New()
	h := New(testApp(), nil, quietLogger(), WithMetrics(m)).Handler()

	get(t, h, "/1", key(validKey))
	get(t, h, "/1", key(validKey))
	get(t, h, "/1", nil)

	count, err := testutil.GatherAndCount(m.Registry(), "capi_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(m.Registry(), "capi_dataset_records")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	h := New(testApp(), cfg, quietLogger()).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/1", key(validKey)).Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/1", key(validKey)).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/1", key(validKey)).Code)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		raw  string
		n    int
		want int
	}{
		{"1", 4, 1},
		{"4", 4, 4},
		{"5", 4, 0},
		{"0", 4, 0},
		{"-3", 4, 0},
		{"", 4, 0},
		{"x", 4, 0},
		{"+2", 4, 2},
		{"12abc", 20, 12},
		{"1.5", 20, 1},
		{"3x", 20, 3},
		{" 1", 20, 1},
		{"\t\n7", 20, 7},
		{"abc", 20, 0},
		{"+", 20, 0},
		{"-", 20, 0},
		{"a12", 20, 0},
		{"-2abc", 20, 0},
		{"99999999999999999999999", 20, 0},
		{"1", 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePosition(tt.raw, tt.n), "ParsePosition(%q, %d)", tt.raw, tt.n)
	}
}
