package audit

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Outcomes recorded for a lookup.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeMissingKey = "missing_key"
	OutcomeBadKey     = "bad_key"
)

// Entry represents a single access log entry.
type Entry struct {
	Timestamp string `json:"ts"`         // RFC3339 with microseconds.
	RequestID string `json:"request_id"` // Per-request UUID.
	Operation string `json:"op"`         // Operation name.
	Outcome   string `json:"outcome"`    // One of the Outcome constants.

	// Optional fields depending on outcome.
	Requested  string `json:"requested,omitempty"`   // Raw identifier from the path.
	Position   int    `json:"position,omitempty"`    // Position after coercion.
	RecordID   int    `json:"record_id,omitempty"`   // ID of the record served.
	KeySlot    string `json:"key_slot,omitempty"`    // Slot that authenticated.
	RemoteAddr string `json:"remote_addr,omitempty"` // Client address.
}

// Log appends entries to a JSON Lines file. A nil *Log discards entries.
type Log struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// Open opens path for appending, creating it if needed.
func Open(path string) (*Log, error) {
	// #nosec G302 -- operators read this file; it holds no key material.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, err
	}
	return &Log{path: path, f: f}, nil
}

// Path returns the file the log writes to.
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Write appends an entry. If logging fails it does nothing; a request
// should not fail just because the access log did.
func (l *Log) Write(entry Entry) {
	if l == nil {
		return
	}

	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	_, _ = l.f.Write(append(data, '\n'))
}

// Close flushes and closes the file.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// ReadEntries reads all entries from the log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// SlotUsage counts successful lookups per key slot. Operators use it to see
// whether a slot is still in use before retiring its key.
func SlotUsage(entries []Entry) map[string]int {
	usage := make(map[string]int)
	for _, e := range entries {
		if e.KeySlot == "" {
			continue
		}
		usage[e.KeySlot]++
	}
	return usage
}
