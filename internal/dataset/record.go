package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// NotFoundDescription is the single description line of the NotFound record.
const NotFoundDescription = "Cannot find this Location ??!!"

// Record is one dataset entry. Records are immutable once loaded.
//
// Keys the schema does not name are kept in Extra and written back out
// unchanged. The named fields are always re-encoded from the struct: a
// source object without "desc" is written with "desc":[], and one without
// "locationID" with "locationID":0.
type Record struct {
	// ID orders the dataset. It is not unique and not contiguous.
	ID int
	// Description is the record's text, one element per line.
	Description []string
	// Next is the ID the record points the reader on to ("go").
	Next *int
	// HitPoints is an optional score adjustment.
	HitPoints *int
	// Options are the record's choices, kept in their source form.
	Options []json.RawMessage
	// Extra holds every other key of the source object.
	Extra map[string]json.RawMessage
}

// Wire names of the known fields.
const (
	fieldID          = "locationID"
	fieldDescription = "desc"
	fieldNext        = "go"
	fieldHitPoints   = "hitPoints"
	fieldOptions     = "options"
)

// NotFound returns the sentinel record served when a position resolves to
// nothing. Each call returns a fresh value.
func NotFound() Record {
	return Record{ID: 0, Description: []string{NotFoundDescription}}
}

// IsNotFound reports whether r is the NotFound sentinel.
func (r Record) IsNotFound() bool {
	return r.ID == 0 &&
		len(r.Description) == 1 && r.Description[0] == NotFoundDescription &&
		r.Next == nil && r.HitPoints == nil && len(r.Options) == 0 && len(r.Extra) == 0
}

type wireRecord struct {
	ID          int               `json:"locationID"`
	Description []string          `json:"desc"`
	Next        *int              `json:"go,omitempty"`
	HitPoints   *int              `json:"hitPoints,omitempty"`
	Options     []json.RawMessage `json:"options,omitempty"`
}

// MarshalJSON writes the known fields first, then Extra in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	desc := r.Description
	if desc == nil {
		desc = []string{}
	}
	known, err := json.Marshal(wireRecord{
		ID:          r.ID,
		Description: desc,
		Next:        r.Next,
		HitPoints:   r.HitPoints,
		Options:     r.Options,
	})
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return known, nil
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(known[:len(known)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(r.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads one record object. A missing or null locationID is
// treated as 0.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("record is null")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Record
	if raw, ok := fields[fieldID]; ok {
		if err := json.Unmarshal(raw, &out.ID); err != nil {
			return fmt.Errorf("field %q: %w", fieldID, err)
		}
		delete(fields, fieldID)
	}
	if raw, ok := fields[fieldDescription]; ok {
		if err := json.Unmarshal(raw, &out.Description); err != nil {
			return fmt.Errorf("field %q: %w", fieldDescription, err)
		}
		delete(fields, fieldDescription)
	}
	if raw, ok := fields[fieldNext]; ok {
		if err := json.Unmarshal(raw, &out.Next); err != nil {
			return fmt.Errorf("field %q: %w", fieldNext, err)
		}
		delete(fields, fieldNext)
	}
	if raw, ok := fields[fieldHitPoints]; ok {
		if err := json.Unmarshal(raw, &out.HitPoints); err != nil {
			return fmt.Errorf("field %q: %w", fieldHitPoints, err)
		}
		delete(fields, fieldHitPoints)
	}
	if raw, ok := fields[fieldOptions]; ok {
		if err := json.Unmarshal(raw, &out.Options); err != nil {
			return fmt.Errorf("field %q: %w", fieldOptions, err)
		}
		delete(fields, fieldOptions)
	}

	if len(fields) > 0 {
		out.Extra = fields
	}
	*r = out
	return nil
}
