// Package keyring holds the set of API keys accepted by the lookup endpoint.
//
// Keys are read once at startup from numbered configuration slots named
// after a base name: the bare base name, then base_1, base_2 and so on. A
// slot that is unset or empty is skipped. The ring never changes afterwards.
package keyring

import (
	"crypto/subtle"
	"strconv"
)

// DefaultMaxKeys is the number of slots probed when no limit is configured.
const DefaultMaxKeys = 33

// Source resolves configuration entries by name.
type Source interface {
	Lookup(name string) (string, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (string, bool)

// Lookup calls f.
func (f SourceFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// MapSource is a Source backed by a map. Handy for tests and fixtures.
type MapSource map[string]string

// Lookup returns the value stored under name.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Slot is one loaded key and the configuration entry it came from.
type Slot struct {
	Name string
	key  string
}

// Len returns the length of the slot's key. The key itself is not exposed.
func (s Slot) Len() int {
	return len(s.key)
}

// KeyRing is an immutable set of accepted API keys.
type KeyRing struct {
	slots []Slot
}

// SlotName returns the configuration entry name for slot n. Slot numbers
// below 1 map to the bare base name.
func SlotName(base string, n int) string {
	if n < 1 {
		return base
	}
	return base + "_" + strconv.Itoa(n)
}

// Build probes slots 0 through maxCount-1 of base in src. Non-empty values
// are added in slot order; a value already in the ring is not added twice.
// A maxCount below 1 falls back to DefaultMaxKeys.
func Build(src Source, base string, maxCount int) *KeyRing {
	if maxCount < 1 {
		maxCount = DefaultMaxKeys
	}

	ring := &KeyRing{}
	seen := make(map[string]bool)
	for n := 0; n < maxCount; n++ {
		name := SlotName(base, n)
		value, ok := src.Lookup(name)
		if !ok || value == "" || seen[value] {
			continue
		}
		seen[value] = true
		ring.slots = append(ring.slots, Slot{Name: name, key: value})
	}
	return ring
}

// New builds a ring directly from keys, naming slots after base. Empty and
// duplicate keys are dropped.
func New(base string, keys ...string) *KeyRing {
	src := make(MapSource, len(keys))
	for i, k := range keys {
		src[SlotName(base, i)] = k
	}
	return Build(src, base, len(keys))
}

// Len returns the number of keys in the ring.
func (r *KeyRing) Len() int {
	if r == nil {
		return 0
	}
	return len(r.slots)
}

// Slots returns the loaded slots in probe order.
func (r *KeyRing) Slots() []Slot {
	if r == nil {
		return nil
	}
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// IsValid reports whether candidate exactly matches a key in the ring. The
// empty string is never valid.
func (r *KeyRing) IsValid(candidate string) bool {
	_, ok := r.Match(candidate)
	return ok
}

// Match reports which slot candidate matches. Every key is compared in
// constant time, and the loop does not stop at the first hit.
func (r *KeyRing) Match(candidate string) (slot string, ok bool) {
	if candidate == "" || r == nil {
		return "", false
	}

	c := []byte(candidate)
	for _, s := range r.slots {
		if subtle.ConstantTimeCompare(c, []byte(s.key)) == 1 && !ok {
			slot, ok = s.Name, true
		}
	}
	return slot, ok
}
