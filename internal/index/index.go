// Package index orders records by ID and resolves one-based positions.
//
// Lookup is by position in the sorted sequence, not by record ID. Position 0
// is reserved for the NotFound sentinel, so position i (1 <= i <= Len) is
// the i-th smallest-ID record:
//
//	ids in file:   [5 2 2 9]
//	sorted:        [2 2 5 9]
//	Resolve(1) -> first 2, Resolve(4) -> 9, Resolve(5) -> NotFound
package index

import (
	"cmp"
	"slices"

	"github.com/PolarWolf314/capi/internal/dataset"
)

// Index is an immutable, ID-ordered view over a dataset.
type Index struct {
	records []dataset.Record
}

// Build copies records and sorts the copy by ID. Records sharing an ID keep
// their input order. The caller's slice is left untouched.
func Build(records []dataset.Record) *Index {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b dataset.Record) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return &Index{records: sorted}
}

// Len returns the number of records in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// Resolve returns the record at the one-based position. Position 0,
// negative positions and positions past Len all return dataset.NotFound().
// It never fails.
func (ix *Index) Resolve(position int) dataset.Record {
	if position < 1 || position > ix.Len() {
		return dataset.NotFound()
	}
	return ix.records[position-1]
}

// Records returns a copy of the sorted sequence.
func (ix *Index) Records() []dataset.Record {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.records)
}

// IDRange returns the smallest and largest record IDs. ok is false for an
// empty index.
func (ix *Index) IDRange() (lowest, highest int, ok bool) {
	if ix.Len() == 0 {
		return 0, 0, false
	}
	return ix.records[0].ID, ix.records[len(ix.records)-1].ID, true
}
