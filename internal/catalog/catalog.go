// Package catalog implements the CSV-driven datapoint catalog loader
// (spec component C1): an immutable, read-only mapping from numeric
// datapoint id to its Descriptor.
package catalog

import "github.com/hovalvent/hovalventd/internal/datapoint"

// Catalog is immutable once returned by LoadFile/Parse. It may be shared
// across goroutines (spec §5 — "the catalog is read-only after load and
// may be shared across threads").
type Catalog struct {
	byID map[uint16]datapoint.Descriptor
}

// Empty returns a catalog with no entries — the decoder then emits
// nothing, matching spec §4.1's "start with empty catalog" degradation.
func Empty() *Catalog {
	return &Catalog{byID: make(map[uint16]datapoint.Descriptor)}
}

// Get looks up a descriptor by datapoint id.
func (c *Catalog) Get(id uint16) (datapoint.Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Len returns the number of catalogued datapoints.
func (c *Catalog) Len() int {
	return len(c.byID)
}
