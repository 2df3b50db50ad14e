package stream

import (
	"github.com/hovalvent/hovalventd/internal/catalog"
	"github.com/hovalvent/hovalventd/internal/datapoint"
)

// Emission is one decoded datapoint reading produced by ParseFrame or
// ScanOutdoorTemp, before dedup/anomaly filtering (spec component C6).
type Emission struct {
	Name  string
	Value float64
	Unit  string
}

// idPrefix marks the start of a primary id+value encoding inside a frame.
const idPrefix = 0x00

// ParseFrame walks frame's primary 0x00-prefixed id+value encoding (spec
// §4.4) and returns every emission it can decode against cat. Datapoint id
// 0 is skipped here; it is handled separately by ScanOutdoorTemp. Unknown
// ids resync by advancing a single byte so a misaligned read recovers
// instead of desynchronizing for the rest of the frame.
func ParseFrame(frame []byte, cat *catalog.Catalog) []Emission {
	var out []Emission

	i := len(marker)
	for i < len(frame) {
		if frame[i] != idPrefix {
			i++
			continue
		}
		if i+3 > len(frame) {
			break
		}

		id := uint16(frame[i+1])<<8 | uint16(frame[i+2])
		if id == 0 {
			i += 3
			continue
		}

		desc, ok := cat.Get(id)
		if !ok {
			i++
			continue
		}

		value, avail := datapoint.Decode(frame, i+3, desc)
		if avail && !rangeFilterRejects(desc, value) {
			out = append(out, Emission{Name: desc.NormalizedName, Value: value, Unit: desc.Unit})
		}

		i += 3 + desc.Type.Size()
	}

	return out
}

// rangeFilterRejects implements the parser-level anomaly gate (spec §4.4):
// temperature-like datapoints outside [-40, 70] are dropped, and an
// "Aussen" datapoint reading exactly 0.0 is treated as not-yet-valid.
func rangeFilterRejects(desc datapoint.Descriptor, value float64) bool {
	if desc.HasTempRangeGate() && (value < -40 || value > 70) {
		return true
	}
	if desc.IsAussen() && value == 0.0 {
		return true
	}
	return false
}
