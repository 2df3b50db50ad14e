package stream

import (
	"encoding/binary"
	"math"

	"github.com/hovalvent/hovalventd/internal/catalog"
)

// outdoorTempID is the reserved datapoint id carried only by the reverse
// scan, never by the primary id+value encoding (spec §4.5).
const outdoorTempID = 0

var outdoorTerminator = []byte{0xFF, 0x02}

// ScanOutdoorTemp looks for the outdoor-temperature reading that the
// primary encoding never carries directly (spec §4.5). It scans forward
// for the 0xFF 0x02 terminator, then reads backward from it: the two bytes
// immediately before the terminator are the raw S16 value (tenths of a
// degree), and the four bytes before that are a prefix that must match one
// of the accepted zero-padding shapes. cat must contain a descriptor for
// id 0 or scanning is skipped entirely.
func ScanOutdoorTemp(frame []byte, cat *catalog.Catalog) (Emission, bool) {
	desc, ok := cat.Get(outdoorTempID)
	if !ok {
		return Emission{}, false
	}

	for i := 6; i+2 <= len(frame); i++ {
		if frame[i] != outdoorTerminator[0] || frame[i+1] != outdoorTerminator[1] {
			continue
		}

		value := frame[i-2 : i]
		prefix := frame[i-6 : i-2]

		if !acceptablePrefix(prefix) {
			continue
		}
		if rejectValue(value) {
			continue
		}

		raw := int16(binary.BigEndian.Uint16(value))
		v := round2(float64(raw) / 10)
		if v < -40 || v > 50 {
			continue
		}

		return Emission{Name: desc.NormalizedName, Value: v, Unit: desc.Unit}, true
	}

	return Emission{}, false
}

// acceptablePrefix implements the zero-padding shapes the device is known
// to emit ahead of an outdoor-temperature value (spec §4.5): either the
// whole 4-byte prefix is zero, or all but its first byte, or all but its
// last byte, or its two middle bytes.
func acceptablePrefix(p []byte) bool {
	allZero := func(b []byte) bool {
		for _, x := range b {
			if x != 0 {
				return false
			}
		}
		return true
	}

	if allZero(p) {
		return true
	}
	if allZero(p[1:4]) {
		return true
	}
	if allZero(p[0:3]) {
		return true
	}
	if p[1] == 0 && p[2] == 0 {
		return true
	}
	return false
}

// rejectValue filters out candidate value bytes that are themselves
// sentinels or look like another terminator rather than a real reading.
func rejectValue(v []byte) bool {
	switch {
	case v[0] == 0xFF && v[1] == 0xFF:
		return true
	case v[0] == 0xFF && v[1] == 0x02:
		return true
	case v[0] == 0x00 && v[1] == 0x00:
		return true
	case v[0] == 0xFF && v[1] <= 0x01:
		return true
	default:
		return false
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
