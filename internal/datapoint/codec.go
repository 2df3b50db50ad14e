package datapoint

import (
	"encoding/binary"
	"math"
)

// Decode reads the raw bytes for desc's type starting at offset in data and
// returns the scaled engineering value (spec §4.3). ok is false when the
// slice is too short for the declared type, or when the raw encoding is the
// type's sentinel — in both cases the caller must not emit anything.
func Decode(data []byte, offset int, desc Descriptor) (value float64, ok bool) {
	size := desc.Type.Size()
	if offset < 0 || offset+size > len(data) {
		return 0, false
	}
	raw := data[offset : offset+size]

	var scaled float64
	switch desc.Type {
	case U8:
		b := raw[0]
		if b == 0xFF {
			return 0, false
		}
		scaled = float64(b)
	case U16:
		v := binary.BigEndian.Uint16(raw)
		if v == 0xFFFF {
			return 0, false
		}
		scaled = float64(v)
	case S16:
		if isS16Sentinel(raw) {
			return 0, false
		}
		v := int16(binary.BigEndian.Uint16(raw))
		scaled = float64(v)
	case U32:
		v := binary.BigEndian.Uint32(raw)
		if v == 0xFFFFFFFF {
			return 0, false
		}
		scaled = float64(v)
	case S32:
		v := int32(binary.BigEndian.Uint32(raw))
		if v == -2147483648 {
			return 0, false
		}
		scaled = float64(v)
	default:
		return 0, false
	}

	return scale(scaled, desc.Decimal), true
}

// isS16Sentinel implements the S16 sentinel rules from spec §4.3: the raw
// 0xFFFF encoding, either signed extreme, and the observed error-code band
// 0xFF00..0xFF05. Genuine small negatives such as 0xFFF5 (-1.1) fall outside
// that band and must decode normally.
func isS16Sentinel(raw []byte) bool {
	if raw[0] == 0xFF && raw[1] == 0xFF {
		return true
	}
	v := int16(binary.BigEndian.Uint16(raw))
	if v == -32768 || v == 32767 {
		return true
	}
	if raw[0] == 0xFF && raw[1] <= 0x05 {
		return true
	}
	return false
}

// scale applies decimal's 10^decimal division and rounds to 2 decimals.
func scale(v float64, decimal int) float64 {
	if decimal <= 0 {
		return round2(v)
	}
	divisor := math.Pow(10, float64(decimal))
	return round2(v / divisor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
