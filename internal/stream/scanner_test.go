package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hovalvent/hovalventd/internal/datapoint"
)

func TestScanOutdoorTempFindsReading(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(0, "Aussentemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x32, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1B, 0xFF, 0x02}
	ev, ok := ScanOutdoorTemp(frame, cat)

	require.True(t, ok)
	assert.Equal(t, "aussentemperatur", ev.Name)
	assert.InDelta(t, 2.7, ev.Value, 0.001)
}

func TestScanOutdoorTempNegativeReading(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(0, "Aussentemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x32, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xF5, 0xFF, 0x02}
	ev, ok := ScanOutdoorTemp(frame, cat)

	require.True(t, ok)
	assert.InDelta(t, -1.1, ev.Value, 0.001)
}

func TestScanOutdoorTempNoMatchWithoutCatalogEntry(t *testing.T) {
	cat := buildCatalog(nil)
	frame := []byte{0xFF, 0x01, 0x32, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1B, 0xFF, 0x02}

	_, ok := ScanOutdoorTemp(frame, cat)
	assert.False(t, ok)
}

func TestScanOutdoorTempRejectsSentinelValue(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(0, "Aussentemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x32, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x02}
	_, ok := ScanOutdoorTemp(frame, cat)
	assert.False(t, ok)
}

func TestScanOutdoorTempRejectsOutOfRangeValue(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(0, "Aussentemperatur", datapoint.S16, 1, "°C"),
	})

	// 0x03E8 = 1000 -> 100.0C after /10 scaling, outside [-40, 50].
	frame := []byte{0xFF, 0x01, 0x32, 0x00, 0x00, 0x00, 0x00, 0x03, 0xE8, 0xFF, 0x02}
	_, ok := ScanOutdoorTemp(frame, cat)
	assert.False(t, ok)
}

func TestAcceptablePrefixVariants(t *testing.T) {
	assert.True(t, acceptablePrefix([]byte{0x00, 0x00, 0x00, 0x00}))
	assert.True(t, acceptablePrefix([]byte{0xAB, 0x00, 0x00, 0x00}))
	assert.True(t, acceptablePrefix([]byte{0x00, 0x00, 0x00, 0xAB}))
	assert.True(t, acceptablePrefix([]byte{0xAB, 0x00, 0x00, 0xCD}))
	assert.False(t, acceptablePrefix([]byte{0x00, 0x01, 0x00, 0x00}))
}

func TestRejectValueVariants(t *testing.T) {
	assert.True(t, rejectValue([]byte{0xFF, 0xFF}))
	assert.True(t, rejectValue([]byte{0xFF, 0x02}))
	assert.True(t, rejectValue([]byte{0x00, 0x00}))
	assert.True(t, rejectValue([]byte{0xFF, 0x01}))
	assert.True(t, rejectValue([]byte{0xFF, 0x00}))
	assert.False(t, rejectValue([]byte{0x00, 0x1B}))
}
