package stream

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hovalvent/hovalventd/internal/catalog"
	"github.com/hovalvent/hovalventd/internal/datapoint"
)

func TestParseFrameSimpleU16(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(1024, "Lüftungsstufe", datapoint.U16, 0, "%"),
	})

	frame := []byte{0xFF, 0x01, 0x00, 0x04, 0x00, 0x00, 0x2A}
	emissions := ParseFrame(frame, cat)

	require.Len(t, emissions, 1)
	assert.Equal(t, "lueftungsstufe", emissions[0].Name)
	assert.Equal(t, 42.0, emissions[0].Value)
	assert.Equal(t, "%", emissions[0].Unit)
}

func TestParseFrameS16NegativeRoomTemp(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(2, "Raumtemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x00, 0x00, 0x02, 0xFF, 0xF5}
	emissions := ParseFrame(frame, cat)

	require.Len(t, emissions, 1)
	assert.Equal(t, "raumtemperatur", emissions[0].Name)
	assert.InDelta(t, -1.1, emissions[0].Value, 0.001)
}

func TestParseFrameSentinelSuppressed(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(2, "Raumtemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x00, 0x00, 0x02, 0xFF, 0x00}
	assert.Empty(t, ParseFrame(frame, cat))
}

func TestParseFrameIgnoresDatapointZero(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(0, "Aussentemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x32, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1B, 0xFF, 0x02}
	assert.Empty(t, ParseFrame(frame, cat), "primary parser must never emit id 0, only the scanner does")
}

func TestParseFrameResyncsAroundUnknownID(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(1024, "Lüftungsstufe", datapoint.U16, 0, "%"),
	})

	frame := []byte{0xFF, 0x01, 0x00, 0x99, 0x99, 0x00, 0x04, 0x00, 0x00, 0x2A}
	emissions := ParseFrame(frame, cat)

	require.Len(t, emissions, 1)
	assert.Equal(t, "lueftungsstufe", emissions[0].Name)
	assert.Equal(t, 42.0, emissions[0].Value)
}

func TestParseFrameTempRangeGateDiscardsOutOfRange(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(2, "Raumtemperatur", datapoint.S16, 0, "°C"),
	})

	// 0x03E8 = 1000, far outside [-40, 70].
	frame := []byte{0xFF, 0x01, 0x00, 0x00, 0x02, 0x03, 0xE8}
	assert.Empty(t, ParseFrame(frame, cat))
}

func TestParseFrameAussenZeroDiscarded(t *testing.T) {
	cat := buildCatalog([]datapoint.Descriptor{
		datapoint.NewDescriptor(2, "Aussentemperatur", datapoint.S16, 1, "°C"),
	})

	frame := []byte{0xFF, 0x01, 0x00, 0x00, 0x02, 0x00, 0x00}
	assert.Empty(t, ParseFrame(frame, cat))
}

// buildCatalog is a test-only helper that round-trips descriptors through
// the CSV loader so tests exercise the same construction path production
// code uses.
func buildCatalog(descs []datapoint.Descriptor) *catalog.Catalog {
	csvData := "UnitName,UnitId,DatapointId,DatapointName,TypeName,Decimal,unit\n"
	for _, d := range descs {
		csvData += "HV,513," +
			strconv.Itoa(int(d.ID)) + "," +
			d.Name + "," +
			typeName(d.Type) + "," +
			strconv.Itoa(d.Decimal) + "," +
			d.Unit + "\n"
	}

	cat, err := catalog.Parse(strings.NewReader(csvData), 513, nil)
	if err != nil {
		panic(err)
	}
	return cat
}

func typeName(t datapoint.Type) string {
	switch t {
	case datapoint.U8:
		return "U8"
	case datapoint.U16:
		return "U16"
	case datapoint.S16:
		return "S16"
	case datapoint.U32:
		return "U32"
	case datapoint.S32:
		return "S32"
	default:
		return ""
	}
}
