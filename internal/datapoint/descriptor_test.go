package datapoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Lüftungsstufe", "lueftungsstufe"},
		{"Raumtemperatur", "raumtemperatur"},
		{"Aussentemperatur", "aussentemperatur"},
		{"Fan (Stage 1)", "fan_stage_1"},
		{"A/B Ratio", "a_b_ratio"},
		{"Größe!", "groesse"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, Normalize(c.in))
		})
	}
}

func TestHasTempRangeGate(t *testing.T) {
	assert.True(t, NewDescriptor(1, "Raumtemperatur", S16, 1, "°C").HasTempRangeGate())
	assert.True(t, NewDescriptor(0, "Aussentemperatur", S16, 1, "°C").HasTempRangeGate())
	assert.False(t, NewDescriptor(2, "Lüftungsstufe", U16, 0, "%").HasTempRangeGate())
}

func TestIsAussen(t *testing.T) {
	assert.True(t, NewDescriptor(0, "Aussentemperatur", S16, 1, "°C").IsAussen())
	assert.False(t, NewDescriptor(2, "Raumtemperatur", S16, 1, "°C").IsAussen())
}
