package datapoint

import "strings"

// Descriptor is the immutable catalog entry for one datapoint id (spec §3).
type Descriptor struct {
	ID      uint16
	Name    string
	Type    Type
	Decimal int
	Unit    string

	// NormalizedName is the ASCII snake-case key derived from Name (spec §6).
	NormalizedName string
}

// HasTempRangeGate reports whether the parser-level [-40, 70] range gate
// (spec §4.4) applies to this datapoint, based on its raw display name.
// The match is case-insensitive: catalog names are German compound nouns
// ("Raumtemperatur", "Aussentemperatur") where "temp"/"aussen" never
// start a capitalized word of their own.
func (d Descriptor) HasTempRangeGate() bool {
	lower := strings.ToLower(d.Name)
	return strings.Contains(lower, "temp") || strings.Contains(lower, "aussen")
}

// IsAussen reports whether the datapoint's raw name contains "Aussen" in
// any letter case, which triggers the additional literal-0.0 suppression in §4.4.
func (d Descriptor) IsAussen() bool {
	return strings.Contains(strings.ToLower(d.Name), "aussen")
}

// NewDescriptor builds a Descriptor, computing NormalizedName from name.
func NewDescriptor(id uint16, name string, typ Type, decimal int, unit string) Descriptor {
	return Descriptor{
		ID:             id,
		Name:           name,
		Type:           typ,
		Decimal:        decimal,
		Unit:           unit,
		NormalizedName: Normalize(name),
	}
}

var umlautReplacer = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

var stripChars = ".()[]{}'\"!?#+"

// Normalize derives a stable, ASCII, underscore-delimited key from a raw
// datapoint display name, per spec §6:
//
//  1. replace spaces with '_'
//  2. replace ä/ö/ü/ß with their ASCII digraphs
//  3. delete punctuation in stripChars
//  4. replace '/' with '_'
//  5. lowercase
func Normalize(name string) string {
	s := strings.ReplaceAll(name, " ", "_")
	s = umlautReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(stripChars, r) {
			continue
		}
		if r == '/' {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
