// Package discovery builds Home Assistant MQTT discovery payloads for
// decoded datapoints, supplementing the core decoder so a discovered
// datapoint can show up as a proper sensor entity instead of a bare topic.
package discovery

import "strings"

// Device describes the single physical controller every datapoint entity
// belongs to.
type Device struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
}

// Payload is a Home Assistant MQTT discovery message for one sensor
// entity. See https://www.home-assistant.io/integrations/sensor.mqtt/.
type Payload struct {
	Name              string `json:"name"`
	UniqueID          string `json:"unique_id"`
	StateTopic        string `json:"state_topic"`
	UnitOfMeasurement string `json:"unit_of_measurement,omitempty"`
	DeviceClass       string `json:"device_class,omitempty"`
	StateClass        string `json:"state_class,omitempty"`
	Device            Device `json:"device"`
}

var defaultDevice = Device{
	Identifiers:  []string{"hovalventd"},
	Name:         "Hoval HomeVent",
	Manufacturer: "Hoval",
	Model:        "HomeVent",
}

// Build constructs the discovery payload for a datapoint, guessing a
// device class from its unit.
func Build(normalizedName, unit, stateTopic string) Payload {
	return Payload{
		Name:              normalizedName,
		UniqueID:          "hovalventd_" + normalizedName,
		StateTopic:        stateTopic,
		UnitOfMeasurement: unit,
		DeviceClass:       deviceClassFor(unit),
		StateClass:        "measurement",
		Device:            defaultDevice,
	}
}

func deviceClassFor(unit string) string {
	switch {
	case strings.Contains(unit, "°C"), strings.Contains(unit, "°F"):
		return "temperature"
	case unit == "%":
		return "humidity"
	case strings.Contains(unit, "Pa"):
		return "pressure"
	case strings.Contains(unit, "h") && strings.Contains(unit, "m3"):
		return "volume_flow_rate"
	default:
		return ""
	}
}

// DiscoveryTopic returns the retained topic Home Assistant listens on for
// a sensor's discovery payload, under prefix "homeassistant".
func DiscoveryTopic(normalizedName string) string {
	return "homeassistant/sensor/hovalventd/" + normalizedName + "/config"
}
