// Package config loads the daemon's configuration surface (spec §6):
// controller host/port, unit id, ignore keywords and scan interval, plus
// the ambient settings the daemon needs around the core decoder.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

// Config is the resolved set of daemon settings.
type Config struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	UnitID         int           `koanf:"unit_id"`
	IgnoreKeywords []string      `koanf:"ignore_keywords"`
	ScanInterval   time.Duration `koanf:"scan_interval"`

	CSVPath         string `koanf:"csv_path"`
	PersistPath     string `koanf:"persist_path"`
	MQTTBroker      string `koanf:"mqtt_broker"`
	MQTTTopicPrefix string `koanf:"mqtt_topic_prefix"`
}

func defaults() Config {
	return Config{
		Port:            3113,
		UnitID:          513,
		ScanInterval:    5 * time.Second,
		CSVPath:         "datapoints.csv",
		PersistPath:     "hovalventd.db",
		MQTTTopicPrefix: "hovalvent",
	}
}

// Load resolves configuration from built-in defaults overlaid by an
// optional YAML file at path. A missing file is not an error — defaults
// and whatever the file did provide are used as-is — but a missing Host
// after loading is fatal, per spec §7 ("Config missing/invalid -> fatal
// at startup").
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such file") {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Host == "" {
		return Config{}, fmt.Errorf("config: host is required")
	}

	return cfg, nil
}
