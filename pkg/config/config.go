// Package config loads the responder daemon configuration from YAML or
// TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/transport"
)

// BusSim selects the simulated I2C bus.
const BusSim = "sim"

// Config is the daemon configuration.
type Config struct {
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// ProtocolLog is the path of the CBOR capture file. Empty disables it.
	ProtocolLog string `yaml:"protocol_log" toml:"protocol_log"`

	// MetricsAddr is the host:port serving /metrics. Empty disables it.
	MetricsAddr string `yaml:"metrics_addr" toml:"metrics_addr"`

	// Advertise enables mDNS announcements of tcp:// responders.
	Advertise bool `yaml:"advertise" toml:"advertise"`

	// SendTimeout bounds each reply send, as a Go duration ("" = none).
	SendTimeout string `yaml:"send_timeout" toml:"send_timeout"`

	Sensors []Sensor `yaml:"sensors" toml:"sensors"`
}

// Sensor is one responder.
type Sensor struct {
	Name   string `yaml:"name" toml:"name"`
	Family string `yaml:"family" toml:"family"`
	Bind   string `yaml:"bind" toml:"bind"`

	// Bus is a periph I2C bus name such as "/dev/i2c-1" or "1", or "sim".
	Bus string `yaml:"bus" toml:"bus"`

	// Address is the 7-bit chip address. Zero selects the family default.
	Address uint16 `yaml:"address" toml:"address"`
}

// Default returns a configuration with defaults and no sensors.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Load reads path. The format follows the extension: .yaml/.yml or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.File = path
			return nil, ce
		}
		return nil, newError(path, err)
	}
	return cfg, nil
}

// Parse decodes and validates data in the given format (".yaml", ".yml",
// ".toml", or the same without the dot).
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()

	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, newError("", err)
		}
	case "toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, newError("", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, newError("", fmt.Errorf("%w: %s", ErrUnknownKey, undecoded[0]))
		}
	default:
		return nil, newError("", fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}

	if err := cfg.Validate(); err != nil {
		return nil, newError("", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.SendTimeoutDuration(); err != nil {
		return err
	}
	if len(c.Sensors) == 0 {
		return ErrNoSensors
	}

	names := make(map[string]bool, len(c.Sensors))
	binds := make(map[string]bool, len(c.Sensors))
	for i, s := range c.Sensors {
		if s.Name == "" {
			return fmt.Errorf("sensors[%d]: %w: name", i, ErrMissingField)
		}
		if names[s.Name] {
			return fmt.Errorf("sensor %s: %w", s.Name, ErrDuplicateName)
		}
		names[s.Name] = true

		if !slices.Contains(sensor.Families(), s.Family) {
			return fmt.Errorf("sensor %s: %w %q", s.Name, ErrUnknownFamily, s.Family)
		}
		if s.Bus == "" {
			return fmt.Errorf("sensor %s: %w: bus", s.Name, ErrMissingField)
		}
		if s.Address > 0x7f {
			return fmt.Errorf("sensor %s: %w 0x%x", s.Name, ErrBadAddress, s.Address)
		}

		u, err := transport.ParseURL(s.Bind)
		if err != nil {
			return fmt.Errorf("sensor %s: %w", s.Name, err)
		}
		if binds[u.String()] {
			return fmt.Errorf("sensor %s: %w %s", s.Name, ErrDuplicateBind, u)
		}
		binds[u.String()] = true
	}
	return nil
}

// SendTimeoutDuration parses SendTimeout.
func (c *Config) SendTimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.SendTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.SendTimeout))
	if err != nil {
		return 0, fmt.Errorf("parse send_timeout: %w", err)
	}
	return d, nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownLevel, s)
}
