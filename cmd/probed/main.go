// Command probed serves EZO sensors over lockstep request/reply endpoints.
//
// Each configured sensor gets its own bound endpoint and responder. The
// daemon can also advertise tcp:// responders over mDNS, serve Prometheus
// metrics and write a CBOR protocol capture.
//
// Usage:
//
//	probed [flags]
//
// Flags:
//
//	-config string        Configuration file path (.yaml, .yml or .toml)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write protocol capture to this file
//	-metrics-addr string  Serve /metrics on this address
//	-advertise            Advertise tcp:// responders over mDNS
//	-send-timeout string  Bound each reply send (Go duration)
//	-simulate             Drift readings of simulated chips
//
// A single sensor can be configured without a file:
//
//	-name string     Sensor name
//	-family string   Sensor family: ph, ec, rtd
//	-bind string     Endpoint URL (tcp://, ipc:// or inproc://)
//	-bus string      I2C bus name, or "sim" (default "sim")
//	-address uint    7-bit I2C address (default: family default)
//
// Examples:
//
//	# Serve a simulated pH chip
//	probed -name tank-ph -family ph -bind tcp://0.0.0.0:5557
//
//	# Serve everything in a config file with debug logging
//	probed -config /etc/probenet/probed.yaml -log-level debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/probenet/probenet-go/pkg/config"
)

// options holds the command-line flags.
type options struct {
	ConfigFile  string
	LogLevel    string
	ProtocolLog string
	MetricsAddr string
	Advertise   bool
	SendTimeout string
	Simulate    bool

	// Inline sensor.
	Name    string
	Family  string
	Bind    string
	Bus     string
	Address uint
}

var opts options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path (.yaml, .yml or .toml)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.ProtocolLog, "protocol-log", "", "Write protocol capture to this file")
	flag.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve /metrics on this address")
	flag.BoolVar(&opts.Advertise, "advertise", false, "Advertise tcp:// responders over mDNS")
	flag.StringVar(&opts.SendTimeout, "send-timeout", "", "Bound each reply send (Go duration)")
	flag.BoolVar(&opts.Simulate, "simulate", false, "Drift readings of simulated chips")

	flag.StringVar(&opts.Name, "name", "", "Sensor name")
	flag.StringVar(&opts.Family, "family", "", "Sensor family: ph, ec, rtd")
	flag.StringVar(&opts.Bind, "bind", "", "Endpoint URL (tcp://, ipc:// or inproc://)")
	flag.StringVar(&opts.Bus, "bus", config.BusSim, "I2C bus name, or \"sim\"")
	flag.UintVar(&opts.Address, "address", 0, "7-bit I2C address (default: family default)")
}

func main() {
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(opts, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probed: %v\n", err)
		os.Exit(2)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("probed starting", "sensors", len(cfg.Sensors))
	if err := run(ctx, cfg, opts.Simulate, logger); err != nil {
		logger.Error("probed stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("probed stopped")
}

// loadConfig reads the config file, if any, and applies the flags that were
// set on the command line on top of it.
func loadConfig(o options, set map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		loaded, err := config.Load(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if set["log-level"] {
		cfg.LogLevel = o.LogLevel
	}
	if set["protocol-log"] {
		cfg.ProtocolLog = o.ProtocolLog
	}
	if set["metrics-addr"] {
		cfg.MetricsAddr = o.MetricsAddr
	}
	if set["advertise"] {
		cfg.Advertise = o.Advertise
	}
	if set["send-timeout"] {
		cfg.SendTimeout = o.SendTimeout
	}

	if set["name"] || set["family"] || set["bind"] {
		if o.Address > 0x7f {
			return nil, fmt.Errorf("-address: %w 0x%x", config.ErrBadAddress, o.Address)
		}
		cfg.Sensors = append(cfg.Sensors, config.Sensor{
			Name:    o.Name,
			Family:  o.Family,
			Bind:    o.Bind,
			Bus:     o.Bus,
			Address: uint16(o.Address),
		})
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNoSensors) {
			return nil, fmt.Errorf("%w: use -config or -name/-family/-bind", err)
		}
		return nil, err
	}
	return cfg, nil
}
