// Command probectl sends commands to probed responders.
//
// Usage:
//
//	probectl [flags] <command...>
//	probectl [flags] -i
//	probectl discover [flags]
//
// Flags:
//
//	-family string        Sensor family: ph, ec, rtd (default "ph")
//	-connect string       Responder URL (tcp://, ipc:// or inproc://)
//	-find string          Resolve the responder by sensor name over mDNS
//	-timeout duration     Bound each send and receive (default 5s)
//	-i                    Interactive shell with command completion
//	-protocol-log string  Write protocol capture to this file
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//
// Examples:
//
//	# Take a pH reading
//	probectl -family ph -connect tcp://192.168.1.20:5557 read
//
//	# Two-point EC calibration, interactively
//	probectl -family ec -connect ipc:///run/probenet/ec.sock -i
//
//	# List responders on the local network
//	probectl discover
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/probenet/probenet-go/pkg/config"
	"github.com/probenet/probenet-go/pkg/discovery"
	"github.com/probenet/probenet-go/pkg/interaction"
	"github.com/probenet/probenet-go/pkg/log"
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/transport"
)

const usage = `probectl - probenet requester

Usage:
  probectl [flags] <command...>
  probectl [flags] -i
  probectl discover [flags]

Use "probectl -help" for the flag list.
`

// Config holds the command-line flags.
type Config struct {
	Family      string
	Connect     string
	Find        string
	Timeout     time.Duration
	Interactive bool
	ProtocolLog string
	LogLevel    string
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "discover" {
		os.Exit(runDiscover(os.Args[2:], os.Stdout))
	}
	os.Exit(run(os.Args[1:]))
}

// run executes the requester command line and returns the exit code.
func run(args []string) int {
	var cfg Config
	fs := flag.NewFlagSet("probectl", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage+"\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Family, "family", sensor.FamilyPH, "Sensor family: ph, ec, rtd")
	fs.StringVar(&cfg.Connect, "connect", "", "Responder URL (tcp://, ipc:// or inproc://)")
	fs.StringVar(&cfg.Find, "find", "", "Resolve the responder by sensor name over mDNS")
	fs.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "Bound each send and receive")
	fs.BoolVar(&cfg.Interactive, "i", false, "Interactive shell with command completion")
	fs.StringVar(&cfg.ProtocolLog, "protocol-log", "", "Write protocol capture to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	_ = fs.Parse(args)

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Find != "" {
		svc, err := discovery.NewMDNSBrowser(discovery.DefaultBrowserConfig()).Find(ctx, cfg.Find)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg.Connect = svc.URL()
		cfg.Family = svc.Family
		logger.Info("found responder", "sensor", svc.Name, "url", cfg.Connect, "family", cfg.Family)
	}
	if cfg.Connect == "" {
		fmt.Fprintln(os.Stderr, "Error: -connect or -find required")
		fs.Usage()
		return 2
	}
	if !cfg.Interactive && fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: command required (or -i)")
		fs.Usage()
		return 2
	}

	var sinks []log.Logger
	if cfg.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open protocol log: %v\n", err)
			return 1
		}
		defer func() {
			if err := fl.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: protocol log: %v\n", err)
			}
		}()
		sinks = append(sinks, fl)
	}
	if level <= slog.LevelDebug {
		sinks = append(sinks, log.NewSlogAdapter(logger))
	}
	var capture log.Logger
	if len(sinks) > 0 {
		capture = log.NewMultiLogger(sinks...)
	}

	c, err := dial(ctx, cfg, capture, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer c.Close()

	if cfg.Interactive {
		if err := runShell(ctx, c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	return runOnce(ctx, c, strings.Join(fs.Args(), " "), os.Stdout, os.Stderr)
}

// dial connects to the responder and wraps the endpoint in a requester for
// the configured family.
func dial(ctx context.Context, cfg Config, capture log.Logger, logger *slog.Logger) (*client, error) {
	ep, err := transport.Connect(ctx, cfg.Connect, transport.Config{
		Logger:         capture,
		ConnectTimeout: cfg.Timeout,
		ReceiveTimeout: cfg.Timeout,
		SendTimeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	c, err := newClient(cfg.Family, ep, capture, logger)
	if err != nil {
		ep.Close()
		return nil, err
	}
	return c, nil
}

// runOnce sends one command and prints the reply. It returns the process
// exit code.
func runOnce(ctx context.Context, c *client, line string, stdout, stderr io.Writer) int {
	reply, err := c.Call(ctx, line)
	if err != nil {
		fmt.Fprintln(stderr, describe(err))
		return 1
	}
	fmt.Fprintln(stdout, reply)
	return 0
}

// describe renders a call error for the terminal. Failure replies lead
// with their token so scripts can match on it.
func describe(err error) string {
	if kind, ok := interaction.RemoteKind(err); ok {
		return fmt.Sprintf("Failure: %s (%v)", kind, err)
	}
	if errors.Is(err, transport.ErrStale) {
		return fmt.Sprintf("Error: %v (the connection will be reset)", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
