// Command probe-log views and analyzes probenet protocol capture files.
//
// Capture files are written by probed and probectl with the -protocol-log
// flag (or protocol_log in the probed config file).
//
// Usage:
//
//	probe-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSONL or CSV
//	filter   Filter capture file and write to new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View one sensor's exchanges
//	probe-log view -sensor tank-ph -layer wire probed.cbor
//
//	# Failure replies only
//	probe-log view -token error -direction out probed.cbor
//
//	# Export to CSV
//	probe-log export -format csv -o probed.csv probed.cbor
//
//	# Reply outcomes and timing per sensor
//	probe-log stats probed.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/probenet/probenet-go/cmd/probe-log/commands"
)

const usage = `probe-log - probenet capture analyzer

Usage:
  probe-log <command> [flags] <file.cbor>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL or CSV
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "probe-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the flags shared by view and filter.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	o := &commands.FilterOptions{}
	fs.StringVar(&o.ConnID, "conn-id", "", "Filter by connection ID")
	fs.StringVar(&o.Sensor, "sensor", "", "Filter by sensor name")
	fs.StringVar(&o.Token, "token", "", "Filter messages by leading token")
	fs.StringVar(&o.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&o.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&o.Layer, "layer", "", "Filter by layer (transport, wire, device)")
	fs.StringVar(&o.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&o.Category, "category", "", "Filter by category (message, state, error)")
	fs.StringVar(&o.Role, "role", "", "Filter by local role (requester, responder)")
	return o
}

// fileArg returns the capture path or exits with the command's usage.
func fileArg(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log view - View capture file in human-readable format

Usage:
  probe-log view [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := fileArg(fs)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log export - Export capture file to JSONL or CSV

Usage:
  probe-log export [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := fileArg(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log filter - Filter capture file and write to new file

Usage:
  probe-log filter [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}
	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := fileArg(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}
	if err := commands.RunFilter(path, *output, *opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log stats - Show statistics about the capture file

Usage:
  probe-log stats <file.cbor>

`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := fileArg(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
