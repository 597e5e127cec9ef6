package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/probenet/probenet-go/pkg/discovery"
)

// runDiscover lists responders found over mDNS within the timeout.
func runDiscover(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probectl discover - List responders on the local network

Usage:
  probectl discover [flags]

Flags:
`)
		fs.PrintDefaults()
	}
	timeout := fs.Duration("timeout", discovery.BrowseTimeout, "How long to browse")
	iface := fs.String("interface", "", "Network interface (default: all)")
	_ = fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := discovery.DefaultBrowserConfig()
	cfg.Interface = *iface
	services, err := discovery.NewMDNSBrowser(cfg).Browse(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if n := printServices(services, out); n == 0 {
		fmt.Fprintf(os.Stderr, "No responders found within %s\n", timeout.Round(time.Millisecond))
		return 1
	}
	return 0
}

// printServices writes one row per service until the channel closes and
// returns the number of rows.
func printServices(services <-chan *discovery.Service, out io.Writer) int {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tURL\tHOST")
	n := 0
	for svc := range services {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", svc.Name, svc.Family, svc.URL(), svc.Host)
		n++
	}
	w.Flush()
	return n
}
