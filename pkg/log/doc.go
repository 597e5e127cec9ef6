// Package log provides protocol capture for probenet endpoints.
//
// This package defines the Logger interface and Event types for capturing
// protocol events at the transport, wire and device layers. It is separate
// from operational logging (slog): protocol capture is a complete
// machine-readable trace of every frame, decoded message and state change.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to a capture file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/probenet/probed.plog")
//
//	// Both
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events. The probe-log tool
// views, filters and summarises them.
package log
