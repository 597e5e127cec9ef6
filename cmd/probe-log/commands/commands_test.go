package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/probenet/probenet-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

// exchange returns the events a responder logs for one request.
func exchange(ts time.Time, sensor, conn, req, reply, outcome string, took time.Duration) []log.Event {
	return []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: conn,
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			LocalRole:    log.RoleResponder,
			Sensor:       sensor,
			Message:      &log.MessageEvent{Type: log.MessageTypeRequest, Family: "ph", Token: strings.Fields(req)[0], Text: req},
		},
		{
			Timestamp:    ts.Add(took),
			ConnectionID: conn,
			Direction:    log.DirectionOut,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			LocalRole:    log.RoleResponder,
			Sensor:       sensor,
			Message: &log.MessageEvent{
				Type: log.MessageTypeReply, Family: "ph", Token: strings.Fields(reply)[0], Text: reply,
				Outcome: outcome, ProcessingTime: &took,
			},
		},
	}
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	events := []log.Event{{
		Timestamp:    ts.Add(-time.Second),
		ConnectionID: "0b5a2c7e-1111-4222-8333-944455556666",
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		LocalRole:    log.RoleResponder,
		Sensor:       "tank-ph",
		StateChange:  &log.StateChangeEvent{Entity: log.StateEntityEndpoint, NewState: "BOUND"},
	}}
	events = append(events, exchange(ts, "tank-ph", "0b5a2c7e-1111-4222-8333-944455556666", "read", "7.020", "ok", 900*time.Millisecond)...)
	events = append(events, exchange(ts.Add(2*time.Second), "tank-ph", "0b5a2c7e-1111-4222-8333-944455556666", "read", "error sensor_trouble no ack", "sensor_trouble", 300*time.Millisecond)...)
	events = append(events, exchange(ts.Add(3*time.Second), "tank-ec", "9f00aa11-2222-4333-8444-955566667777", "sleep", "sleeping", "ok", 10*time.Millisecond)...)
	events = append(events, log.Event{
		Timestamp:    ts.Add(4 * time.Second),
		ConnectionID: "9f00aa11-2222-4333-8444-955566667777",
		Layer:        log.LayerDevice,
		Category:     log.CategoryError,
		LocalRole:    log.RoleResponder,
		Sensor:       "tank-ec",
		Error:        &log.ErrorEventData{Layer: log.LayerDevice, Kind: "sensor_trouble", Message: "write 0x64: bus error", Context: "execute"},
	})
	return events
}

func TestViewFormatsEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[conn:0b5a2c7e] tank-ph",
		"-> BOUND",
		`Text: "read"`,
		"Outcome: sensor_trouble",
		"Duration: 900.000ms",
		"Kind: sensor_trouble",
		"Context: execute",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestViewAppliesFilter(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	filter, err := FilterOptions{Sensor: "tank-ec", Category: "message"}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "tank-ph") {
		t.Error("filtered output contains tank-ph events")
	}
	if got := strings.Count(out, "tank-ec"); got != 2 {
		t.Errorf("expected 2 tank-ec events, got %d", got)
	}
}

func TestFilterOptionsErrors(t *testing.T) {
	bad := []FilterOptions{
		{Layer: "service"},
		{Direction: "sideways"},
		{Category: "control"},
		{Role: "observer"},
		{TimeStart: "yesterday"},
		{TimeEnd: "2026-13-01"},
	}
	for _, o := range bad {
		if _, err := o.Build(); err == nil {
			t.Errorf("expected error for %+v", o)
		}
	}
}

func TestRunFilterWritesMatchingEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	output := filepath.Join(t.TempDir(), "out.cbor")

	// Replies carry their own leading token.
	var report bytes.Buffer
	if err := RunFilter(path, output, FilterOptions{Token: "read", Direction: "out"}, &report); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if !strings.Contains(report.String(), "Filtered 0 events") {
		t.Errorf("unexpected report %q", report.String())
	}

	output2 := filepath.Join(t.TempDir(), "requests.cbor")
	report.Reset()
	if err := RunFilter(path, output2, FilterOptions{Token: "read", Role: "responder"}, &report); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if !strings.Contains(report.String(), "Filtered 2 events") {
		t.Errorf("unexpected report %q", report.String())
	}

	stats, err := Collect(output2)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if stats.TotalEvents != 2 {
		t.Errorf("expected 2 events in filtered file, got %d", stats.TotalEvents)
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := Export(path, "jsonl", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sampleEvents()) {
		t.Fatalf("expected %d lines, got %d", len(sampleEvents()), len(lines))
	}

	var first log.Event
	if err := json.Unmarshal([]byte(lines[1]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first.Sensor != "tank-ph" || first.Message == nil || first.Message.Text != "read" {
		t.Errorf("unexpected event %+v", first)
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := Export(path, "csv", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != len(sampleEvents())+1 {
		t.Fatalf("expected %d rows, got %d", len(sampleEvents())+1, len(rows))
	}
	// Second exchange reply: outcome and duration columns.
	reply := rows[5]
	if reply[3] != "tank-ph" || reply[7] != "REPLY" || reply[9] != "sensor_trouble" || reply[10] != "300000000" {
		t.Errorf("unexpected row %v", reply)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if err := Export("unused.cbor", "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if stats.TotalEvents != 8 {
		t.Errorf("expected 8 events, got %d", stats.TotalEvents)
	}
	if len(stats.Connections) != 2 {
		t.Errorf("expected 2 connections, got %d", len(stats.Connections))
	}
	if stats.Errors != 1 {
		t.Errorf("expected 1 error, got %d", stats.Errors)
	}

	ph := stats.Sensors["tank-ph"]
	if ph == nil {
		t.Fatal("missing tank-ph stats")
	}
	if ph.Replies != 2 || ph.Outcomes["ok"] != 1 || ph.Outcomes["sensor_trouble"] != 1 {
		t.Errorf("unexpected tank-ph stats %+v", ph)
	}
	if ph.MeanTime() != 600*time.Millisecond || ph.MaxTime != 900*time.Millisecond {
		t.Errorf("unexpected timing mean=%s max=%s", ph.MeanTime(), ph.MaxTime)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	out := buf.String()
	for _, want := range []string{"Total Events: 8", "Replies by Sensor:", "tank-ec: 1 replies", "sensor_trouble:", "Connections: 2", "Errors: 1", "DEVICE:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q", want)
		}
	}
}
