package commands

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/probenet/probenet-go/pkg/log"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Connections       map[string]*ConnectionStats
	Sensors           map[string]*SensorStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Role      log.Role
	Sensor    string
}

// SensorStats counts the replies a responder sent.
type SensorStats struct {
	Replies   int
	Outcomes  map[string]int
	TotalTime time.Duration
	MaxTime   time.Duration
}

// MeanTime returns the mean processing time of timed replies.
func (s *SensorStats) MeanTime() time.Duration {
	if s.Replies == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.Replies)
}

// Collect reads every event of path.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Connections:       make(map[string]*ConnectionStats),
		Sensors:           make(map[string]*SensorStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Role:      event.LocalRole,
		}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.Sensor != "" && conn.Sensor == "" {
		conn.Sensor = event.Sensor
	}

	// Replies are counted once, on the responder side.
	if m := event.Message; m != nil && m.Type == log.MessageTypeReply && event.LocalRole == log.RoleResponder {
		name := event.Sensor
		if name == "" {
			name = "(unnamed)"
		}
		ss, ok := s.Sensors[name]
		if !ok {
			ss = &SensorStats{Outcomes: make(map[string]int)}
			s.Sensors[name] = ss
		}
		ss.Replies++
		ss.Outcomes[m.Outcome]++
		if m.ProcessingTime != nil {
			ss.TotalTime += *m.ProcessingTime
			ss.MaxTime = max(ss.MaxTime, *m.ProcessingTime)
		}
	}

	if event.Error != nil {
		s.Errors++
	}
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== probenet Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerDevice} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Sensors) > 0 {
		fmt.Fprintln(w, "Replies by Sensor:")
		names := make([]string, 0, len(stats.Sensors))
		for name := range stats.Sensors {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			ss := stats.Sensors[name]
			fmt.Fprintf(w, "  %s: %d replies, mean %s, max %s\n",
				name, ss.Replies, formatDuration(ss.MeanTime()), formatDuration(ss.MaxTime))
			outcomes := make([]string, 0, len(ss.Outcomes))
			for o := range ss.Outcomes {
				outcomes = append(outcomes, o)
			}
			slices.Sort(outcomes)
			for _, o := range outcomes {
				fmt.Fprintf(w, "    %-16s %d\n", o+":", ss.Outcomes[o])
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	if len(stats.Connections) > 0 {
		type connInfo struct {
			id    string
			stats *ConnectionStats
		}
		conns := make([]connInfo, 0, len(stats.Connections))
		for id, cs := range stats.Connections {
			conns = append(conns, connInfo{id, cs})
		}
		sort.Slice(conns, func(i, j int) bool {
			return conns[i].stats.FirstSeen.Before(conns[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range conns {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %s %d events, duration %s\n", shortenConnID(c.id), c.stats.Role, c.stats.Events, duration)
			if c.stats.Sensor != "" {
				fmt.Fprintf(w, "           Sensor: %s\n", c.stats.Sensor)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
