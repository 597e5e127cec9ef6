package log

// TaggedLogger stamps a sensor name onto events that carry none.
// Transports don't know which sensor they serve; the daemon wraps the
// capture logger once per sensor.
type TaggedLogger struct {
	next   Logger
	sensor string
}

// WithSensor returns a logger that tags events with sensor.
// A nil next logger yields a NoopLogger.
func WithSensor(next Logger, sensor string) Logger {
	if next == nil {
		return NoopLogger{}
	}
	return &TaggedLogger{next: next, sensor: sensor}
}

// Log forwards the event.
func (l *TaggedLogger) Log(event Event) {
	if event.Sensor == "" {
		event.Sensor = l.sensor
	}
	l.next.Log(event)
}

var _ Logger = (*TaggedLogger)(nil)
