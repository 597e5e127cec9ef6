package log

// Logger receives capture events from endpoints, requesters and responders.
//
// Log is called on the goroutine that moves the frame, so a slow Logger
// delays the reply. Implementations must be safe for concurrent use: one
// Logger is usually shared by every sensor of a daemon.
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event. Its zero value is ready to use.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
