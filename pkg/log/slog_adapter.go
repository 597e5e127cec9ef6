package log

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors capture events into an operational slog logger at
// debug level. The daemons attach it only when debug logging is on.
type SlogAdapter struct {
	logger *slog.Logger
}

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Log(event Event) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := originAttrs(event)
	msg := "capture"
	switch {
	case event.Message != nil:
		msg = "capture message"
		attrs = append(attrs, messageAttrs(event.Message)...)
	case event.Frame != nil:
		msg = "capture frame"
		attrs = append(attrs, slog.Int("frame_size", event.Frame.Size), slog.Bool("truncated", event.Frame.Truncated))
	case event.StateChange != nil:
		msg = "capture state"
		sc := event.StateChange
		attrs = append(attrs,
			slog.String("entity", sc.Entity.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState),
		)
		if sc.Reason != "" {
			attrs = append(attrs, slog.String("reason", sc.Reason))
		}
	case event.Error != nil:
		msg = "capture error"
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_kind", event.Error.Kind),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func originAttrs(e Event) []slog.Attr {
	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("role", e.LocalRole.String()),
		slog.String("conn_id", e.ConnectionID),
		slog.String("direction", e.Direction.String()),
		slog.String("layer", e.Layer.String()),
	)
	if e.Sensor != "" {
		attrs = append(attrs, slog.String("sensor", e.Sensor))
	}
	if e.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", e.Endpoint))
	}
	return attrs
}

func messageAttrs(m *MessageEvent) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("msg_type", m.Type.String()),
		slog.String("text", m.Text),
	}
	if m.Family != "" {
		attrs = append(attrs, slog.String("family", m.Family))
	}
	if m.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", m.Outcome))
	}
	if m.ProcessingTime != nil {
		attrs = append(attrs, slog.Duration("processing_time", *m.ProcessingTime))
	}
	return attrs
}

var _ Logger = (*SlogAdapter)(nil)
