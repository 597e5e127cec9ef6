package log

import "time"

// Filter selects capture events. Zero fields match everything; set fields
// must all match.
type Filter struct {
	ConnectionID string
	Direction    *Direction
	Layer        *Layer
	Category     *Category
	Role         *Role

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time

	// Sensor matches the responder's configured sensor name.
	Sensor string

	// Token matches the leading token of a request or reply; events that
	// carry no message never match it.
	Token string
}

// Match reports whether event passes the filter.
func (f Filter) Match(event Event) bool {
	return f.matchesOrigin(event) && f.matchesKind(event) && f.matchesTime(event.Timestamp)
}

func (f Filter) matchesOrigin(e Event) bool {
	switch {
	case f.ConnectionID != "" && e.ConnectionID != f.ConnectionID:
	case f.Sensor != "" && e.Sensor != f.Sensor:
	case f.Role != nil && e.LocalRole != *f.Role:
	default:
		return true
	}
	return false
}

func (f Filter) matchesKind(e Event) bool {
	switch {
	case f.Direction != nil && e.Direction != *f.Direction:
	case f.Layer != nil && e.Layer != *f.Layer:
	case f.Category != nil && e.Category != *f.Category:
	case f.Token != "" && (e.Message == nil || e.Message.Token != f.Token):
	default:
		return true
	}
	return false
}

func (f Filter) matchesTime(t time.Time) bool {
	if f.TimeStart != nil && t.Before(*f.TimeStart) {
		return false
	}
	return f.TimeEnd == nil || t.Before(*f.TimeEnd)
}
