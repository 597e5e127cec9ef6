package device

import (
	"context"
	"sync"
)

// Device executes commands against one physical probe.
//
// Implementations should not block indefinitely in normal operation and
// should honor ctx cancellation while waiting on the chip.
type Device[C, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

// Func adapts a function to the Device interface.
type Func[C, R any] func(ctx context.Context, cmd C) (R, error)

// Execute calls f.
func (f Func[C, R]) Execute(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Exclusive serializes access to a device shared between several owners.
// A single responder never needs it; the lockstep transport already
// serializes its requests.
type Exclusive[C, R any] struct {
	mu  sync.Mutex
	dev Device[C, R]
}

// NewExclusive wraps dev.
func NewExclusive[C, R any](dev Device[C, R]) *Exclusive[C, R] {
	return &Exclusive[C, R]{dev: dev}
}

// Execute runs cmd while holding the device lock.
func (e *Exclusive[C, R]) Execute(ctx context.Context, cmd C) (R, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.Execute(ctx, cmd)
}

// Compile-time interface satisfaction checks.
var (
	_ Device[int, int] = Func[int, int](nil)
	_ Device[int, int] = (*Exclusive[int, int])(nil)
)
