package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPending, KindOf(Fault(KindPending, "read", ErrPending)))
	assert.Equal(t, KindDeviceError, KindOf(fmt.Errorf("wrapped: %w", Fault(KindDeviceError, "cal", ErrSyntax))))
	assert.Equal(t, KindSensorTrouble, KindOf(errors.New("i2c: nack")))
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("bus timeout")
	err := Trouble("read", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "sensor_trouble", err.Token())
	assert.Equal(t, "sensor_trouble (read): bus timeout", err.Error())
}

func TestFunc(t *testing.T) {
	dev := Func[string, int](func(_ context.Context, cmd string) (int, error) {
		return len(cmd), nil
	})
	n, err := dev.Execute(context.Background(), "read")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestExclusiveSerializes(t *testing.T) {
	var inside, overlaps atomic.Int32
	dev := NewExclusive[int, int](Func[int, int](func(_ context.Context, cmd int) (int, error) {
		if inside.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		inside.Add(-1)
		return cmd, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = dev.Execute(context.Background(), i)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, overlaps.Load())
}
