package ph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/ezo"
	"github.com/probenet/probenet-go/pkg/ezo/sim"
	"github.com/probenet/probenet-go/pkg/sensor"
)

func newDevice(t *testing.T) (*Device, *sim.Bus) {
	t.Helper()
	bus := sim.NewBus()
	bus.Add(DefaultAddress, sim.KindPH)
	chip := ezo.NewChip(bus, DefaultAddress)
	chip.Settle = ezo.NoDelay
	return NewDevice(chip), bus
}

func TestDeviceExecute(t *testing.T) {
	dev, bus := newDevice(t)
	bus.SetValue(DefaultAddress, 6.982)
	ctx := context.Background()

	tests := []struct {
		cmd  Command
		want sensor.Response
	}{
		{Read(), sensor.Reading{Value: 6.982}},
		{DeviceInfo(), sensor.DeviceInfo{Type: "pH", Firmware: "2.16"}},
		{Status(), sensor.DeviceStatus{Restart: sensor.RestartPoweredOff, Vcc: 5.038}},
		{LedOff(), sensor.Ok{}},
		{LedStatus(), sensor.LedStatus{On: false}},
		{Find(), sensor.Ok{}},
		{Calibrate(7), sensor.Ok{}},
		{CalibrateLow(4), sensor.Ok{}},
		{CalibrationStatus(), sensor.CalibrationStatus{Points: sensor.CalibrationTwo}},
		{CompensationSet(19.5), sensor.Ok{}},
		{CompensationGet(), sensor.Compensation{Value: 19.5}},
		{Slope(), SlopeInfo{Acid: 100, Base: 100}},
		{GetParams(), Params{Calibration: sensor.CalibrationTwo, Compensation: 19.5}},
		{CalibrationClear(), sensor.Ok{}},
		{CalibrationStatus(), sensor.CalibrationStatus{Points: sensor.CalibrationNone}},
		{Sleep(), sensor.Sleeping{}},
	}

	for _, tt := range tests {
		got, err := dev.Execute(ctx, tt.cmd)
		require.NoError(t, err, tt.cmd.String())
		assert.Equal(t, tt.want, got, tt.cmd.String())
		assert.True(t, Expects(tt.cmd, got), tt.cmd.String())
	}
}

func TestDeviceFaults(t *testing.T) {
	dev, bus := newDevice(t)
	ctx := context.Background()

	bus.FailNext(DefaultAddress, errors.New("nack"))
	_, err := dev.Execute(ctx, Read())
	assert.Equal(t, device.KindSensorTrouble, device.KindOf(err))

	bus.PendingNext(DefaultAddress, 1)
	_, err = dev.Execute(ctx, Read())
	assert.Equal(t, device.KindPending, device.KindOf(err))

	_, err = dev.Execute(ctx, Command{Verb: Verb(200)})
	assert.Equal(t, device.KindUnsupported, device.KindOf(err))
}
