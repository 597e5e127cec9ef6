package ec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/ezo"
	"github.com/probenet/probenet-go/pkg/ezo/sim"
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/wire"
)

func TestCommandRoundTrip(t *testing.T) {
	cmds := []Command{
		Read(), Sleep(), Find(), DeviceInfo(), Status(),
		LedOn(), LedOff(), LedStatus(),
		Calibrate(1413), CalibrateDry(), CalibrateLow(84), CalibrateHigh(12880),
		CalibrationClear(), CalibrationStatus(),
		CompensationSet(21.25), CompensationGet(),
		ProbeTypeSet(0.1), ProbeTypeGet(), GetParams(),
	}
	require.Len(t, Tokens(), len(cmds))

	for _, c := range cmds {
		got, err := ParseCommand(c.String())
		require.NoError(t, err, c.String())
		assert.Equal(t, c, got)
	}
}

// The sleep request is its own token, never a replayed read.
func TestSleepEncoding(t *testing.T) {
	assert.Equal(t, "sleep", Sleep().String())

	got, err := ParseCommand("sleep")
	require.NoError(t, err)
	assert.Equal(t, VerbSleep, got.Verb)
}

func TestParseCommandErrors(t *testing.T) {
	_, err := ParseCommand("slope")
	kind, _ := wire.KindOf(err)
	assert.Equal(t, wire.KindCommandParse, kind)

	_, err = ParseCommand("probe_type_set k")
	kind, _ = wire.KindOf(err)
	assert.Equal(t, wire.KindNumberParse, kind)
}

func TestResponseRoundTrip(t *testing.T) {
	for _, r := range []sensor.Response{
		ProbeType{K: 0.1},
		Params{Calibration: sensor.CalibrationThree, Compensation: 25, K: 1},
		sensor.Reading{Value: 1413},
	} {
		got, err := ParseResponse(r.String())
		require.NoError(t, err, r.String())
		assert.Equal(t, r, got)
	}
}

func TestDeviceExecute(t *testing.T) {
	bus := sim.NewBus()
	bus.Add(DefaultAddress, sim.KindEC)
	chip := ezo.NewChip(bus, DefaultAddress)
	chip.Settle = ezo.NoDelay
	dev := NewDevice(chip)
	ctx := context.Background()

	tests := []struct {
		cmd  Command
		want sensor.Response
	}{
		{Read(), sensor.Reading{Value: 1413}},
		{DeviceInfo(), sensor.DeviceInfo{Type: "EC", Firmware: "2.16"}},
		{CalibrateDry(), sensor.Ok{}},
		{Calibrate(1413), sensor.Ok{}},
		{ProbeTypeSet(0.1), sensor.Ok{}},
		{ProbeTypeGet(), ProbeType{K: 0.1}},
		{CompensationSet(20), sensor.Ok{}},
		{GetParams(), Params{Calibration: sensor.CalibrationOne, Compensation: 20, K: 0.1}},
		{Sleep(), sensor.Sleeping{}},
	}

	for _, tt := range tests {
		got, err := dev.Execute(ctx, tt.cmd)
		require.NoError(t, err, tt.cmd.String())
		assert.Equal(t, tt.want, got, tt.cmd.String())
		assert.True(t, Family.Matches(tt.cmd, got), tt.cmd.String())
	}

	st, _ := bus.State(DefaultAddress)
	assert.True(t, st.Sleeping)
}
