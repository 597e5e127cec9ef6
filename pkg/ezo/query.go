package ezo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/sensor"
)

// Exec runs a command that answers with an empty success reply.
func (c *Chip) Exec(ctx context.Context, cmd string, delay time.Duration) error {
	reply, err := c.Run(ctx, cmd, delay)
	if err != nil {
		return err
	}
	if reply != "" {
		return device.Trouble(cmd, fmt.Errorf("%w: unexpected reply %q", device.ErrMalformed, reply))
	}
	return nil
}

// Query runs a "?"-style command and returns the n reply fields after
// prefix.
func (c *Chip) Query(ctx context.Context, cmd, prefix string, n int) ([]string, error) {
	reply, err := c.Run(ctx, cmd, DelayShort)
	if err != nil {
		return nil, err
	}
	fields, err := SplitReply(reply, prefix, n)
	if err != nil {
		return nil, device.Trouble(cmd, err)
	}
	return fields, nil
}

// QueryFloat runs a query whose single field is a number.
func (c *Chip) QueryFloat(ctx context.Context, cmd, prefix string) (float64, error) {
	fields, err := c.Query(ctx, cmd, prefix, 1)
	if err != nil {
		return 0, err
	}
	v, err := ParseFloatField(fields[0])
	if err != nil {
		return 0, device.Trouble(cmd, err)
	}
	return v, nil
}

// Read takes a reading. Chips with a multi-parameter output string report
// the primary parameter first.
func (c *Chip) Read(ctx context.Context, delay time.Duration) (float64, error) {
	reply, err := c.Run(ctx, "R", delay)
	if err != nil {
		return 0, err
	}
	first, _, _ := strings.Cut(reply, ",")
	v, err := ParseFloatField(first)
	if err != nil {
		return 0, device.Trouble("R", err)
	}
	return v, nil
}

// Sleep puts the chip into low-power mode. The next command wakes it.
func (c *Chip) Sleep(ctx context.Context) error {
	return c.Send(ctx, "Sleep")
}

// Find blinks the LED so the chip can be located.
func (c *Chip) Find(ctx context.Context) error {
	return c.Exec(ctx, "Find", DelayShort)
}

// Status returns the last restart reason and the supply voltage.
func (c *Chip) Status(ctx context.Context) (sensor.DeviceStatus, error) {
	fields, err := c.Query(ctx, "Status", "?Status", 2)
	if err != nil {
		return sensor.DeviceStatus{}, err
	}
	vcc, err := ParseFloatField(fields[1])
	if err != nil {
		return sensor.DeviceStatus{}, device.Trouble("Status", err)
	}
	return sensor.DeviceStatus{Restart: restartReason(fields[0]), Vcc: vcc}, nil
}

// SetLed switches the indicator LED.
func (c *Chip) SetLed(ctx context.Context, on bool) error {
	if on {
		return c.Exec(ctx, "L,1", DelayShort)
	}
	return c.Exec(ctx, "L,0", DelayShort)
}

// Led reports whether the indicator LED is on.
func (c *Chip) Led(ctx context.Context) (bool, error) {
	fields, err := c.Query(ctx, "L,?", "?L", 1)
	if err != nil {
		return false, err
	}
	switch fields[0] {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, device.Trouble("L,?", fmt.Errorf("%w: led state %q", device.ErrMalformed, fields[0]))
}

// ClearCalibration deletes all calibration points.
func (c *Chip) ClearCalibration(ctx context.Context) error {
	return c.Exec(ctx, "Cal,clear", DelayShort)
}

// Calibration returns the number of stored calibration points.
func (c *Chip) Calibration(ctx context.Context) (sensor.CalibrationPoints, error) {
	fields, err := c.Query(ctx, "Cal,?", "?CAL", 1)
	if err != nil {
		return sensor.CalibrationNone, err
	}
	switch fields[0] {
	case "0":
		return sensor.CalibrationNone, nil
	case "1":
		return sensor.CalibrationOne, nil
	case "2":
		return sensor.CalibrationTwo, nil
	case "3":
		return sensor.CalibrationThree, nil
	}
	return sensor.CalibrationNone, device.Trouble("Cal,?", fmt.Errorf("%w: calibration count %q", device.ErrMalformed, fields[0]))
}

func restartReason(code string) sensor.RestartReason {
	switch strings.ToUpper(code) {
	case "P":
		return sensor.RestartPoweredOff
	case "S":
		return sensor.RestartSoftwareReset
	case "B":
		return sensor.RestartBrownOut
	case "W":
		return sensor.RestartWatchdog
	default:
		return sensor.RestartUnknown
	}
}
