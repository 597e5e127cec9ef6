package rtd

import (
	"context"
	"fmt"

	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/ezo"
	"github.com/probenet/probenet-go/pkg/sensor"
)

// Device drives an EZO RTD chip.
type Device struct {
	chip *ezo.Chip
}

func NewDevice(chip *ezo.Chip) *Device {
	return &Device{chip: chip}
}

// Execute runs cmd against the chip.
func (d *Device) Execute(ctx context.Context, cmd Command) (sensor.Response, error) {
	c := d.chip
	switch cmd.Verb {
	case VerbRead:
		v, err := c.Read(ctx, ezo.DelayRead)
		if err != nil {
			return nil, err
		}
		return sensor.Reading{Value: v}, nil
	case VerbSleep:
		if err := c.Sleep(ctx); err != nil {
			return nil, err
		}
		return sensor.Sleeping{}, nil
	case VerbFind:
		return ok(c.Find(ctx))
	case VerbDeviceInfo:
		typ, fw, err := c.Identify(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.DeviceInfo{Type: typ, Firmware: fw}, nil
	case VerbStatus:
		st, err := c.Status(ctx)
		if err != nil {
			return nil, err
		}
		return st, nil
	case VerbLedOn:
		return ok(c.SetLed(ctx, true))
	case VerbLedOff:
		return ok(c.SetLed(ctx, false))
	case VerbLedStatus:
		on, err := c.Led(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.LedStatus{On: on}, nil
	case VerbCalibrate:
		return ok(c.Exec(ctx, "Cal,"+ezo.FormatValue(cmd.Value), ezo.DelayRead))
	case VerbCalibrationClear:
		return ok(c.ClearCalibration(ctx))
	case VerbCalibrationStatus:
		points, err := c.Calibration(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.CalibrationStatus{Points: points}, nil
	case VerbScaleCelsius:
		return ok(c.Exec(ctx, "S,c", ezo.DelayShort))
	case VerbScaleKelvin:
		return ok(c.Exec(ctx, "S,k", ezo.DelayShort))
	case VerbScaleFahrenheit:
		return ok(c.Exec(ctx, "S,f", ezo.DelayShort))
	case VerbScaleGet:
		u, err := d.unit(ctx)
		if err != nil {
			return nil, err
		}
		return Scale{Unit: u}, nil
	case VerbGetParams:
		points, err := c.Calibration(ctx)
		if err != nil {
			return nil, err
		}
		u, err := d.unit(ctx)
		if err != nil {
			return nil, err
		}
		return Params{Calibration: points, Unit: u}, nil
	}
	return nil, device.Fault(device.KindUnsupported, cmd.String(), device.ErrUnsupported)
}

func (d *Device) unit(ctx context.Context) (Unit, error) {
	fields, err := d.chip.Query(ctx, "S,?", "?S", 1)
	if err != nil {
		return Celsius, err
	}
	switch fields[0] {
	case "c":
		return Celsius, nil
	case "k":
		return Kelvin, nil
	case "f":
		return Fahrenheit, nil
	}
	return Celsius, device.Trouble("S,?", fmt.Errorf("%w: scale %q", device.ErrMalformed, fields[0]))
}

func ok(err error) (sensor.Response, error) {
	if err != nil {
		return nil, err
	}
	return sensor.Ok{}, nil
}

var _ device.Device[Command, sensor.Response] = (*Device)(nil)
