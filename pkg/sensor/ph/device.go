package ph

import (
	"context"

	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/ezo"
	"github.com/probenet/probenet-go/pkg/sensor"
)

// Device drives an EZO pH chip.
type Device struct {
	chip *ezo.Chip
}

// NewDevice returns a driver for chip.
func NewDevice(chip *ezo.Chip) *Device {
	return &Device{chip: chip}
}

// Execute runs cmd against the chip.
func (d *Device) Execute(ctx context.Context, cmd Command) (sensor.Response, error) {
	switch cmd.Verb {
	case VerbRead:
		v, err := d.chip.Read(ctx, ezo.DelayLong)
		if err != nil {
			return nil, err
		}
		return sensor.Reading{Value: v}, nil

	case VerbSleep:
		if err := d.chip.Sleep(ctx); err != nil {
			return nil, err
		}
		return sensor.Sleeping{}, nil

	case VerbFind:
		return ok(d.chip.Find(ctx))

	case VerbDeviceInfo:
		typ, fw, err := d.chip.Identify(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.DeviceInfo{Type: typ, Firmware: fw}, nil

	case VerbStatus:
		st, err := d.chip.Status(ctx)
		if err != nil {
			return nil, err
		}
		return st, nil

	case VerbLedOn:
		return ok(d.chip.SetLed(ctx, true))

	case VerbLedOff:
		return ok(d.chip.SetLed(ctx, false))

	case VerbLedStatus:
		on, err := d.chip.Led(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.LedStatus{On: on}, nil

	case VerbCalibrate:
		return ok(d.chip.Exec(ctx, "Cal,mid,"+ezo.FormatValue(cmd.Value), ezo.DelayLong))

	case VerbCalibrateLow:
		return ok(d.chip.Exec(ctx, "Cal,low,"+ezo.FormatValue(cmd.Value), ezo.DelayLong))

	case VerbCalibrateHigh:
		return ok(d.chip.Exec(ctx, "Cal,high,"+ezo.FormatValue(cmd.Value), ezo.DelayLong))

	case VerbCalibrationClear:
		return ok(d.chip.ClearCalibration(ctx))

	case VerbCalibrationStatus:
		points, err := d.chip.Calibration(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.CalibrationStatus{Points: points}, nil

	case VerbCompensationSet:
		return ok(d.chip.Exec(ctx, "T,"+ezo.FormatValue(cmd.Value), ezo.DelayShort))

	case VerbCompensationGet:
		v, err := d.chip.QueryFloat(ctx, "T,?", "?T")
		if err != nil {
			return nil, err
		}
		return sensor.Compensation{Value: v}, nil

	case VerbSlope:
		return d.slope(ctx)

	case VerbGetParams:
		points, err := d.chip.Calibration(ctx)
		if err != nil {
			return nil, err
		}
		comp, err := d.chip.QueryFloat(ctx, "T,?", "?T")
		if err != nil {
			return nil, err
		}
		return Params{Calibration: points, Compensation: comp}, nil
	}
	return nil, device.Fault(device.KindUnsupported, cmd.String(), device.ErrUnsupported)
}

func (d *Device) slope(ctx context.Context) (sensor.Response, error) {
	fields, err := d.chip.Query(ctx, "Slope,?", "?Slope", 2)
	if err != nil {
		return nil, err
	}
	acid, err := ezo.ParseFloatField(fields[0])
	if err != nil {
		return nil, device.Trouble("Slope,?", err)
	}
	base, err := ezo.ParseFloatField(fields[1])
	if err != nil {
		return nil, device.Trouble("Slope,?", err)
	}
	return SlopeInfo{Acid: acid, Base: base}, nil
}

func ok(err error) (sensor.Response, error) {
	if err != nil {
		return nil, err
	}
	return sensor.Ok{}, nil
}

var _ device.Device[Command, sensor.Response] = (*Device)(nil)
