package ec

import (
	"context"

	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/ezo"
	"github.com/probenet/probenet-go/pkg/sensor"
)

// Device drives an EZO EC chip. Readings are conductivity in µS/cm.
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
	case VerbCalibrateDry:
		return ok(c.Exec(ctx, "Cal,dry", ezo.DelayRead))
	case VerbCalibrateLow:
		return ok(c.Exec(ctx, "Cal,low,"+ezo.FormatValue(cmd.Value), ezo.DelayRead))
	case VerbCalibrateHigh:
		return ok(c.Exec(ctx, "Cal,high,"+ezo.FormatValue(cmd.Value), ezo.DelayRead))
	case VerbCalibrationClear:
		return ok(c.ClearCalibration(ctx))
	case VerbCalibrationStatus:
		points, err := c.Calibration(ctx)
		if err != nil {
			return nil, err
		}
		return sensor.CalibrationStatus{Points: points}, nil
	case VerbCompensationSet:
		return ok(c.Exec(ctx, "T,"+ezo.FormatValue(cmd.Value), ezo.DelayShort))
	case VerbCompensationGet:
		v, err := c.QueryFloat(ctx, "T,?", "?T")
		if err != nil {
			return nil, err
		}
		return sensor.Compensation{Value: v}, nil
	case VerbProbeTypeSet:
		return ok(c.Exec(ctx, "K,"+ezo.FormatValue(cmd.Value), ezo.DelayShort))
	case VerbProbeTypeGet:
		k, err := c.QueryFloat(ctx, "K,?", "?K")
		if err != nil {
			return nil, err
		}
		return ProbeType{K: k}, nil
	case VerbGetParams:
		return d.params(ctx)
	}
	return nil, device.Fault(device.KindUnsupported, cmd.String(), device.ErrUnsupported)
}

func (d *Device) params(ctx context.Context) (sensor.Response, error) {
	points, err := d.chip.Calibration(ctx)
	if err != nil {
		return nil, err
	}
	comp, err := d.chip.QueryFloat(ctx, "T,?", "?T")
	if err != nil {
		return nil, err
	}
	k, err := d.chip.QueryFloat(ctx, "K,?", "?K")
	if err != nil {
		return nil, err
	}
	return Params{Calibration: points, Compensation: comp, K: k}, nil
}

func ok(err error) (sensor.Response, error) {
	if err != nil {
		return nil, err
	}
	return sensor.Ok{}, nil
}

var _ device.Device[Command, sensor.Response] = (*Device)(nil)
