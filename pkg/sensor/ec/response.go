package ec

import (
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/wire"
)

const (
	TokenProbeType = "probe_type"
	TokenParams    = "params"
)

// DefaultAddress is the factory I2C address of the EZO EC chip.
const DefaultAddress = 0x64

// ProbeType reports the probe's cell constant K.
type ProbeType struct {
	sensor.Variant
	K float64
}

func (p ProbeType) String() string {
	return TokenProbeType + wire.Separator + wire.FormatFloat(p.K)
}

// Params is the reply to GetParams.
type Params struct {
	sensor.Variant
	Calibration  sensor.CalibrationPoints
	Compensation float64
	K            float64
}

func (p Params) String() string {
	return TokenParams + wire.Separator + p.Calibration.String() +
		wire.Separator + wire.FormatFloat(p.Compensation) +
		wire.Separator + wire.FormatFloat(p.K)
}

// ParseResponse decodes reply text.
func ParseResponse(text string) (sensor.Response, error) {
	switch wire.Head(text) {
	case TokenProbeType:
		args, err := wire.Expect(text, TokenProbeType, 1)
		if err != nil {
			return nil, err
		}
		k, err := wire.ParseFloat(args[0])
		if err != nil {
			return nil, err
		}
		return ProbeType{K: k}, nil

	case TokenParams:
		args, err := wire.Expect(text, TokenParams, 3)
		if err != nil {
			return nil, err
		}
		points, ok := sensor.ParseCalibrationPoints(args[0])
		if !ok {
			return nil, wire.Unknown(text)
		}
		comp, err := wire.ParseFloat(args[1])
		if err != nil {
			return nil, err
		}
		k, err := wire.ParseFloat(args[2])
		if err != nil {
			return nil, err
		}
		return Params{Calibration: points, Compensation: comp, K: k}, nil
	}
	return sensor.ParseCommon(text)
}

// Expects reports whether r is the reply variant paired with cmd.
func Expects(cmd Command, r sensor.Response) bool {
	var ok bool
	switch cmd.Verb {
	case VerbRead:
		_, ok = r.(sensor.Reading)
	case VerbSleep:
		_, ok = r.(sensor.Sleeping)
	case VerbDeviceInfo:
		_, ok = r.(sensor.DeviceInfo)
	case VerbStatus:
		_, ok = r.(sensor.DeviceStatus)
	case VerbLedStatus:
		_, ok = r.(sensor.LedStatus)
	case VerbCalibrationStatus:
		_, ok = r.(sensor.CalibrationStatus)
	case VerbCompensationGet:
		_, ok = r.(sensor.Compensation)
	case VerbProbeTypeGet:
		_, ok = r.(ProbeType)
	case VerbGetParams:
		_, ok = r.(Params)
	default:
		_, ok = r.(sensor.Ok)
	}
	return ok
}

// Family is the conductivity protocol descriptor.
var Family = sensor.Family[Command, sensor.Response]{
	Name:           sensor.FamilyEC,
	DefaultAddress: DefaultAddress,
	Tokens:         Tokens(),
	Command:        ParseCommand,
	Response:       ParseResponse,
	Expects:        Expects,
}
