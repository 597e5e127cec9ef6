package ph

import (
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/wire"
)

// Response tokens specific to pH probes.
const (
	TokenSlope  = "slope"
	TokenParams = "params"
)

// DefaultAddress is the factory I2C address of the EZO pH chip.
const DefaultAddress = 0x63

// SlopeInfo reports the probe's acid and base slopes as percentages of an
// ideal probe.
type SlopeInfo struct {
	sensor.Variant
	Acid float64
	Base float64
}

func (s SlopeInfo) String() string {
	return TokenSlope + wire.Separator + wire.FormatFloat(s.Acid) + wire.Separator + wire.FormatFloat(s.Base)
}

// Params is the reply to GetParams.
type Params struct {
	sensor.Variant
	Calibration  sensor.CalibrationPoints
	Compensation float64
}

func (p Params) String() string {
	return TokenParams + wire.Separator + p.Calibration.String() + wire.Separator + wire.FormatFloat(p.Compensation)
}

// ParseResponse decodes reply text.
func ParseResponse(text string) (sensor.Response, error) {
	switch wire.Head(text) {
	case TokenSlope:
		args, err := wire.Expect(text, TokenSlope, 2)
		if err != nil {
			return nil, err
		}
		acid, err := wire.ParseFloat(args[0])
		if err != nil {
			return nil, err
		}
		base, err := wire.ParseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return SlopeInfo{Acid: acid, Base: base}, nil

	case TokenParams:
		args, err := wire.Expect(text, TokenParams, 2)
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
		return Params{Calibration: points, Compensation: comp}, nil
	}
	return sensor.ParseCommon(text)
}

// Expects reports whether r is the reply variant paired with cmd.
func Expects(cmd Command, r sensor.Response) bool {
	switch cmd.Verb {
	case VerbRead:
		_, ok := r.(sensor.Reading)
		return ok
	case VerbSleep:
		_, ok := r.(sensor.Sleeping)
		return ok
	case VerbDeviceInfo:
		_, ok := r.(sensor.DeviceInfo)
		return ok
	case VerbStatus:
		_, ok := r.(sensor.DeviceStatus)
		return ok
	case VerbLedStatus:
		_, ok := r.(sensor.LedStatus)
		return ok
	case VerbCalibrationStatus:
		_, ok := r.(sensor.CalibrationStatus)
		return ok
	case VerbCompensationGet:
		_, ok := r.(sensor.Compensation)
		return ok
	case VerbSlope:
		_, ok := r.(SlopeInfo)
		return ok
	case VerbGetParams:
		_, ok := r.(Params)
		return ok
	}
	_, ok := r.(sensor.Ok)
	return ok
}

// Family is the pH protocol descriptor.
var Family = sensor.Family[Command, sensor.Response]{
	Name:           sensor.FamilyPH,
	DefaultAddress: DefaultAddress,
	Tokens:         Tokens(),
	Command:        ParseCommand,
	Response:       ParseResponse,
	Expects:        Expects,
}

var (
	_ sensor.Response = SlopeInfo{}
	_ sensor.Response = Params{}
)
