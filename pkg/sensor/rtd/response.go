package rtd

import (
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/wire"
)

const (
	TokenScale  = "scale"
	TokenParams = "params"
)

// DefaultAddress is the factory I2C address of the EZO RTD chip.
const DefaultAddress = 0x66

// Unit is a temperature scale.
type Unit uint8

const (
	Celsius Unit = iota
	Kelvin
	Fahrenheit
)

func (u Unit) String() string {
	switch u {
	case Kelvin:
		return "kelvin"
	case Fahrenheit:
		return "fahrenheit"
	default:
		return "celsius"
	}
}

// ParseUnit parses a scale token.
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "celsius":
		return Celsius, true
	case "kelvin":
		return Kelvin, true
	case "fahrenheit":
		return Fahrenheit, true
	}
	return Celsius, false
}

// Scale reports the scale readings are given in.
type Scale struct {
	sensor.Variant
	Unit Unit
}

func (s Scale) String() string { return TokenScale + wire.Separator + s.Unit.String() }

// Params is the reply to GetParams.
type Params struct {
	sensor.Variant
	Calibration sensor.CalibrationPoints
	Unit        Unit
}

func (p Params) String() string {
	return TokenParams + wire.Separator + p.Calibration.String() + wire.Separator + p.Unit.String()
}

// ParseResponse decodes reply text.
func ParseResponse(text string) (sensor.Response, error) {
	switch wire.Head(text) {
	case TokenScale:
		args, err := wire.Expect(text, TokenScale, 1)
		if err != nil {
			return nil, err
		}
		u, ok := ParseUnit(args[0])
		if !ok {
			return nil, wire.Unknown(text)
		}
		return Scale{Unit: u}, nil

	case TokenParams:
		args, err := wire.Expect(text, TokenParams, 2)
		if err != nil {
			return nil, err
		}
		points, ok := sensor.ParseCalibrationPoints(args[0])
		if !ok {
			return nil, wire.Unknown(text)
		}
		u, ok := ParseUnit(args[1])
		if !ok {
			return nil, wire.Unknown(text)
		}
		return Params{Calibration: points, Unit: u}, nil
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
	case VerbScaleGet:
		_, ok = r.(Scale)
	case VerbGetParams:
		_, ok = r.(Params)
	default:
		_, ok = r.(sensor.Ok)
	}
	return ok
}

// Family is the temperature protocol descriptor.
var Family = sensor.Family[Command, sensor.Response]{
	Name:           sensor.FamilyRTD,
	DefaultAddress: DefaultAddress,
	Tokens:         Tokens(),
	Command:        ParseCommand,
	Response:       ParseResponse,
	Expects:        Expects,
}
