package sensor

import (
	"github.com/probenet/probenet-go/pkg/wire"
)

// ParseCommon decodes the response variants shared by every family.
func ParseCommon(text string) (Response, error) {
	switch wire.Head(text) {
	case TokenOk:
		if _, err := wire.Expect(text, TokenOk, 0); err != nil {
			return nil, err
		}
		return Ok{}, nil

	case TokenSleeping:
		if _, err := wire.Expect(text, TokenSleeping, 0); err != nil {
			return nil, err
		}
		return Sleeping{}, nil

	case TokenDeviceInfo:
		args, err := wire.Expect(text, TokenDeviceInfo, 2)
		if err != nil {
			return nil, err
		}
		return DeviceInfo{Type: args[0], Firmware: args[1]}, nil

	case TokenStatus:
		args, err := wire.Expect(text, TokenStatus, 2)
		if err != nil {
			return nil, err
		}
		reason, ok := ParseRestartReason(args[0])
		if !ok {
			return nil, wire.Unknown(text)
		}
		vcc, err := wire.ParseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return DeviceStatus{Restart: reason, Vcc: vcc}, nil

	case TokenLed:
		args, err := wire.Expect(text, TokenLed, 1)
		if err != nil {
			return nil, err
		}
		switch args[0] {
		case "on":
			return LedStatus{On: true}, nil
		case "off":
			return LedStatus{On: false}, nil
		}
		return nil, wire.Unknown(text)

	case TokenCalibration:
		args, err := wire.Expect(text, TokenCalibration, 1)
		if err != nil {
			return nil, err
		}
		points, ok := ParseCalibrationPoints(args[0])
		if !ok {
			return nil, wire.Unknown(text)
		}
		return CalibrationStatus{Points: points}, nil

	case TokenCompensation:
		args, err := wire.Expect(text, TokenCompensation, 1)
		if err != nil {
			return nil, err
		}
		v, err := wire.ParseFloat(args[0])
		if err != nil {
			return nil, err
		}
		return Compensation{Value: v}, nil
	}

	// A bare number is a reading.
	fields, err := wire.Fields(text)
	if err != nil {
		return nil, err
	}
	if len(fields) == 1 {
		if v, err := wire.ParseFloat(fields[0]); err == nil {
			return Reading{Value: v}, nil
		}
	}
	return nil, wire.Unknown(text)
}
