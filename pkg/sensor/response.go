package sensor

import (
	"fmt"

	"github.com/probenet/probenet-go/pkg/wire"
)

// Response is a reply value produced by a successful device interaction.
// The set of implementations is closed: only types embedding Variant
// satisfy it.
type Response interface {
	fmt.Stringer
	isResponse()
}

// Variant marks a type as a Response. Family packages embed it in their
// family-specific response types.
type Variant struct{}

func (Variant) isResponse() {}

// Response tokens shared by every family.
const (
	TokenOk           = "ok"
	TokenSleeping     = "sleeping"
	TokenDeviceInfo   = "device_info"
	TokenStatus       = "status"
	TokenLed          = "led"
	TokenCalibration  = "calibration"
	TokenCompensation = "compensation"
)

// Ok acknowledges a command with no result value.
type Ok struct{ Variant }

func (Ok) String() string { return TokenOk }

// Sleeping acknowledges that the device entered low-power mode.
type Sleeping struct{ Variant }

func (Sleeping) String() string { return TokenSleeping }

// Reading is a measured value. Its wire form is the bare number.
type Reading struct {
	Variant
	Value float64
}

func (r Reading) String() string { return wire.FormatFloat(r.Value) }

// DeviceInfo identifies the chip type and firmware version.
type DeviceInfo struct {
	Variant
	Type     string
	Firmware string
}

func (d DeviceInfo) String() string {
	return TokenDeviceInfo + wire.Separator + d.Type + wire.Separator + d.Firmware
}

// DeviceStatus reports the last restart reason and the supply voltage.
type DeviceStatus struct {
	Variant
	Restart RestartReason
	Vcc     float64
}

func (d DeviceStatus) String() string {
	return TokenStatus + wire.Separator + d.Restart.String() + wire.Separator + wire.FormatFloat(d.Vcc)
}

// LedStatus reports whether the indicator LED is enabled.
type LedStatus struct {
	Variant
	On bool
}

func (l LedStatus) String() string {
	if l.On {
		return TokenLed + wire.Separator + "on"
	}
	return TokenLed + wire.Separator + "off"
}

// CalibrationStatus reports how many calibration points are stored.
type CalibrationStatus struct {
	Variant
	Points CalibrationPoints
}

func (c CalibrationStatus) String() string {
	return TokenCalibration + wire.Separator + c.Points.String()
}

// Compensation reports the temperature compensation value in °C.
type Compensation struct {
	Variant
	Value float64
}

func (c Compensation) String() string {
	return TokenCompensation + wire.Separator + wire.FormatFloat(c.Value)
}

// Compile-time interface satisfaction checks.
var (
	_ Response = Ok{}
	_ Response = Sleeping{}
	_ Response = Reading{}
	_ Response = DeviceInfo{}
	_ Response = DeviceStatus{}
	_ Response = LedStatus{}
	_ Response = CalibrationStatus{}
	_ Response = Compensation{}
)
