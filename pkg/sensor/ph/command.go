// Package ph implements the command grammar and the EZO driver for pH
// probes.
//
// Requests are single-line texts such as "read" or "calibrate_low 4.000".
// Argument values are rendered with three fractional digits and parsed
// permissively, so "calibrate 7", "calibrate 7.0" and "calibrate 7.000"
// decode to the same command.
package ph

import (
	"github.com/probenet/probenet-go/pkg/wire"
)

// Verb identifies a pH command.
type Verb uint8

const (
	VerbRead Verb = iota
	VerbSleep
	VerbFind
	VerbDeviceInfo
	VerbStatus
	VerbLedOn
	VerbLedOff
	VerbLedStatus
	VerbCalibrate // midpoint
	VerbCalibrateLow
	VerbCalibrateHigh
	VerbCalibrationClear
	VerbCalibrationStatus
	VerbCompensationSet
	VerbCompensationGet
	VerbSlope
	VerbGetParams
)

var verbs = wire.NewTable(map[Verb]wire.VerbSpec{
	VerbRead:              {Token: "read"},
	VerbSleep:             {Token: "sleep"},
	VerbFind:              {Token: "find"},
	VerbDeviceInfo:        {Token: "device_info"},
	VerbStatus:            {Token: "status"},
	VerbLedOn:             {Token: "led_on"},
	VerbLedOff:            {Token: "led_off"},
	VerbLedStatus:         {Token: "led_status"},
	VerbCalibrate:         {Token: "calibrate", Arg: true},
	VerbCalibrateLow:      {Token: "calibrate_low", Arg: true},
	VerbCalibrateHigh:     {Token: "calibrate_high", Arg: true},
	VerbCalibrationClear:  {Token: "calibration_clear"},
	VerbCalibrationStatus: {Token: "calibration_status"},
	VerbCompensationSet:   {Token: "compensation_set", Arg: true},
	VerbCompensationGet:   {Token: "compensation_get"},
	VerbSlope:             {Token: "slope"},
	VerbGetParams:         {Token: "get_params"},
})

// String returns the verb's wire token.
func (v Verb) String() string { return verbs.Token(v) }

// HasArg reports whether the verb carries a numeric argument.
func (v Verb) HasArg() bool {
	spec, ok := verbs.Spec(v)
	return ok && spec.Arg
}

// Command is a pH request. Value is only meaningful for verbs that take an
// argument and is zero otherwise.
type Command struct {
	Verb  Verb
	Value float64
}

// Read requests a pH reading.
func Read() Command { return Command{Verb: VerbRead} }

// Sleep puts the chip into low-power mode.
func Sleep() Command { return Command{Verb: VerbSleep} }

// Find blinks the chip's LED.
func Find() Command { return Command{Verb: VerbFind} }

// DeviceInfo requests the chip type and firmware.
func DeviceInfo() Command { return Command{Verb: VerbDeviceInfo} }

// Status requests the restart reason and supply voltage.
func Status() Command { return Command{Verb: VerbStatus} }

// LedOn enables the indicator LED.
func LedOn() Command { return Command{Verb: VerbLedOn} }

// LedOff disables the indicator LED.
func LedOff() Command { return Command{Verb: VerbLedOff} }

// LedStatus queries the indicator LED.
func LedStatus() Command { return Command{Verb: VerbLedStatus} }

// Calibrate calibrates the midpoint. It clears the low and high points.
func Calibrate(v float64) Command { return Command{Verb: VerbCalibrate, Value: v} }

// CalibrateLow calibrates the low (acid) point.
func CalibrateLow(v float64) Command { return Command{Verb: VerbCalibrateLow, Value: v} }

// CalibrateHigh calibrates the high (base) point.
func CalibrateHigh(v float64) Command { return Command{Verb: VerbCalibrateHigh, Value: v} }

// CalibrationClear deletes all calibration points.
func CalibrationClear() Command { return Command{Verb: VerbCalibrationClear} }

// CalibrationStatus queries the number of calibration points.
func CalibrationStatus() Command { return Command{Verb: VerbCalibrationStatus} }

// CompensationSet sets the temperature compensation in °C.
func CompensationSet(v float64) Command { return Command{Verb: VerbCompensationSet, Value: v} }

// CompensationGet queries the temperature compensation.
func CompensationGet() Command { return Command{Verb: VerbCompensationGet} }

// Slope queries the probe slope relative to an ideal probe.
func Slope() Command { return Command{Verb: VerbSlope} }

// GetParams queries calibration and compensation together.
func GetParams() Command { return Command{Verb: VerbGetParams} }

// String encodes the command as request text.
func (c Command) String() string { return verbs.Encode(c.Verb, c.Value) }

// ParseCommand decodes request text.
func ParseCommand(text string) (Command, error) {
	v, arg, err := verbs.Decode(text)
	if err != nil {
		return Command{}, err
	}
	return Command{Verb: v, Value: arg}, nil
}

// Tokens returns every command token in lexical order.
func Tokens() []string { return verbs.Tokens() }
