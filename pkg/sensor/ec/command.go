// Package ec implements the command grammar and the EZO driver for
// electrical conductivity probes.
package ec

import (
	"github.com/probenet/probenet-go/pkg/wire"
)

// Verb identifies a conductivity command.
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
	VerbCalibrate
	VerbCalibrateDry
	VerbCalibrateLow
	VerbCalibrateHigh
	VerbCalibrationClear
	VerbCalibrationStatus
	VerbCompensationSet
	VerbCompensationGet
	VerbProbeTypeSet
	VerbProbeTypeGet
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
	VerbCalibrateDry:      {Token: "calibrate_dry"},
	VerbCalibrateLow:      {Token: "calibrate_low", Arg: true},
	VerbCalibrateHigh:     {Token: "calibrate_high", Arg: true},
	VerbCalibrationClear:  {Token: "calibration_clear"},
	VerbCalibrationStatus: {Token: "calibration_status"},
	VerbCompensationSet:   {Token: "compensation_set", Arg: true},
	VerbCompensationGet:   {Token: "compensation_get"},
	VerbProbeTypeSet:      {Token: "probe_type_set", Arg: true},
	VerbProbeTypeGet:      {Token: "probe_type_get"},
	VerbGetParams:         {Token: "get_params"},
})

func (v Verb) String() string { return verbs.Token(v) }

// HasArg reports whether the verb carries a numeric argument.
func (v Verb) HasArg() bool {
	spec, ok := verbs.Spec(v)
	return ok && spec.Arg
}

// Command is a conductivity request.
type Command struct {
	Verb  Verb
	Value float64
}

func Read() Command { return Command{Verb: VerbRead} }
func Sleep() Command { return Command{Verb: VerbSleep} }
func Find() Command { return Command{Verb: VerbFind} }
func DeviceInfo() Command { return Command{Verb: VerbDeviceInfo} }
func Status() Command { return Command{Verb: VerbStatus} }
func LedOn() Command { return Command{Verb: VerbLedOn} }
func LedOff() Command { return Command{Verb: VerbLedOff} }
func LedStatus() Command { return Command{Verb: VerbLedStatus} }
func Calibrate(v float64) Command { return Command{Verb: VerbCalibrate, Value: v} }
func CalibrateDry() Command { return Command{Verb: VerbCalibrateDry} }
func CalibrateLow(v float64) Command { return Command{Verb: VerbCalibrateLow, Value: v} }
func CalibrateHigh(v float64) Command { return Command{Verb: VerbCalibrateHigh, Value: v} }
func CalibrationClear() Command { return Command{Verb: VerbCalibrationClear} }
func CalibrationStatus() Command { return Command{Verb: VerbCalibrationStatus} }
func CompensationSet(v float64) Command { return Command{Verb: VerbCompensationSet, Value: v} }
func CompensationGet() Command { return Command{Verb: VerbCompensationGet} }
func ProbeTypeSet(k float64) Command { return Command{Verb: VerbProbeTypeSet, Value: k} }
func ProbeTypeGet() Command { return Command{Verb: VerbProbeTypeGet} }
func GetParams() Command { return Command{Verb: VerbGetParams} }

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
