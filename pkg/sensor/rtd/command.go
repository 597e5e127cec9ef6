// Package rtd implements the command grammar and the EZO driver for RTD
// temperature probes.
package rtd

import (
	"github.com/probenet/probenet-go/pkg/wire"
)

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
	VerbCalibrationClear
	VerbCalibrationStatus
	VerbScaleCelsius
	VerbScaleKelvin
	VerbScaleFahrenheit
	VerbScaleGet
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
	VerbCalibrationClear:  {Token: "calibration_clear"},
	VerbCalibrationStatus: {Token: "calibration_status"},
	VerbScaleCelsius:      {Token: "scale_celsius"},
	VerbScaleKelvin:       {Token: "scale_kelvin"},
	VerbScaleFahrenheit:   {Token: "scale_fahrenheit"},
	VerbScaleGet:          {Token: "scale_get"},
	VerbGetParams:         {Token: "get_params"},
})

func (v Verb) String() string { return verbs.Token(v) }

func (v Verb) HasArg() bool {
	spec, ok := verbs.Spec(v)
	return ok && spec.Arg
}

// Command is a temperature request.
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
func CalibrationClear() Command { return Command{Verb: VerbCalibrationClear} }
func CalibrationStatus() Command { return Command{Verb: VerbCalibrationStatus} }
func ScaleCelsius() Command { return Command{Verb: VerbScaleCelsius} }
func ScaleKelvin() Command { return Command{Verb: VerbScaleKelvin} }
func ScaleFahrenheit() Command { return Command{Verb: VerbScaleFahrenheit} }
func ScaleGet() Command { return Command{Verb: VerbScaleGet} }
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

func Tokens() []string { return verbs.Tokens() }
