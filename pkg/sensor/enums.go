package sensor

// RestartReason is the cause of the device's last restart.
type RestartReason uint8

const (
	RestartUnknown RestartReason = iota
	RestartPoweredOff
	RestartSoftwareReset
	RestartBrownOut
	RestartWatchdog
)

// String returns the wire token for the reason.
func (r RestartReason) String() string {
	switch r {
	case RestartPoweredOff:
		return "powered_off"
	case RestartSoftwareReset:
		return "software_reset"
	case RestartBrownOut:
		return "brown_out"
	case RestartWatchdog:
		return "watchdog"
	default:
		return "unknown"
	}
}

// ParseRestartReason parses a restart reason token.
func ParseRestartReason(s string) (RestartReason, bool) {
	switch s {
	case "powered_off":
		return RestartPoweredOff, true
	case "software_reset":
		return RestartSoftwareReset, true
	case "brown_out":
		return RestartBrownOut, true
	case "watchdog":
		return RestartWatchdog, true
	case "unknown":
		return RestartUnknown, true
	default:
		return RestartUnknown, false
	}
}

// CalibrationPoints counts stored calibration points.
type CalibrationPoints uint8

const (
	CalibrationNone CalibrationPoints = iota
	CalibrationOne
	CalibrationTwo
	CalibrationThree
)

// String returns the wire token for the count.
func (c CalibrationPoints) String() string {
	switch c {
	case CalibrationOne:
		return "one"
	case CalibrationTwo:
		return "two"
	case CalibrationThree:
		return "three"
	default:
		return "none"
	}
}

// ParseCalibrationPoints parses a calibration count token.
func ParseCalibrationPoints(s string) (CalibrationPoints, bool) {
	switch s {
	case "none":
		return CalibrationNone, true
	case "one":
		return CalibrationOne, true
	case "two":
		return CalibrationTwo, true
	case "three":
		return CalibrationThree, true
	default:
		return CalibrationNone, false
	}
}
