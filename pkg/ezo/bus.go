package ezo

import (
	"fmt"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// Bus is an I2C bus that must be released after use.
type Bus interface {
	drivers.I2C
	Close() error
}

// OpenBus initialises the host drivers and opens the named I2C bus.
// An empty name opens the first bus found.
func OpenBus(name string) (Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return bus, nil
}
