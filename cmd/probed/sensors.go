package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"
	"tinygo.org/x/drivers"

	"github.com/probenet/probenet-go/pkg/config"
	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/ezo"
	"github.com/probenet/probenet-go/pkg/ezo/sim"
	"github.com/probenet/probenet-go/pkg/interaction"
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/sensor/ec"
	"github.com/probenet/probenet-go/pkg/sensor/ph"
	"github.com/probenet/probenet-go/pkg/sensor/rtd"
)

// server is a running responder.
type server interface {
	Serve(ctx context.Context) error
}

// simKinds maps family names to simulated chip kinds.
var simKinds = map[string]string{
	sensor.FamilyPH:  sim.KindPH,
	sensor.FamilyEC:  sim.KindEC,
	sensor.FamilyRTD: sim.KindRTD,
}

type chipKey struct {
	bus  string
	addr uint16
}

// busSet opens each I2C bus once and shares it between sensors. A chip
// configured under several sensors is driven through one serialized device.
type busSet struct {
	sim     *sim.Bus
	open    map[string]ezo.Bus
	devices map[chipKey]any
	logger  *slog.Logger
}

func newBusSet(logger *slog.Logger) *busSet {
	return &busSet{
		sim:     sim.NewBus(),
		open:    make(map[string]ezo.Bus),
		devices: make(map[chipKey]any),
		logger:  logger,
	}
}

// get returns the named bus, opening it on first use.
func (b *busSet) get(name string) (drivers.I2C, error) {
	if name == config.BusSim {
		return b.sim, nil
	}
	if bus, ok := b.open[name]; ok {
		return bus, nil
	}
	bus, err := ezo.OpenBus(name)
	if err != nil {
		return nil, err
	}
	b.logger.Info("opened i2c bus", "bus", name)
	b.open[name] = bus
	return bus, nil
}

// Close releases every opened hardware bus.
func (b *busSet) Close() error {
	var err error
	for name, bus := range b.open {
		if cerr := bus.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close bus %s: %w", name, cerr))
		}
	}
	b.open = make(map[string]ezo.Bus)
	return err
}

// chipFor binds the chip at addr, attaching a simulated one on the sim bus.
func (b *busSet) chipFor(s config.Sensor, addr uint16) (*ezo.Chip, error) {
	bus, err := b.get(s.Bus)
	if err != nil {
		return nil, err
	}
	chip := ezo.NewChip(bus, addr)
	if s.Bus == config.BusSim {
		b.sim.Add(addr, simKinds[s.Family])
		chip.Settle = ezo.NoDelay
	}
	return chip, nil
}

// sharedDevice returns the device driving the sensor's chip, building it on
// first use.
func sharedDevice[C, R any, D device.Device[C, R]](b *busSet, s config.Sensor, defaultAddr uint16, build func(*ezo.Chip) D) (device.Device[C, R], error) {
	key := chipKey{bus: s.Bus, addr: s.Address}
	if key.addr == 0 {
		key.addr = defaultAddr
	}
	if existing, ok := b.devices[key]; ok {
		dev, ok := existing.(device.Device[C, R])
		if !ok {
			return nil, fmt.Errorf("chip 0x%02x on %s already serves another family", key.addr, key.bus)
		}
		return dev, nil
	}

	chip, err := b.chipFor(s, key.addr)
	if err != nil {
		return nil, err
	}
	dev := device.NewExclusive[C, R](build(chip))
	b.devices[key] = dev
	return dev, nil
}

// newServer builds the family device for s and a responder answering on
// sock.
func newServer(s config.Sensor, sock interaction.Socket, buses *busSet, o interaction.Options) (server, error) {
	switch s.Family {
	case sensor.FamilyPH:
		dev, err := sharedDevice[ph.Command, sensor.Response](buses, s, ph.DefaultAddress, ph.NewDevice)
		if err != nil {
			return nil, err
		}
		return respond(sock, &ph.Family, dev, o), nil
	case sensor.FamilyEC:
		dev, err := sharedDevice[ec.Command, sensor.Response](buses, s, ec.DefaultAddress, ec.NewDevice)
		if err != nil {
			return nil, err
		}
		return respond(sock, &ec.Family, dev, o), nil
	case sensor.FamilyRTD:
		dev, err := sharedDevice[rtd.Command, sensor.Response](buses, s, rtd.DefaultAddress, rtd.NewDevice)
		if err != nil {
			return nil, err
		}
		return respond(sock, &rtd.Family, dev, o), nil
	}
	return nil, fmt.Errorf("unknown family %q", s.Family)
}

func respond[C, R fmt.Stringer](sock interaction.Socket, fam *sensor.Family[C, R], dev device.Device[C, R], o interaction.Options) server {
	return interaction.NewResponder[C, R](sock, fam, dev, o)
}
