// Package sim simulates EZO pH, EC and RTD chips on an I2C bus.
package sim

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"tinygo.org/x/drivers"

	"github.com/probenet/probenet-go/pkg/ezo"
)

// Chip kinds.
const (
	KindPH  = "pH"
	KindEC  = "EC"
	KindRTD = "RTD"
)

// ErrNoDevice is returned for transactions with an empty address.
var ErrNoDevice = errors.New("sim: no device at address")

// State is the observable state of a simulated chip.
type State struct {
	Kind         string
	Firmware     string
	Value        float64 // reading, in °C for RTD chips
	Led          bool
	CalPoints    int
	Compensation float64
	SlopeAcid    float64
	SlopeBase    float64
	ProbeK       float64
	Scale        byte // 'c', 'k' or 'f'
	Restart      byte // 'P', 'S', 'B', 'W' or 'U'
	Vcc          float64
	Sleeping     bool
}

type chip struct {
	State
	reply   []byte
	pending int
	fail    error
}

// Bus is a simulated I2C bus. It is safe for concurrent use.
type Bus struct {
	mu    sync.Mutex
	chips map[uint16]*chip
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{chips: make(map[uint16]*chip)}
}

// Add attaches a chip of the given kind at addr with factory defaults.
func (b *Bus) Add(addr uint16, kind string) {
	st := State{
		Kind:         kind,
		Firmware:     "2.16",
		Led:          true,
		Compensation: 25,
		SlopeAcid:    100,
		SlopeBase:    100,
		ProbeK:       1,
		Scale:        'c',
		Restart:      'P',
		Vcc:          5.038,
	}
	switch kind {
	case KindPH:
		st.Value = 7
	case KindEC:
		st.Value = 1413
	case KindRTD:
		st.Value = 25
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.chips[addr] = &chip{State: st}
}

// SetValue sets the next reading of the chip at addr.
func (b *Bus) SetValue(addr uint16, v float64) {
	b.update(addr, func(c *chip) { c.Value = v })
}

// FailNext makes the next transaction with addr fail with err.
func (b *Bus) FailNext(addr uint16, err error) {
	b.update(addr, func(c *chip) { c.fail = err })
}

// PendingNext makes the next n reply reads from addr report that the chip
// is still processing.
func (b *Bus) PendingNext(addr uint16, n int) {
	b.update(addr, func(c *chip) { c.pending = n })
}

// State returns a snapshot of the chip at addr.
func (b *Bus) State(addr uint16) (State, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.chips[addr]
	if !ok {
		return State{}, false
	}
	return c.State, true
}

// Addresses returns the addresses of attached chips in ascending order.
func (b *Bus) Addresses() []uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	addrs := make([]uint16, 0, len(b.chips))
	for addr := range b.chips {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	return addrs
}

func (b *Bus) update(addr uint16, fn func(*chip)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.chips[addr]; ok {
		fn(c)
	}
}

// Tx implements drivers.I2C. A write is a command, a read fetches the reply
// of the last command.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.chips[addr]
	if !ok {
		return fmt.Errorf("%w 0x%02x", ErrNoDevice, addr)
	}
	if c.fail != nil {
		err := c.fail
		c.fail = nil
		return err
	}

	if len(w) > 0 {
		c.command(string(w))
	}
	if len(r) > 0 {
		c.read(r)
	}
	return nil
}

func (c *chip) read(r []byte) {
	for i := range r {
		r[i] = 0
	}
	switch {
	case c.pending > 0:
		c.pending--
		r[0] = ezo.StatusPending
	case c.reply == nil:
		r[0] = ezo.StatusNoData
	default:
		copy(r, c.reply)
		c.reply = nil
	}
}

func (c *chip) ok(data string) {
	c.reply = append([]byte{ezo.StatusOK}, data...)
}

func (c *chip) syntax() {
	c.reply = []byte{ezo.StatusSyntax}
}

func (c *chip) command(cmd string) {
	c.Sleeping = false
	parts := strings.Split(cmd, ",")
	name := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case name == "r" && len(args) == 0:
		c.ok(c.reading())
	case name == "sleep" && len(args) == 0:
		c.Sleeping = true
		c.reply = nil
	case name == "find" && len(args) == 0:
		c.ok("")
	case name == "i" && len(args) == 0:
		c.ok("?I," + c.Kind + "," + c.Firmware)
	case name == "status" && len(args) == 0:
		c.ok(fmt.Sprintf("?Status,%c,%.3f", c.Restart, c.Vcc))
	case name == "l" && len(args) == 1:
		c.led(args[0])
	case name == "cal":
		c.calibrate(args)
	case name == "t" && len(args) == 1 && c.Kind != KindRTD:
		c.query(args[0], "?T,"+format(c.Compensation), &c.Compensation)
	case name == "slope" && len(args) == 1 && args[0] == "?" && c.Kind == KindPH:
		c.ok("?Slope," + format(c.SlopeAcid) + "," + format(c.SlopeBase))
	case name == "k" && len(args) == 1 && c.Kind == KindEC:
		c.query(args[0], "?K,"+format(c.ProbeK), &c.ProbeK)
	case name == "s" && len(args) == 1 && c.Kind == KindRTD:
		c.scale(strings.ToLower(args[0]))
	default:
		c.syntax()
	}
}

func (c *chip) reading() string {
	v := c.Value
	if c.Kind == KindRTD {
		switch c.Scale {
		case 'k':
			v += 273.15
		case 'f':
			v = v*9/5 + 32
		}
	}
	if c.Kind == KindEC {
		// Default EC output string: EC,TDS,S,SG.
		return format(v) + "," + format(v/2) + "," + format(v/2000) + ",1.000"
	}
	return format(v)
}

func (c *chip) led(arg string) {
	switch arg {
	case "1":
		c.Led = true
		c.ok("")
	case "0":
		c.Led = false
		c.ok("")
	case "?":
		if c.Led {
			c.ok("?L,1")
		} else {
			c.ok("?L,0")
		}
	default:
		c.syntax()
	}
}

func (c *chip) query(arg, answer string, dst *float64) {
	if arg == "?" {
		c.ok(answer)
		return
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		c.syntax()
		return
	}
	*dst = v
	c.ok("")
}

func (c *chip) scale(arg string) {
	switch arg {
	case "c", "k", "f":
		c.Scale = arg[0]
		c.ok("")
	case "?":
		c.ok("?S," + string(c.Scale))
	default:
		c.syntax()
	}
}

func (c *chip) calibrate(args []string) {
	if len(args) == 0 {
		c.syntax()
		return
	}
	switch strings.ToLower(args[0]) {
	case "?":
		c.ok(fmt.Sprintf("?CAL,%d", c.CalPoints))
		return
	case "clear":
		c.CalPoints = 0
		c.ok("")
		return
	case "dry":
		if c.Kind != KindEC || len(args) != 1 {
			c.syntax()
			return
		}
		c.ok("")
		return
	case "mid", "low", "high":
		if c.Kind == KindRTD || len(args) != 2 {
			c.syntax()
			return
		}
		if _, err := strconv.ParseFloat(args[1], 64); err != nil {
			c.syntax()
			return
		}
		if strings.EqualFold(args[0], "mid") {
			// A midpoint calibration discards the other points.
			c.CalPoints = 1
		} else if c.CalPoints < 3 {
			c.CalPoints++
		}
		c.ok("")
		return
	}

	// Single-point calibration: Cal,<value>.
	if c.Kind == KindPH || len(args) != 1 {
		c.syntax()
		return
	}
	if _, err := strconv.ParseFloat(args[0], 64); err != nil {
		c.syntax()
		return
	}
	c.CalPoints = 1
	c.ok("")
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ drivers.I2C = (*Bus)(nil)
