package ezo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tinygo.org/x/drivers"

	"github.com/probenet/probenet-go/pkg/device"
)

// ReplySize is the number of bytes read for every reply, status byte
// included.
const ReplySize = 32

// Reply status codes.
const (
	StatusOK      byte = 1
	StatusSyntax  byte = 2
	StatusPending byte = 254
	StatusNoData  byte = 255
)

// Processing delays from the EZO datasheets.
const (
	DelayShort = 300 * time.Millisecond
	DelayLong  = 900 * time.Millisecond
	DelayRead  = 600 * time.Millisecond
)

// SettleFunc waits for the chip to process a command.
type SettleFunc func(ctx context.Context, d time.Duration) error

// Chip is one EZO chip on a bus.
type Chip struct {
	bus  drivers.I2C
	addr uint16

	// Settle waits between the command write and the reply read.
	// Defaults to Wait.
	Settle SettleFunc
}

// NewChip binds a chip at the given 7-bit address.
func NewChip(bus drivers.I2C, addr uint16) *Chip {
	return &Chip{bus: bus, addr: addr, Settle: Wait}
}

// Address returns the chip's I2C address.
func (c *Chip) Address() uint16 { return c.addr }

// Run writes cmd, waits delay and returns the chip's ASCII reply.
func (c *Chip) Run(ctx context.Context, cmd string, delay time.Duration) (string, error) {
	if err := c.write(cmd); err != nil {
		return "", err
	}

	settle := c.Settle
	if settle == nil {
		settle = Wait
	}
	if err := settle(ctx, delay); err != nil {
		return "", device.Trouble(cmd, err)
	}

	var buf [ReplySize]byte
	if err := c.bus.Tx(c.addr, nil, buf[:]); err != nil {
		return "", device.Trouble(cmd, fmt.Errorf("read 0x%02x: %w", c.addr, err))
	}
	return decodeReply(cmd, buf[:])
}

// Send writes cmd without reading a reply. Sleep is the only command that
// needs it: a sleeping chip does not answer.
func (c *Chip) Send(ctx context.Context, cmd string) error {
	if err := ctx.Err(); err != nil {
		return device.Trouble(cmd, err)
	}
	return c.write(cmd)
}

// Identify returns the chip's device type and firmware version.
func (c *Chip) Identify(ctx context.Context) (typ, firmware string, err error) {
	fields, err := c.Query(ctx, "i", "?I", 2)
	if err != nil {
		return "", "", err
	}
	for _, f := range fields[:2] {
		if f == "" || strings.ContainsAny(f, " \t") {
			return "", "", device.Trouble("i", fmt.Errorf("%w: identity field %q", device.ErrMalformed, f))
		}
	}
	return fields[0], fields[1], nil
}

func (c *Chip) write(cmd string) error {
	if err := c.bus.Tx(c.addr, []byte(cmd), nil); err != nil {
		return device.Trouble(cmd, fmt.Errorf("write 0x%02x: %w", c.addr, err))
	}
	return nil
}

func decodeReply(op string, buf []byte) (string, error) {
	switch buf[0] {
	case StatusOK:
	case StatusSyntax:
		return "", device.Fault(device.KindDeviceError, op, device.ErrSyntax)
	case StatusPending:
		return "", device.Fault(device.KindPending, op, device.ErrPending)
	case StatusNoData:
		return "", device.Fault(device.KindNoData, op, device.ErrNoData)
	default:
		return "", device.Trouble(op, fmt.Errorf("%w: status byte %d", device.ErrMalformed, buf[0]))
	}

	data := buf[1:]
	for i, b := range data {
		if b == 0 {
			data = data[:i]
			break
		}
		if b < 0x20 || b > 0x7e {
			return "", device.Trouble(op, fmt.Errorf("%w: byte 0x%02x at %d", device.ErrMalformed, b, i+1))
		}
	}
	return strings.TrimSpace(string(data)), nil
}

// Wait waits for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay skips processing delays. It suits simulated buses.
func NoDelay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
