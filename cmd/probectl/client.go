package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/probenet/probenet-go/pkg/interaction"
	"github.com/probenet/probenet-go/pkg/log"
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/sensor/ec"
	"github.com/probenet/probenet-go/pkg/sensor/ph"
	"github.com/probenet/probenet-go/pkg/sensor/rtd"
	"github.com/probenet/probenet-go/pkg/transport"
)

// client is a family-erased requester: commands and replies are text.
type client struct {
	family string
	tokens []string
	call   func(ctx context.Context, line string) (string, error)
	ep     *transport.Endpoint
}

func newClient(family string, ep *transport.Endpoint, capture log.Logger, logger *slog.Logger) (*client, error) {
	o := interaction.Options{ProtocolLogger: capture, Logger: logger}
	switch family {
	case sensor.FamilyPH:
		return wrap(&ph.Family, ep, o), nil
	case sensor.FamilyEC:
		return wrap(&ec.Family, ep, o), nil
	case sensor.FamilyRTD:
		return wrap(&rtd.Family, ep, o), nil
	}
	return nil, fmt.Errorf("unknown family %q (want one of %v)", family, sensor.Families())
}

func wrap[C, R fmt.Stringer](fam *sensor.Family[C, R], ep *transport.Endpoint, o interaction.Options) *client {
	req := interaction.NewRequester[C, R](ep, fam, o)
	return &client{
		family: fam.Name,
		tokens: fam.Tokens,
		ep:     ep,
		call: func(ctx context.Context, line string) (string, error) {
			r, err := req.CallText(ctx, line)
			if err != nil {
				return "", err
			}
			return r.String(), nil
		},
	}
}

// Call sends one request line and returns the reply text.
func (c *client) Call(ctx context.Context, line string) (string, error) {
	return c.call(ctx, line)
}

// Close releases the endpoint.
func (c *client) Close() error {
	return c.ep.Close()
}
