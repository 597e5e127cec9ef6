package interaction_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/device"
	devmocks "github.com/probenet/probenet-go/pkg/device/mocks"
	"github.com/probenet/probenet-go/pkg/interaction"
	"github.com/probenet/probenet-go/pkg/interaction/mocks"
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/sensor/ph"
	"github.com/probenet/probenet-go/pkg/transport"
)

var errBus = errors.New("bus timeout")

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name    string
		request string
		setup   func(dev *devmocks.MockDevice[ph.Command, sensor.Response])
		want    string
	}{
		{
			name:    "reading",
			request: "read",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(sensor.Reading{Value: 23.5}, nil)
			},
			want: "23.500",
		},
		{
			name:    "argument decoded permissively",
			request: "calibrate 7",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Calibrate(7)).Return(sensor.Ok{}, nil)
			},
			want: "ok",
		},
		{
			name:    "unknown verb",
			request: "frobnicate",
			want:    "error command_parse",
		},
		{
			name:    "bad number",
			request: "calibrate seven",
			want:    "error number_parse",
		},
		{
			name:    "sensor trouble",
			request: "read",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(nil, device.Trouble("R", errBus))
			},
			want: "error sensor_trouble bus timeout",
		},
		{
			name:    "pending",
			request: "status",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Status()).
					Return(nil, device.Fault(device.KindPending, "Status", device.ErrPending))
			},
			want: "error device_pending device is still processing",
		},
		{
			name:    "untyped device error",
			request: "find",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Find()).Return(nil, errBus)
			},
			want: "error sensor_trouble bus timeout",
		},
		{
			name:    "panic",
			request: "slope",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Slope()).Run(func(context.Context, ph.Command) {
					panic("nil chip")
				})
			},
			want: "error internal",
		},
		{
			name:    "nil response",
			request: "read",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(nil, nil)
			},
			want: "error internal invalid response rendering: nil response",
		},
		{
			name:    "response that does not parse back",
			request: "device_info",
			setup: func(dev *devmocks.MockDevice[ph.Command, sensor.Response]) {
				dev.EXPECT().Execute(mock.Anything, ph.DeviceInfo()).
					Return(sensor.DeviceInfo{Type: "pH", Firmware: ""}, nil)
			},
			want: "error internal invalid response rendering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
			if tt.setup != nil {
				tt.setup(dev)
			}
			rsp := interaction.NewResponder(mocks.NewMockSocket(t), &ph.Family, dev, interaction.Options{})

			got := rsp.HandleRequest(context.Background(), tt.request)
			assert.True(t, strings.HasPrefix(got, tt.want), "reply %q, want prefix %q", got, tt.want)
		})
	}
}

// script feeds Recv from a list of requests and records every Send.
type script struct {
	sock    *mocks.MockSocket
	mu      sync.Mutex
	replies []string
}

func newScript(t *testing.T, requests []string, end error) *script {
	s := &script{sock: mocks.NewMockSocket(t)}
	for _, r := range requests {
		s.sock.EXPECT().Recv().Return(r, nil).Once()
	}
	s.sock.EXPECT().Recv().Return("", end).Once()
	return s
}

func (s *script) record(err error) {
	s.sock.EXPECT().Send(mock.Anything).RunAndReturn(func(b []byte) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.replies = append(s.replies, string(b))
		return err
	})
}

func (s *script) Replies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.replies...)
}

func TestServeReplyAlways(t *testing.T) {
	closed := &transport.Error{Kind: transport.KindSocketReceive, Err: transport.ErrEndpointClosed}
	s := newScript(t, []string{"read", "sleep"}, closed)
	s.record(nil)

	dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
	dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(nil, device.Trouble("R", errBus)).Once()
	dev.EXPECT().Execute(mock.Anything, ph.Sleep()).Return(sensor.Sleeping{}, nil).Once()

	err := interaction.NewResponder(s.sock, &ph.Family, dev, interaction.Options{}).Serve(context.Background())
	assert.ErrorIs(t, err, transport.ErrEndpointClosed)

	replies := s.Replies()
	require.Len(t, replies, 2)
	assert.True(t, strings.HasPrefix(replies[0], "error sensor_trouble"))
	assert.Equal(t, "sleeping", replies[1])
}

func TestServeAnswersUndecodableRequests(t *testing.T) {
	invalid := &transport.Error{Kind: transport.KindRequestParse, Err: transport.ErrInvalidUTF8}
	closed := &transport.Error{Kind: transport.KindSocketReceive, Err: transport.ErrEndpointClosed}

	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Recv().Return("", invalid).Once()
	sock.EXPECT().Recv().Return("led_flash", nil).Once()
	sock.EXPECT().Recv().Return("", closed).Once()

	var replies []string
	sock.EXPECT().Send(mock.Anything).RunAndReturn(func(b []byte) error {
		replies = append(replies, string(b))
		return nil
	}).Times(2)

	dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
	err := interaction.NewResponder(sock, &ph.Family, dev, interaction.Options{}).Serve(context.Background())
	assert.Error(t, err)

	require.Len(t, replies, 2)
	assert.True(t, strings.HasPrefix(replies[0], "error request_parse"))
	assert.True(t, strings.HasPrefix(replies[1], "error command_parse"))
}

func TestServeContinuesAfterPeerGone(t *testing.T) {
	gone := &transport.Error{Kind: transport.KindSocketSend, Err: transport.ErrPeerGone}
	closed := &transport.Error{Kind: transport.KindSocketReceive, Err: transport.ErrEndpointClosed}
	s := newScript(t, []string{"read", "read"}, closed)
	s.record(gone)

	dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
	dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(sensor.Reading{Value: 7}, nil).Times(2)

	err := interaction.NewResponder(s.sock, &ph.Family, dev, interaction.Options{}).Serve(context.Background())
	assert.ErrorIs(t, err, transport.ErrEndpointClosed)
	assert.Len(t, s.Replies(), 2)
}

func TestServeFatalSendFailure(t *testing.T) {
	broken := &transport.Error{Kind: transport.KindSocketSend, Err: transport.ErrLockstep}
	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Recv().Return("read", nil).Once()
	sock.EXPECT().Send(mock.Anything).Return(broken).Once()

	dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
	dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(sensor.Reading{Value: 7}, nil).Once()

	err := interaction.NewResponder(sock, &ph.Family, dev, interaction.Options{}).Serve(context.Background())
	assert.ErrorIs(t, err, transport.ErrLockstep)
}

func TestServeReturnsNilWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Recv().RunAndReturn(func() (string, error) {
		cancel()
		return "", transport.ErrEndpointClosed
	}).Once()

	dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
	err := interaction.NewResponder(sock, &ph.Family, dev, interaction.Options{}).Serve(ctx)
	assert.NoError(t, err)
}

func TestServeObserver(t *testing.T) {
	closed := &transport.Error{Kind: transport.KindSocketReceive, Err: transport.ErrEndpointClosed}
	s := newScript(t, []string{"read", "bogus", "find"}, closed)
	s.record(nil)

	dev := devmocks.NewMockDevice[ph.Command, sensor.Response](t)
	dev.EXPECT().Execute(mock.Anything, ph.Read()).Return(sensor.Reading{Value: 7}, nil).Once()
	dev.EXPECT().Execute(mock.Anything, ph.Find()).Return(nil, device.Fault(device.KindDeviceError, "Find", device.ErrSyntax)).Once()

	var seen []interaction.Observation
	opts := interaction.Options{
		Observer: interaction.ObserverFunc(func(o interaction.Observation) { seen = append(seen, o) }),
	}
	_ = interaction.NewResponder(s.sock, &ph.Family, dev, opts).Serve(context.Background())

	require.Len(t, seen, 3)
	assert.Equal(t, "read", seen[0].Token)
	assert.Equal(t, interaction.OutcomeOK, seen[0].Outcome)
	assert.Equal(t, "", seen[1].Token)
	assert.Equal(t, "command_parse", seen[1].Outcome)
	assert.Equal(t, "find", seen[2].Token)
	assert.Equal(t, "device_error", seen[2].Outcome)
	for _, o := range seen {
		assert.GreaterOrEqual(t, o.Total, o.Device)
	}
}
