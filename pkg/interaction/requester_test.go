package interaction_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/interaction"
	"github.com/probenet/probenet-go/pkg/interaction/mocks"
	"github.com/probenet/probenet-go/pkg/sensor"
	"github.com/probenet/probenet-go/pkg/sensor/ph"
	"github.com/probenet/probenet-go/pkg/transport"
	"github.com/probenet/probenet-go/pkg/wire"
)

func newPHRequester(sock interaction.Socket) *interaction.Requester[ph.Command, sensor.Response] {
	return interaction.NewRequester(sock, &ph.Family, interaction.Options{})
}

func requireKind(t *testing.T, err error, want interaction.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := interaction.KindOf(err)
	require.True(t, ok, "not an interaction error: %v", err)
	assert.Equal(t, want, kind)
}

func TestCallRoundTrip(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Send([]byte("read")).Return(nil).Once()
	sock.EXPECT().Recv().Return("23.500", nil).Once()

	resp, err := newPHRequester(sock).Call(context.Background(), ph.Read())
	require.NoError(t, err)
	assert.Equal(t, sensor.Reading{Value: 23.5}, resp)
}

func TestCallEncodesArgument(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Send([]byte("calibrate 7.000")).Return(nil).Once()
	sock.EXPECT().Recv().Return("ok", nil).Once()

	resp, err := newPHRequester(sock).Call(context.Background(), ph.Calibrate(7))
	require.NoError(t, err)
	assert.Equal(t, sensor.Ok{}, resp)
}

func TestCallSendFailureSkipsRecv(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	sendErr := &transport.Error{Kind: transport.KindSocketSend, Err: errors.New("broken pipe")}
	sock.EXPECT().Send(mock.Anything).Return(sendErr).Once()

	_, err := newPHRequester(sock).Call(context.Background(), ph.Read())
	requireKind(t, err, interaction.KindCommandRequest)
	assert.ErrorIs(t, err, sendErr)
	sock.AssertNotCalled(t, "Recv")
}

func TestCallRecvFailure(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Send(mock.Anything).Return(nil).Once()
	sock.EXPECT().Recv().Return("", transport.ErrEndpointClosed).Once()

	_, err := newPHRequester(sock).Call(context.Background(), ph.Read())
	requireKind(t, err, interaction.KindCommandResponse)
	assert.ErrorIs(t, err, transport.ErrEndpointClosed)
}

func TestCallReplyErrors(t *testing.T) {
	tests := []struct {
		name  string
		cmd   ph.Command
		reply string
		check func(t *testing.T, err error)
	}{
		{
			name:  "failure frame",
			cmd:   ph.Read(),
			reply: "error sensor_trouble read 0x63: bus timeout",
			check: func(t *testing.T, err error) {
				kind, ok := interaction.RemoteKind(err)
				require.True(t, ok)
				assert.Equal(t, "sensor_trouble", kind)

				var re *interaction.RemoteError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, "read 0x63: bus timeout", re.Failure.Detail)
			},
		},
		{
			name:  "malformed",
			cmd:   ph.Read(),
			reply: "frobnicate",
			check: func(t *testing.T, err error) {
				kind, ok := wire.KindOf(err)
				require.True(t, ok)
				assert.Equal(t, wire.KindCommandParse, kind)
			},
		},
		{
			name:  "wrong variant",
			cmd:   ph.Read(),
			reply: "ok",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, interaction.ErrUnexpectedReply)
			},
		},
		{
			name:  "slope for status",
			cmd:   ph.Status(),
			reply: "slope 99.700 100.000",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, interaction.ErrUnexpectedReply)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sock := mocks.NewMockSocket(t)
			sock.EXPECT().Send([]byte(tt.cmd.String())).Return(nil).Once()
			sock.EXPECT().Recv().Return(tt.reply, nil).Once()

			_, err := newPHRequester(sock).Call(context.Background(), tt.cmd)
			requireKind(t, err, interaction.KindCommandReply)
			tt.check(t, err)
		})
	}
}

func TestCallReusableAfterFailure(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	sock.EXPECT().Send([]byte("read")).Return(nil).Once()
	sock.EXPECT().Recv().Return("error device_pending", nil).Once()
	sock.EXPECT().Send([]byte("sleep")).Return(nil).Once()
	sock.EXPECT().Recv().Return("sleeping", nil).Once()

	req := newPHRequester(sock)
	_, err := req.Call(context.Background(), ph.Read())
	requireKind(t, err, interaction.KindCommandReply)

	resp, err := req.Call(context.Background(), ph.Sleep())
	require.NoError(t, err)
	assert.Equal(t, sensor.Sleeping{}, resp)
}

func TestCallInProgress(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	sock.EXPECT().Send(mock.Anything).RunAndReturn(func([]byte) error {
		close(entered)
		<-release
		return nil
	}).Once()
	sock.EXPECT().Recv().Return("7.000", nil).Once()

	req := newPHRequester(sock)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := req.Call(context.Background(), ph.Read())
		assert.NoError(t, err)
	}()

	<-entered
	_, err := req.Call(context.Background(), ph.Read())
	requireKind(t, err, interaction.KindCommandRequest)
	assert.ErrorIs(t, err, interaction.ErrCallInProgress)

	close(release)
	wg.Wait()
}

func TestCallCancelledContext(t *testing.T) {
	sock := mocks.NewMockSocket(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPHRequester(sock).Call(ctx, ph.Read())
	requireKind(t, err, interaction.KindCommandRequest)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallTextParseError(t *testing.T) {
	sock := mocks.NewMockSocket(t)

	_, err := newPHRequester(sock).CallText(context.Background(), "calibrate seven")
	requireKind(t, err, interaction.KindCommandRequest)
	kind, ok := wire.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, wire.KindNumberParse, kind)
}

// resettable is a mock socket that reports itself stale once.
type resettable struct {
	*mocks.MockSocket
	stale  bool
	resets int
}

func (r *resettable) Stale() bool { return r.stale }

func (r *resettable) Reset(context.Context) error {
	r.resets++
	r.stale = false
	return nil
}

func TestCallResetsStaleSocket(t *testing.T) {
	sock := &resettable{MockSocket: mocks.NewMockSocket(t), stale: true}
	sock.EXPECT().Send([]byte("find")).Return(nil).Once()
	sock.EXPECT().Recv().Return("ok", nil).Once()

	_, err := newPHRequester(sock).Call(context.Background(), ph.Find())
	require.NoError(t, err)
	assert.Equal(t, 1, sock.resets)
}
