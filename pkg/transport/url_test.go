package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		in   string
		want URL
	}{
		{"tcp://127.0.0.1:5555", URL{SchemeTCP, "127.0.0.1:5555"}},
		{"tcp://*:5555", URL{SchemeTCP, "*:5555"}},
		{"tcp://[::1]:0", URL{SchemeTCP, "[::1]:0"}},
		{"ipc:///tmp/probe.sock", URL{SchemeIPC, "/tmp/probe.sock"}},
		{"inproc://test", URL{SchemeInproc, "test"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseURLRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"localhost:5555",
		"tcp://",
		"tcp://localhost",
		"tcp://:5555",
		"tcp://localhost:http",
		"tcp://localhost:70000",
		"udp://localhost:5555",
		"inproc://bad\x00name",
		"not a url",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseURL(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadURL)
			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, KindAddressParse, kind)
		})
	}
}

func TestURLNetwork(t *testing.T) {
	network, addr := MustParseURL("tcp://*:5555").network()
	assert.Equal(t, "tcp", network)
	assert.Equal(t, ":5555", addr)

	network, addr = MustParseURL("ipc:///run/probe.sock").network()
	assert.Equal(t, "unix", network)
	assert.Equal(t, "/run/probe.sock", addr)
}

func TestMustParseURLPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseURL("bogus") })
}
