package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/ezo"
)

func transact(t *testing.T, b *Bus, addr uint16, cmd string) (byte, string) {
	t.Helper()
	require.NoError(t, b.Tx(addr, []byte(cmd), nil))
	buf := make([]byte, ezo.ReplySize)
	require.NoError(t, b.Tx(addr, nil, buf))
	end := 1
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return buf[0], string(buf[1:end])
}

func TestCommands(t *testing.T) {
	b := NewBus()
	b.Add(0x63, KindPH)
	b.Add(0x64, KindEC)
	b.Add(0x66, KindRTD)

	tests := []struct {
		addr   uint16
		cmd    string
		status byte
		reply  string
	}{
		{0x63, "R", ezo.StatusOK, "7"},
		{0x63, "i", ezo.StatusOK, "?I,pH,2.16"},
		{0x63, "Status", ezo.StatusOK, "?Status,P,5.038"},
		{0x63, "L,?", ezo.StatusOK, "?L,1"},
		{0x63, "Cal,mid,7.00", ezo.StatusOK, ""},
		{0x63, "Cal,?", ezo.StatusOK, "?CAL,1"},
		{0x63, "Cal,7.00", ezo.StatusSyntax, ""},
		{0x63, "Slope,?", ezo.StatusOK, "?Slope,100,100"},
		{0x63, "T,19.5", ezo.StatusOK, ""},
		{0x63, "T,?", ezo.StatusOK, "?T,19.5"},
		{0x64, "R", ezo.StatusOK, "1413,706.5,0.7065,1.000"},
		{0x64, "Cal,dry", ezo.StatusOK, ""},
		{0x64, "K,0.1", ezo.StatusOK, ""},
		{0x64, "K,?", ezo.StatusOK, "?K,0.1"},
		{0x66, "S,f", ezo.StatusOK, ""},
		{0x66, "R", ezo.StatusOK, "77"},
		{0x66, "S,?", ezo.StatusOK, "?S,f"},
		{0x66, "T,20", ezo.StatusSyntax, ""},
		{0x66, "bogus", ezo.StatusSyntax, ""},
	}

	for _, tt := range tests {
		status, reply := transact(t, b, tt.addr, tt.cmd)
		assert.Equal(t, tt.status, status, tt.cmd)
		assert.Equal(t, tt.reply, reply, tt.cmd)
	}
}

func TestSleepLeavesNoReply(t *testing.T) {
	b := NewBus()
	b.Add(0x63, KindPH)

	status, _ := transact(t, b, 0x63, "Sleep")
	assert.Equal(t, ezo.StatusNoData, status)

	st, ok := b.State(0x63)
	require.True(t, ok)
	assert.True(t, st.Sleeping)

	// Any command wakes the chip.
	status, _ = transact(t, b, 0x63, "R")
	assert.Equal(t, ezo.StatusOK, status)
}

func TestUnknownAddress(t *testing.T) {
	b := NewBus()
	err := b.Tx(0x10, []byte("R"), nil)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestAddresses(t *testing.T) {
	b := NewBus()
	assert.Empty(t, b.Addresses())

	b.Add(0x66, KindRTD)
	b.Add(0x63, KindPH)
	assert.Equal(t, []uint16{0x63, 0x66}, b.Addresses())
}
