package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/radiolytics/nrf24decode/internal/protocol/nrf24"
)

func sampleState(t *testing.T) *nrf24.State {
	t.Helper()
	d := nrf24.NewDecoder(nil, nil)
	txs := []nrf24.Transaction{
		{ID: 1, Time: 0.1, MOSI: []byte{0x25, 0x08}, MISO: []byte{0x0E, 0x00}}, // RF_CH = 8
		{ID: 2, Time: 1.0, MOSI: []byte{0xA0, 0x45}, MISO: []byte{0x0E, 0x00}},
		{ID: 3, Time: 1.5, MOSI: []byte{0xA0, 0x46}, MISO: []byte{0x0E, 0x00}},
	}
	require.NoError(t, d.Run(txs))
	return d.State()
}

func TestBuild(t *testing.T) {
	st := sampleState(t)
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	s := Build(st, "trace.csv", "run-1", now)

	require.Equal(t, Tool, s.Tool)
	require.Equal(t, "trace.csv", s.InputFile)
	require.Equal(t, "run-1", s.RunID)
	require.Equal(t, "ESB", s.PacketFormat)
	require.Equal(t, "2MBPS", s.DataRate)
	require.Equal(t, []int{2, 8}, s.Channels)
	require.Equal(t, 5, s.AddressWidth)
	require.Equal(t, 2, s.PacketsSent)
	require.Equal(t, 0, s.PacketsReceived)
	require.Equal(t, 3, s.AutoRetransmitCount)
	require.False(t, s.CloneDetected)
}

func TestWriteText(t *testing.T) {
	st := sampleState(t)
	s := Build(st, "trace.csv", "run-1", time.Now())

	var b strings.Builder
	require.NoError(t, WriteText(&b, s, st.Messages))
	out := b.String()

	require.Contains(t, out, Tool+" v"+Version)
	require.Contains(t, out, "Input file: 'trace.csv'")
	require.Contains(t, out, strings.Repeat("-", 80))
	require.Contains(t, out, "Packet format:            ESB")
	require.Contains(t, out, "Data rate:                2MBPS")
	require.Contains(t, out, "Possible channels:        [2, 8]")
	require.Contains(t, out, "Packets sent:             2")
	require.Contains(t, out, "0002:W_TX_PAYLOAD:            0x45")
	require.Contains(t, out, "0003:W_TX_PAYLOAD(delta:0.5000s):0x46")
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	st := sampleState(t)
	s := Build(st, "trace.csv", "run-1", time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC))

	var b strings.Builder
	require.NoError(t, WriteYAML(&b, s))

	var back Summary
	require.NoError(t, yaml.Unmarshal([]byte(b.String()), &back))
	require.Equal(t, s.PacketFormat, back.PacketFormat)
	require.Equal(t, s.Channels, back.Channels)
	require.Equal(t, s.PacketsSent, back.PacketsSent)
	require.Equal(t, s.RunID, back.RunID)
}
