package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const header = "Time [s], Packet ID, MOSI, MISO\n"

func TestReadGroupsByPacketID(t *testing.T) {
	in := header +
		"0.000002166666667,0,0x07,0x0E\n" +
		"0.000037833333333,0,0x00,0x0E\n" +
		"0.001,1,0x25,0x0E\n" +
		"0.0012,1,0x4B,0x00\n" +
		"0.002,2,0xFF,0x0E\n"

	txs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	require.Equal(t, 0, txs[0].ID)
	require.InDelta(t, 0.000002166666667, txs[0].Time, 1e-15)
	require.Equal(t, []byte{0x07, 0x00}, txs[0].MOSI)
	require.Equal(t, []byte{0x0E, 0x0E}, txs[0].MISO)

	require.Equal(t, 1, txs[1].ID)
	require.Equal(t, []byte{0x25, 0x4B}, txs[1].MOSI)

	// The terminal transaction is flushed at EOF.
	require.Equal(t, 2, txs[2].ID)
	require.Equal(t, []byte{0xFF}, txs[2].MOSI)
}

func TestReadNumericForms(t *testing.T) {
	in := header +
		"0.5,0,0x0A,14\n" + // hex and decimal bytes
		"1,0,255,0xE7\n" // integer timestamp line continues packet 0

	txs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, []byte{0x0A, 0xFF}, txs[0].MOSI)
	require.Equal(t, []byte{14, 0xE7}, txs[0].MISO)
	require.Equal(t, 0.5, txs[0].Time)
}

func TestReadSkipsNonNumericID(t *testing.T) {
	in := header +
		"0.1,0,0x07,0x0E\n" +
		"0.2,n/a,0x00,0x00\n" +
		"0.3,0,0x00,0x0E\n"

	txs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, []byte{0x07, 0x00}, txs[0].MOSI)
}

func TestReadHeaderValidation(t *testing.T) {
	_, err := Read(strings.NewReader("Time [s], Packet ID, MOSI\n"))
	require.ErrorIs(t, err, ErrColumnCount)

	_, err = Read(strings.NewReader("Time [s], Packet ID, MISO, MOSI\n"))
	require.ErrorIs(t, err, ErrColumnName)

	// Decorated column names are accepted as long as they contain the
	// expected text.
	_, err = Read(strings.NewReader("Time [s] abs, Packet ID #, MOSI hex, MISO hex\n"))
	require.NoError(t, err)
}

func TestReadRejectsBadBytes(t *testing.T) {
	_, err := Read(strings.NewReader(header + "0.1,0,0x1FF,0x00\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")

	_, err = Read(strings.NewReader(header + "0.1,0,??,0x00\n"))
	require.Error(t, err)
}

func TestReadRejectsShortLines(t *testing.T) {
	_, err := Read(strings.NewReader(header + "0.1,0,0x00\n"))
	require.ErrorIs(t, err, ErrColumnCount)
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)

	txs, err := Read(strings.NewReader(header))
	require.NoError(t, err)
	require.Empty(t, txs)
}
