package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/radiolytics/nrf24decode/internal/protocol/nrf24"
)

// Reads logic-analyzer SPI exports: one comma-separated line per byte pair,
// grouped into transactions by the Packet ID column.

const colSeparator = ","

var expectedColumns = [...]string{"Time [s]", "Packet ID", "MOSI", "MISO"}

var (
	ErrColumnCount = errors.New("unexpected number of columns")
	ErrColumnName  = errors.New("unexpected column name")
)

// Open reads and groups a capture file.
func Open(path string) ([]nrf24.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a capture stream. The header line must carry the four
// expected column names. Consecutive lines sharing a Packet ID are
// concatenated byte-by-byte into one transaction, whose timestamp is the
// first line's; a changed id closes the previous transaction and the last
// one is flushed at EOF. Lines whose Packet ID is not numeric are skipped.
func Read(r io.Reader) ([]nrf24.Transaction, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("verify header: %w", io.ErrUnexpectedEOF)
	}
	if err := verifyColumns(sc.Text()); err != nil {
		return nil, err
	}

	var (
		txs     []nrf24.Transaction
		cur     nrf24.Transaction
		haveCur bool
		lineNo  = 1
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, colSeparator)
		if len(fields) != len(expectedColumns) {
			return nil, fmt.Errorf("line %d: %w: %d", lineNo, ErrColumnCount, len(fields))
		}

		id, ok := parseInt(fields[1])
		if !ok {
			continue
		}
		ts, ok := parseFloat(fields[0])
		if !ok {
			return nil, fmt.Errorf("line %d: bad timestamp %q", lineNo, fields[0])
		}
		mosi, err := parseByte(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: MOSI: %w", lineNo, err)
		}
		miso, err := parseByte(fields[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: MISO: %w", lineNo, err)
		}

		if !haveCur || int(id) != cur.ID {
			if haveCur {
				txs = append(txs, cur)
			}
			cur = nrf24.Transaction{Time: ts, ID: int(id)}
			haveCur = true
		}
		cur.MOSI = append(cur.MOSI, mosi)
		cur.MISO = append(cur.MISO, miso)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if haveCur {
		txs = append(txs, cur)
	}
	return txs, nil
}

func verifyColumns(header string) error {
	names := strings.Split(header, colSeparator)
	if len(names) != len(expectedColumns) {
		return fmt.Errorf("%w: %d", ErrColumnCount, len(names))
	}
	for i, s := range names {
		if !strings.Contains(strings.TrimSpace(s), expectedColumns[i]) {
			return fmt.Errorf("%w: expected %q but found %q", ErrColumnName, expectedColumns[i], strings.TrimSpace(s))
		}
	}
	return nil
}

// Numeric tokens may be decimal, 0x-prefixed hex, bare hex or floating
// point, tried in that order.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseInt(s, 16, 64); err == nil {
		return v, true
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	if v, ok := parseInt(s); ok {
		return float64(v), true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseByte(s string) (byte, error) {
	v, ok := parseInt(s)
	if !ok {
		return 0, fmt.Errorf("bad byte token %q", strings.TrimSpace(s))
	}
	if v < 0 || v > 0xFF {
		return 0, fmt.Errorf("byte value out of range: %d", v)
	}
	return byte(v), nil
}
