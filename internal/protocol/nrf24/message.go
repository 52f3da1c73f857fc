package nrf24

import (
	"fmt"
	"strings"
)

// Message is one entry of the decode log: the transaction id, the decoded
// command name (possibly wrapped with an IGNORED/ERROR annotation) and an
// optional rendered payload. Immutable once appended.
type Message struct {
	ID      int
	Name    string
	Payload string
}

// String renders the log line: a 4-digit transaction id, the command name
// and, when present, the payload in a 25-column layout.
func (m Message) String() string {
	if m.Payload == "" {
		return fmt.Sprintf("%04d:%s", m.ID, m.Name)
	}
	return fmt.Sprintf("%04d:%-25s%s", m.ID, m.Name+":", m.Payload)
}

// formatBytes renders a byte sequence as 0xNN for a single byte or
// {0xNN,...} for longer values.
func formatBytes(seq []byte) string {
	parts := make([]string, len(seq))
	for i, b := range seq {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return joinParts(parts)
}

func joinParts(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// fieldString renders one register byte as the pipe-joined names of its set
// bits, MSB first, reserved bits as R. A zero byte renders as 0x00, and
// registers without a field table render as plain hex.
func fieldString(addr byte, value byte) string {
	if _, ok := registerFields[addr]; !ok {
		return fmt.Sprintf("0x%02X", value)
	}
	var names []string
	for bit := 7; bit >= 0; bit-- {
		if value>>uint(bit)&1 == 0 {
			continue
		}
		name := FieldName(addr, uint(bit))
		if name == "" {
			name = "R"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "0x00"
	}
	return "(" + strings.Join(names, "|") + ")"
}

// fieldBytes renders a register payload byte-by-byte through fieldString.
func fieldBytes(addr byte, seq []byte) string {
	parts := make([]string, len(seq))
	for i, b := range seq {
		parts[i] = fieldString(addr, b)
	}
	return joinParts(parts)
}
