package nrf24

import (
	"errors"
	"fmt"
)

// CmdKind enumerates every SPI command the decoder understands. The set is
// closed: dispatch switches over it exhaustively.
type CmdKind uint8

const (
	CmdRRegister CmdKind = iota
	CmdWRegister
	CmdRRxPayload
	CmdWTxPayload
	CmdWTxPayloadNoAck
	CmdFlushTx
	CmdFlushRx
	CmdReuseTxPl
	CmdActivate
	CmdRRxPlWid
	CmdWAckPayload
	CmdNop
)

// CommandDef describes one SPI command: its kind, display name and the
// inclusive bounds on its payload length (opcode byte excluded).
type CommandDef struct {
	Kind   CmdKind
	Name   string
	MinLen int
	MaxLen int
}

// Opcode masks for the two packed-index command families. The register
// family packs a 5-bit register address, the ack-payload family a 3-bit
// pipe number.
const (
	rwRegisterCmdMask   = 0xE0
	rwRegisterIndexMask = 0x1F
	rwRegisterMaxIndex  = 0x1D

	wAckPayloadCmdMask   = 0xF8
	wAckPayloadBase      = 0xA8
	wAckPayloadIndexMask = 0x07
	wAckPayloadMaxIndex  = 7
)

var (
	cmdRRegister       = CommandDef{CmdRRegister, "R_REGISTER", 1, 5}
	cmdWRegister       = CommandDef{CmdWRegister, "W_REGISTER", 1, 5}
	cmdRRxPayload      = CommandDef{CmdRRxPayload, "R_RX_PAYLOAD", 1, 32}
	cmdWTxPayload      = CommandDef{CmdWTxPayload, "W_TX_PAYLOAD", 1, 32}
	cmdWTxPayloadNoAck = CommandDef{CmdWTxPayloadNoAck, "W_TX_PAYLOAD_NO_ACK", 1, 32}
	// Some devices clock an extra byte through FLUSH_TX, so its upper bound
	// is 1 rather than 0.
	cmdFlushTx     = CommandDef{CmdFlushTx, "FLUSH_TX", 0, 1}
	cmdFlushRx     = CommandDef{CmdFlushRx, "FLUSH_RX", 0, 0}
	cmdReuseTxPl   = CommandDef{CmdReuseTxPl, "REUSE_TX_PL", 0, 0}
	cmdActivate    = CommandDef{CmdActivate, "ACTIVATE", 1, 1}
	cmdRRxPlWid    = CommandDef{CmdRRxPlWid, "R_RX_PL_WID", 1, 1}
	cmdWAckPayload = CommandDef{CmdWAckPayload, "W_ACK_PAYLOAD", 1, 32}
	cmdNop         = CommandDef{CmdNop, "NOP", 0, 0}
)

// exactOpcodes covers the commands whose opcode is a full-byte match.
var exactOpcodes = map[byte]CommandDef{
	0x61: cmdRRxPayload,
	0xA0: cmdWTxPayload,
	0xB0: cmdWTxPayloadNoAck,
	0xE1: cmdFlushTx,
	0xE2: cmdFlushRx,
	0xE3: cmdReuseTxPl,
	0x50: cmdActivate,
	0x60: cmdRRxPlWid,
	0xFF: cmdNop,
}

// ErrUnknownOpcode reports an opcode no classification rule matched. It is a
// hard error: the capture does not describe this protocol.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Classify resolves an opcode byte to its command definition. The opcode
// space overlaps, so match order is significant and fixed: exact full-byte
// opcodes first, then the 3-bit pipe-index family, then the 5-bit
// register-index family. For the packed families the extracted index is
// returned; callers range-check it against the catalog. idx is -1 for
// commands without a packed index.
func Classify(opcode byte) (def CommandDef, idx int, err error) {
	if def, ok := exactOpcodes[opcode]; ok {
		return def, -1, nil
	}
	if opcode&wAckPayloadCmdMask == wAckPayloadBase {
		return cmdWAckPayload, int(opcode & wAckPayloadIndexMask), nil
	}
	switch opcode & rwRegisterCmdMask {
	case 0x00:
		return cmdRRegister, int(opcode & rwRegisterIndexMask), nil
	case 0x20:
		return cmdWRegister, int(opcode & rwRegisterIndexMask), nil
	}
	return CommandDef{}, -1, fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, opcode)
}
