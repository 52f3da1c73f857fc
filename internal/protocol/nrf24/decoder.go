package nrf24

import (
	"fmt"

	"go.uber.org/zap"
)

// Transaction is one captured SPI exchange: the MOSI bytes (opcode plus
// payload) and the simultaneously clocked MISO bytes (status plus payload).
// ID is the capture's transaction sequence number, used for log annotation.
type Transaction struct {
	Time float64
	ID   int
	MOSI []byte
	MISO []byte
}

// Metrics receives per-transaction decode observations. All methods may be
// called with high frequency; implementations must be cheap.
type Metrics interface {
	ObserveCommand(name string)
	ObserveIgnored(reason string)
	ObserveError(kind string)
	ObserveTxPayload()
	ObserveRxPayload()
}

// Decoder replays a captured transaction stream against a simulated
// register file. It owns its State exclusively while a replay runs;
// inference queries are valid for the prefix processed so far.
type Decoder struct {
	st  *State
	log *zap.Logger
	m   Metrics
}

// NewDecoder returns a decoder with a freshly reset state. logger and m may
// be nil.
func NewDecoder(logger *zap.Logger, m Metrics) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{st: NewState(), log: logger, m: m}
}

// State exposes the replay state for inference queries and log rendering.
func (d *Decoder) State() *State { return d.st }

// Reset reinitializes the replay state in place.
func (d *Decoder) Reset() { d.st.Reset() }

// Run replays a complete capture in order. It stops at the first hard
// decode error; soft per-transaction errors are logged and skipped.
func (d *Decoder) Run(txs []Transaction) error {
	for _, tx := range txs {
		if err := d.Apply(tx); err != nil {
			return fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
	}
	return nil
}

// Apply processes a single transaction. A MOSI/MISO payload length mismatch
// or an invalid payload length is a soft error (logged, transaction
// skipped). An opcode no classification rule matches is a hard error.
func (d *Decoder) Apply(tx Transaction) error {
	if len(tx.MOSI) == 0 || len(tx.MISO) == 0 {
		d.log.Error("empty transaction", zap.Int("id", tx.ID))
		d.observeError("empty")
		return nil
	}

	opcode := tx.MOSI[0]
	mosi := tx.MOSI[1:]
	status := tx.MISO[0]
	miso := tx.MISO[1:]

	if len(mosi) != len(miso) {
		d.log.Error("MISO and MOSI data lengths do not match",
			zap.Int("id", tx.ID), zap.Int("mosi", len(mosi)), zap.Int("miso", len(miso)))
		d.observeError("length_mismatch")
		return nil
	}

	def, idx, err := Classify(opcode)
	if err != nil {
		d.observeError("unknown_opcode")
		return err
	}

	// STATUS is clocked out on every transaction regardless of command, so
	// the live register tracks the observed byte before dispatch.
	d.st.Regs.Bytes(RegStatus)[0] = status

	if len(mosi) < def.MinLen || len(mosi) > def.MaxLen {
		d.log.Error("invalid data length for command",
			zap.Int("id", tx.ID), zap.String("cmd", def.Name), zap.Int("len", len(mosi)))
		d.observeError("invalid_length")
		return nil
	}

	if d.m != nil {
		d.m.ObserveCommand(def.Name)
	}

	switch def.Kind {
	case CmdRRegister:
		d.rRegister(tx, idx, miso)
	case CmdWRegister:
		d.wRegister(tx, idx, mosi)
	case CmdRRxPayload:
		d.rRxPayload(tx, miso)
	case CmdWTxPayload:
		d.wTxPayload(tx, mosi, true)
	case CmdWTxPayloadNoAck:
		d.wTxPayload(tx, mosi, false)
	case CmdFlushTx:
		d.flushTx(tx, mosi)
	case CmdFlushRx:
		d.flushRx(tx, mosi)
	case CmdReuseTxPl:
		d.reuseTxPl(tx)
	case CmdActivate:
		d.activate(tx, mosi)
	case CmdRRxPlWid:
		d.st.append(tx.ID, "R_RX_PL_WID", formatBytes(miso))
	case CmdWAckPayload:
		d.st.append(tx.ID, "W_ACK_PAYLOAD", formatBytes(mosi))
	case CmdNop:
		d.st.append(tx.ID, "NOP", "")
	}
	return nil
}

// registerTarget range-checks a packed register index against the catalog.
// Out-of-range and catalog-gap indices produce an in-stream error entry.
func (d *Decoder) registerTarget(tx Transaction, cmdName string, idx int) (RegisterDef, bool) {
	if idx > rwRegisterMaxIndex {
		d.st.append(tx.ID,
			fmt.Sprintf("[ERROR: Invalid index found in %s command byte: %d]", cmdName, idx), "")
		d.observeError("invalid_index")
		return RegisterDef{}, false
	}
	def, ok := LookupRegister(byte(idx))
	if !ok {
		d.st.append(tx.ID,
			fmt.Sprintf("[ERROR: Invalid index found in %s command byte: %d]", cmdName, idx), "")
		d.observeError("invalid_index")
		return RegisterDef{}, false
	}
	return def, true
}

func (d *Decoder) rRegister(tx Transaction, idx int, miso []byte) {
	reg, ok := d.registerTarget(tx, "R_REGISTER", idx)
	if !ok {
		return
	}

	// Clone devices reach a vendor-specific register bank through ACTIVATE;
	// traffic against that bank is recorded but not replayed.
	if d.st.bankSwitchActive {
		d.st.append(tx.ID, "[IGNORED: BEKEN-SPECIFIC COMMAND]R_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, miso))
		d.observeIgnored("beken_bank")
		return
	}

	if len(miso) != reg.Width() {
		d.st.append(tx.ID, "[IGNORED: INVALID DATA LEN]R_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, miso))
		d.observeIgnored("invalid_data_len")
		return
	}

	// The capture shows what the device actually drove out, so the state is
	// refreshed from the observed response.
	copy(d.st.Regs.Bytes(reg.Addr), miso)
	d.st.append(tx.ID, "R_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, miso))
}

func (d *Decoder) wRegister(tx Transaction, idx int, mosi []byte) {
	reg, ok := d.registerTarget(tx, "W_REGISTER", idx)
	if !ok {
		return
	}

	if d.st.bankSwitchActive {
		d.st.append(tx.ID, "[IGNORED: BEKEN-SPECIFIC COMMAND]W_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, mosi))
		d.observeIgnored("beken_bank")
		return
	}

	// Configuration writes are only executed in POWER_DOWN or STANDBY.
	if op := d.st.OperationalMode(); op != ModePowerDown && op != ModeStandby {
		d.st.append(tx.ID, "[IGNORED: INVALID OPERATIONAL MODE]W_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, mosi))
		d.observeIgnored("invalid_op_mode")
		return
	}

	if len(mosi) != reg.Width() {
		d.st.append(tx.ID, "[IGNORED: INVALID DATA LEN]W_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, mosi))
		d.observeIgnored("invalid_data_len")
		return
	}

	cur := d.st.Regs.Bytes(reg.Addr)
	for i, data := range mosi {
		if reg.Addr == RegStatus {
			// STATUS is written to acknowledge events: RX_DR, TX_DS and
			// MAX_RT clear on a written 1, everything else is untouched.
			for _, w1c := range statusW1CMasks {
				if data&w1c != 0 {
					cur[i] &^= w1c
				}
			}
			continue
		}
		cur[i] = cur[i]&^reg.Mask | data&reg.Mask
	}

	if reg.Addr == RegRFCh {
		d.st.noteChannel(int(mosi[len(mosi)-1]))
	}

	d.st.append(tx.ID, "W_REGISTER("+reg.Name+")", fieldBytes(reg.Addr, mosi))
}

func (d *Decoder) rRxPayload(tx Transaction, miso []byte) {
	d.st.rxCount++
	if d.m != nil {
		d.m.ObserveRxPayload()
	}

	name := "R_RX_PAYLOAD"
	if d.st.haveRxAt {
		name = fmt.Sprintf("R_RX_PAYLOAD(delta:%.4fs)", tx.Time-d.st.lastRxAt)
	}
	d.st.lastRxAt = tx.Time
	d.st.haveRxAt = true

	d.st.append(tx.ID, name, formatBytes(miso))
}

// wTxPayload handles both TX payload commands. They share one timing anchor
// since they are protocol-equivalent for spacing purposes; only the ack
// variant clears the FIFO reuse flag.
func (d *Decoder) wTxPayload(tx Transaction, mosi []byte, ack bool) {
	base := "W_TX_PAYLOAD"
	if ack {
		d.st.Regs.clearBit(RegFIFOStatus, bitTxReuse)
	} else {
		base = "W_TX_PAYLOAD_NO_ACK"
	}
	d.st.txCount++
	if d.m != nil {
		d.m.ObserveTxPayload()
	}

	name := base
	if d.st.haveTxAt {
		name = fmt.Sprintf("%s(delta:%.4fs)", base, tx.Time-d.st.lastTxAt)
	}
	d.st.lastTxAt = tx.Time
	d.st.haveTxAt = true

	d.st.append(tx.ID, name, formatBytes(mosi))
}

func (d *Decoder) flushTx(tx Transaction, mosi []byte) {
	d.st.Regs.clearBit(RegFIFOStatus, bitTxReuse)
	d.st.Regs.clearBit(RegFIFOStatus, bitFIFOTxFull)
	d.st.Regs.clearBit(RegStatus, bitStatusTxFull)
	if len(mosi) == 0 {
		d.st.append(tx.ID, "FLUSH_TX", "")
	} else {
		d.st.append(tx.ID, "FLUSH_TX", formatBytes(mosi))
	}
}

func (d *Decoder) flushRx(tx Transaction, mosi []byte) {
	d.st.Regs.clearBit(RegFIFOStatus, bitRxFull)
	d.st.Regs.clearBit(RegStatus, bitRxFull)
	if len(mosi) == 0 {
		d.st.append(tx.ID, "FLUSH_RX", "")
	} else {
		d.st.append(tx.ID, "FLUSH_RX", formatBytes(mosi))
	}
}

func (d *Decoder) reuseTxPl(tx Transaction) {
	d.st.Regs.setBit(RegFIFOStatus, bitTxReuse)
	d.st.append(tx.ID, "REUSE_TX_PL", "")
}

// activate marks the session as a clone and, for the bank-switch magic
// payload, toggles the alternate bank. The flag flips before the entry is
// appended; ACTIVATE itself is always recorded as ignored.
func (d *Decoder) activate(tx Transaction, mosi []byte) {
	if mosi[0] == bekenBankSwitchData {
		d.st.bankSwitchActive = !d.st.bankSwitchActive
	}
	d.st.bekenDetected = true
	d.st.append(tx.ID, "[IGNORED: BEKEN-SPECIFIC COMMAND]ACTIVATE", formatBytes(mosi))
	d.observeIgnored("beken_activate")
}

func (d *Decoder) observeIgnored(reason string) {
	if d.m != nil {
		d.m.ObserveIgnored(reason)
	}
}

func (d *Decoder) observeError(kind string) {
	if d.m != nil {
		d.m.ObserveError(kind)
	}
}
