package nrf24

import "fmt"

// RegisterFile is the simulated register bank. Every catalog register is
// always present with exactly its defined width; it is seeded from the reset
// values and mutated only by the transaction processor.
type RegisterFile struct {
	regs map[byte][]byte
}

func newRegisterFile() *RegisterFile {
	rf := &RegisterFile{regs: make(map[byte][]byte, len(registerDefs))}
	rf.reset()
	return rf
}

func (rf *RegisterFile) reset() {
	for addr, def := range registerDefs {
		cur, ok := rf.regs[addr]
		if !ok {
			cur = make([]byte, def.Width())
			rf.regs[addr] = cur
		}
		copy(cur, def.Reset)
	}
}

// Bytes returns the live value of a register. The returned slice aliases the
// register file; callers must not modify it.
func (rf *RegisterFile) Bytes(addr byte) []byte {
	val, ok := rf.regs[addr]
	if !ok {
		panic(fmt.Sprintf("nrf24: register 0x%02X not in catalog", addr))
	}
	return val
}

// Byte returns the value of a single-byte register. Calling it on a
// multi-byte register is a programming error.
func (rf *RegisterFile) Byte(addr byte) byte {
	val := rf.Bytes(addr)
	if len(val) != 1 {
		panic(fmt.Sprintf("nrf24: ambiguous single-byte read of %d-byte register 0x%02X", len(val), addr))
	}
	return val[0]
}

// Bit reports whether one bit of a single-byte register is set.
func (rf *RegisterFile) Bit(addr byte, bit uint) bool {
	return rf.Byte(addr)>>bit&1 == 1
}

func (rf *RegisterFile) setBit(addr byte, bit uint) {
	val := rf.Bytes(addr)
	if len(val) != 1 {
		panic(fmt.Sprintf("nrf24: ambiguous bit write on register 0x%02X", addr))
	}
	val[0] |= 1 << bit
}

func (rf *RegisterFile) clearBit(addr byte, bit uint) {
	val := rf.Bytes(addr)
	if len(val) != 1 {
		panic(fmt.Sprintf("nrf24: ambiguous bit write on register 0x%02X", addr))
	}
	val[0] &^= 1 << bit
}

// State is everything one replay session accumulates: the register file,
// the decode log, packet counters, channel history, inter-payload timing
// anchors and the two clone quirk flags.
type State struct {
	Regs     *RegisterFile
	Messages []Message

	usedChannels []int

	txCount int
	rxCount int

	lastTxAt  float64
	haveTxAt  bool
	lastRxAt  float64
	haveRxAt  bool

	bekenDetected    bool
	bankSwitchActive bool
}

// NewState returns a replay state at reset values.
func NewState() *State {
	s := &State{Regs: newRegisterFile()}
	s.resetDerived()
	return s
}

// Reset returns the state to its initial condition in place. The register
// file keeps its storage.
func (s *State) Reset() {
	s.Regs.reset()
	s.resetDerived()
}

func (s *State) resetDerived() {
	s.Messages = s.Messages[:0]
	// The reset RF_CH counts as an observed channel.
	s.usedChannels = append(s.usedChannels[:0], int(registerDefs[RegRFCh].Reset[0]))
	s.txCount = 0
	s.rxCount = 0
	s.haveTxAt = false
	s.haveRxAt = false
	s.bekenDetected = false
	s.bankSwitchActive = false
}

func (s *State) append(id int, name, payload string) {
	s.Messages = append(s.Messages, Message{ID: id, Name: name, Payload: payload})
}

func (s *State) noteChannel(ch int) {
	for _, c := range s.usedChannels {
		if c == ch {
			return
		}
	}
	s.usedChannels = append(s.usedChannels, ch)
}

// TxCount returns the number of W_TX_PAYLOAD / W_TX_PAYLOAD_NO_ACK commands
// seen so far.
func (s *State) TxCount() int { return s.txCount }

// RxCount returns the number of R_RX_PAYLOAD commands seen so far.
func (s *State) RxCount() int { return s.rxCount }

// BekenDetected reports whether the capture shows clone-only commands.
func (s *State) BekenDetected() bool { return s.bekenDetected }

// BankSwitchActive reports whether the clone's alternate register bank is
// currently selected.
func (s *State) BankSwitchActive() bool { return s.bankSwitchActive }
