package nrf24

// Configuration inference: pure queries over the current register file.
// Nothing here is cached; the file mutates transaction by transaction and
// callers may query at any point of the replay.

// DataRate is the on-air bitrate.
type DataRate string

const (
	Rate250Kbps DataRate = "250KBPS"
	Rate1Mbps   DataRate = "1MBPS"
	Rate2Mbps   DataRate = "2MBPS"
)

// OpMode is the radio's inferred operational mode. The two standby
// sub-states cannot be told apart without CE visibility.
type OpMode string

const (
	ModePowerDown OpMode = "POWER_DOWN"
	ModeStandby   OpMode = "STANDBY"
	ModePTX       OpMode = "PTX"
	ModePRX       OpMode = "PRX"
)

// PacketFormat is the framing protocol in use.
type PacketFormat string

const (
	FormatSB     PacketFormat = "SB"
	FormatESB    PacketFormat = "ESB"
	FormatESBDPL PacketFormat = "ESB_DPL"
)

// CRCMode is the CRC configuration.
type CRCMode string

const (
	CRCOff   CRCMode = "OFF"
	CRC8Bit  CRCMode = "8BIT"
	CRC16Bit CRCMode = "16BIT"
)

// DataRate derives the bitrate from RF_SETUP.
func (s *State) DataRate() DataRate {
	switch {
	case s.Regs.Bit(RegRFSetup, bitRFDRLow):
		return Rate250Kbps
	case !s.Regs.Bit(RegRFSetup, bitRFDRHigh):
		return Rate1Mbps
	default:
		return Rate2Mbps
	}
}

// Channel returns the current RF channel.
func (s *State) Channel() int {
	return int(s.Regs.Byte(RegRFCh) & rfChannelMask)
}

// OperationalMode derives the radio mode from CONFIG and FIFO_STATUS.
func (s *State) OperationalMode() OpMode {
	if !s.Regs.Bit(RegConfig, bitPwrUp) {
		return ModePowerDown
	}
	if s.Regs.Bit(RegConfig, bitPrimRX) {
		return ModePRX
	}
	if s.Regs.Bit(RegFIFOStatus, bitTxEmpty) {
		return ModeStandby
	}
	return ModePTX
}

// PacketFormat derives the framing protocol. Clones follow the Beken BK2423
// application note; genuine parts send plain ShockBurst only with auto-ack
// off, zero retransmits and a 1Mbps or 250Kbps rate.
func (s *State) PacketFormat() PacketFormat {
	dpl := s.Regs.Bit(RegFeature, bitEnDPL)

	if s.bekenDetected {
		switch {
		case s.Regs.Byte(RegEnAA) == 0 && !dpl:
			return FormatSB
		case dpl:
			return FormatESBDPL
		default:
			return FormatESB
		}
	}

	if s.Regs.Byte(RegEnAA) == 0 && s.AutoRetransmitCount() == 0 {
		if dr := s.DataRate(); dr == Rate1Mbps || dr == Rate250Kbps {
			return FormatSB
		}
	}
	if dpl {
		return FormatESBDPL
	}
	return FormatESB
}

// CRCMode derives the CRC configuration. CRC can only be off under plain
// ShockBurst; enhanced framing forces it on.
func (s *State) CRCMode() CRCMode {
	if s.PacketFormat() == FormatSB && !s.Regs.Bit(RegConfig, bitEnCRC) {
		return CRCOff
	}
	if !s.Regs.Bit(RegConfig, bitCRC0) {
		return CRC8Bit
	}
	return CRC16Bit
}

// AddressWidth returns the configured address width in bytes (3, 4 or 5),
// or 0 for the undefined SETUP_AW value.
func (s *State) AddressWidth() int {
	switch s.Regs.Byte(RegSetupAW) & awMask {
	case 0x01:
		return 3
	case 0x02:
		return 4
	case 0x03:
		return 5
	default:
		return 0
	}
}

// UsedChannels returns every distinct RF channel observed, in first-seen
// order, starting with the reset default.
func (s *State) UsedChannels() []int {
	out := make([]int, len(s.usedChannels))
	copy(out, s.usedChannels)
	return out
}

// OutputPower maps the RF_PWR field to the nRF24L01+ output levels. The
// levels are approximate for clone parts.
func (s *State) OutputPower() string {
	switch s.Regs.Byte(RegRFSetup) & rfPowerMask >> rfPowerShift {
	case 0x00:
		return "-18dBm"
	case 0x01:
		return "-12dBm"
	case 0x02:
		return "-6dBm"
	default:
		return "0dBm"
	}
}

// AutoRetransmitCount returns the ARC field of SETUP_RETR. On a genuine
// part a non-zero value implies Enhanced ShockBurst.
func (s *State) AutoRetransmitCount() int {
	return int(s.Regs.Byte(RegSetupRetr) & arcMask)
}

// AutoRetransmitDelay returns the ARD field of SETUP_RETR in microseconds.
func (s *State) AutoRetransmitDelay() int {
	return int(s.Regs.Byte(RegSetupRetr)&ardMask>>ardShift) * ardStepMicros
}

// PipeConfig returns the pipe/address setup registers and their live
// values, in report order.
func (s *State) PipeConfig() map[string][]byte {
	out := make(map[string][]byte, len(pipeConfigRegisters))
	for _, addr := range pipeConfigRegisters {
		def := registerDefs[addr]
		val := s.Regs.Bytes(addr)
		cp := make([]byte, len(val))
		copy(cp, val)
		out[def.Name] = cp
	}
	return out
}
