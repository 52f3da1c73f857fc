package nrf24

import "testing"

// Tests mutate the register file directly: the queries are pure functions
// of its contents plus the quirk flags.

func TestDataRate(t *testing.T) {
	tests := []struct {
		rfSetup byte
		want    DataRate
	}{
		{0x20, Rate250Kbps}, // RF_DR_LOW wins
		{0x28, Rate250Kbps}, // even with RF_DR_HIGH set
		{0x00, Rate1Mbps},
		{0x08, Rate2Mbps},
	}
	s := NewState()
	for _, tt := range tests {
		s.Regs.Bytes(RegRFSetup)[0] = tt.rfSetup
		if got := s.DataRate(); got != tt.want {
			t.Errorf("RF_SETUP 0x%02X: DataRate = %s, want %s", tt.rfSetup, got, tt.want)
		}
	}
}

func TestOperationalMode(t *testing.T) {
	tests := []struct {
		config byte
		fifo   byte
		want   OpMode
	}{
		{0x00, 0x11, ModePowerDown},
		{0x02, 0x11, ModeStandby}, // TX FIFO empty
		{0x02, 0x01, ModePTX},     // TX FIFO holds data
		{0x03, 0x11, ModePRX},
		{0x03, 0x01, ModePRX}, // PRIM_RX wins over FIFO state
	}
	s := NewState()
	for _, tt := range tests {
		s.Regs.Bytes(RegConfig)[0] = tt.config
		s.Regs.Bytes(RegFIFOStatus)[0] = tt.fifo
		if got := s.OperationalMode(); got != tt.want {
			t.Errorf("CONFIG 0x%02X FIFO 0x%02X: mode = %s, want %s", tt.config, tt.fifo, got, tt.want)
		}
	}
}

func TestPacketFormat(t *testing.T) {
	tests := []struct {
		name    string
		enAA    byte
		retr    byte
		rfSetup byte
		feature byte
		beken   bool
		want    PacketFormat
	}{
		{"plain SB at 1Mbps", 0x00, 0x00, 0x00, 0x00, false, FormatSB},
		{"plain SB at 250Kbps", 0x00, 0x00, 0x20, 0x00, false, FormatSB},
		{"no SB at 2Mbps", 0x00, 0x00, 0x08, 0x00, false, FormatESB},
		{"nonzero ARC forces ESB", 0x00, 0x03, 0x00, 0x00, false, FormatESB},
		{"auto-ack forces ESB", 0x3F, 0x00, 0x00, 0x00, false, FormatESB},
		{"DPL wins over ESB", 0x3F, 0x03, 0x00, 0x04, false, FormatESBDPL},
		{"beken SB ignores ARC and rate", 0x00, 0x03, 0x08, 0x00, true, FormatSB},
		{"beken DPL", 0x00, 0x00, 0x00, 0x04, true, FormatESBDPL},
		{"beken ESB", 0x3F, 0x00, 0x00, 0x00, true, FormatESB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Regs.Bytes(RegEnAA)[0] = tt.enAA
			s.Regs.Bytes(RegSetupRetr)[0] = tt.retr
			s.Regs.Bytes(RegRFSetup)[0] = tt.rfSetup
			s.Regs.Bytes(RegFeature)[0] = tt.feature
			s.bekenDetected = tt.beken
			if got := s.PacketFormat(); got != tt.want {
				t.Fatalf("PacketFormat = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCRCMode(t *testing.T) {
	tests := []struct {
		name   string
		config byte
		sb     bool
		want   CRCMode
	}{
		{"off only under SB", 0x00, true, CRCOff},
		{"8 bit", 0x08, true, CRC8Bit},
		{"16 bit", 0x0C, true, CRC16Bit},
		{"ESB ignores EN_CRC clear", 0x00, false, CRC8Bit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Regs.Bytes(RegConfig)[0] = tt.config
			if !tt.sb {
				s.Regs.Bytes(RegEnAA)[0] = 0x3F // force enhanced framing
			} else {
				s.Regs.Bytes(RegEnAA)[0] = 0x00
				s.Regs.Bytes(RegSetupRetr)[0] = 0x00
				s.Regs.Bytes(RegRFSetup)[0] = 0x00
			}
			if got := s.CRCMode(); got != tt.want {
				t.Fatalf("CRCMode = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddressWidth(t *testing.T) {
	want := map[byte]int{0x00: 0, 0x01: 3, 0x02: 4, 0x03: 5}
	s := NewState()
	for aw, w := range want {
		s.Regs.Bytes(RegSetupAW)[0] = aw
		if got := s.AddressWidth(); got != w {
			t.Errorf("SETUP_AW 0x%02X: width = %d, want %d", aw, got, w)
		}
	}
}

func TestOutputPower(t *testing.T) {
	want := map[byte]string{0x00: "-18dBm", 0x02: "-12dBm", 0x04: "-6dBm", 0x06: "0dBm"}
	s := NewState()
	for bits, pwr := range want {
		s.Regs.Bytes(RegRFSetup)[0] = bits
		if got := s.OutputPower(); got != pwr {
			t.Errorf("RF_SETUP 0x%02X: power = %s, want %s", bits, got, pwr)
		}
	}
}

func TestAutoRetransmit(t *testing.T) {
	s := NewState()
	s.Regs.Bytes(RegSetupRetr)[0] = 0xEF
	if got := s.AutoRetransmitCount(); got != 15 {
		t.Errorf("ARC = %d, want 15", got)
	}
	if got := s.AutoRetransmitDelay(); got != 3500 {
		t.Errorf("ARD = %d, want 3500", got)
	}

	// Reset default: three retransmits, ARD field 0 so the delay is 0us.
	s.Reset()
	if got := s.AutoRetransmitCount(); got != 3 {
		t.Errorf("default ARC = %d, want 3", got)
	}
	if got := s.AutoRetransmitDelay(); got != 0 {
		t.Errorf("default ARD = %d, want 0", got)
	}
}

func TestChannelMasksHighBit(t *testing.T) {
	s := NewState()
	s.Regs.Bytes(RegRFCh)[0] = 0xFF
	if got := s.Channel(); got != 0x7F {
		t.Errorf("Channel = %d, want %d", got, 0x7F)
	}
}

func TestPipeConfigSnapshot(t *testing.T) {
	s := NewState()
	pc := s.PipeConfig()
	if len(pc) != 15 {
		t.Fatalf("PipeConfig has %d entries, want 15", len(pc))
	}
	if got := pc["TX_ADDR"]; len(got) != 5 || got[0] != 0xE7 {
		t.Fatalf("TX_ADDR = %v", got)
	}
	// A snapshot, not an alias.
	pc["RX_PW_P0"][0] = 0x20
	if got := s.Regs.Byte(RegRxPwP0); got != 0x00 {
		t.Fatalf("PipeConfig aliases the register file")
	}
}
