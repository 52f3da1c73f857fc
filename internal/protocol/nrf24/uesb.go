package nrf24

import (
	"fmt"
	"strings"
)

// UESBConfig synthesizes nrf51 micro-esb initialization code from the final
// replay state, so the captured device can be replaced by an nRF51 running
// that stack. Deterministic in the register file and the clone quirk flags.
func (s *State) UESBConfig() string {
	var out []string

	line := func(name, value string) {
		out = append(out, fmt.Sprintf("%-43s= %s;", name, value))
	}
	lineNote := func(name, value, note string) {
		out = append(out, fmt.Sprintf("%-43s= %s; %s", name, value, note))
	}

	op := s.OperationalMode()

	if s.bekenDetected {
		out = append(out, "// NOTE: The device appears to be a Nordic clone (e.g. Beken BK2423).")
	}

	// micro-esb uses pipe 0 for TX, so a transmitting capture maps TX_ADDR
	// onto it.
	if op != ModePRX {
		lineNote("const uint8_t rx_addr_p0[]",
			formatBytes(s.Regs.Bytes(RegTxAddr)),
			"// Using TX_ADDR because mode is PTX.")
	} else {
		line("const uint8_t rx_addr_p0[]", formatBytes(s.Regs.Bytes(RegRxAddrP0)))
	}
	line("const uint8_t rx_addr_p1[]", formatBytes(s.Regs.Bytes(RegRxAddrP1)))
	out = append(out, fmt.Sprintf("%-43s", "uint32_t      uesb_err;"))
	out = append(out, "")

	line("uesb_config_t uesb_config", "UESB_DEFAULT_CONFIG")
	line("uesb_config.rf_channel", fmt.Sprintf("%d", s.Channel()))
	line("uesb_config.crc", "UESB_CRC_"+string(s.CRCMode()))

	// Static payload widths must agree across pipes unless dynamic payload
	// length framing is in use.
	minPw, maxPw := 255, 0
	for _, addr := range rxPwRegisters {
		pw := int(s.Regs.Byte(addr) & rxPwMask)
		if pw < minPw {
			minPw = pw
		}
		if pw > maxPw {
			maxPw = pw
		}
	}
	if minPw != maxPw && s.PacketFormat() != FormatESBDPL {
		out = append(out, "// ERROR: The RX_PW_PX pipes have different configurations and the mode is not ESB_DPL.")
	} else {
		line("uesb_config.payload_length", fmt.Sprintf("%d", maxPw))
	}

	line("uesb_config.protocol", "UESB_PROTOCOL_"+string(s.PacketFormat()))
	line("uesb_config.bitrate", "UESB_BITRATE_"+string(s.DataRate()))

	if op == ModePRX {
		line("uesb_config.mode", "UESB_MODE_PRX")
	} else {
		line("uesb_config.mode", "UESB_MODE_PTX")
	}

	line("uesb_config.rf_addr_length", fmt.Sprintf("%d", s.AddressWidth()))

	// The nRF51 power levels don't line up exactly with the nRF24L01+, so
	// the nearest constant is chosen.
	switch s.OutputPower() {
	case "0dBm":
		line("uesb_config.tx_output_power", "UESB_TX_POWER_0DBM")
	case "-6dBm":
		line("uesb_config.tx_output_power", "UESB_TX_POWER_NEG4DBM")
	case "-12dBm":
		line("uesb_config.tx_output_power", "UESB_TX_POWER_NEG12DBM")
	case "-18dBm":
		line("uesb_config.tx_output_power", "UESB_TX_POWER_NEG16DBM")
	}

	line("uesb_config.rx_address_p2", formatBytes(s.Regs.Bytes(RegRxAddrP2)))
	line("uesb_config.rx_address_p3", formatBytes(s.Regs.Bytes(RegRxAddrP3)))
	line("uesb_config.rx_address_p4", formatBytes(s.Regs.Bytes(RegRxAddrP4)))
	line("uesb_config.rx_address_p5", formatBytes(s.Regs.Bytes(RegRxAddrP5)))

	if !s.bekenDetected || !s.Regs.Bit(RegFeature, bitEnDPL) {
		if s.Regs.Bit(RegFeature, bitEnDynAck) {
			line("uesb_config.dynamic_ack_enabled", "1")
		} else {
			line("uesb_config.dynamic_ack_enabled", "0")
		}
	} else {
		lineNote("uesb_config.dynamic_ack_enabled", "1",
			"// NOTE: According to Beken app note BK2423 v2")
	}

	if s.Regs.Byte(RegDynPD) == 0 {
		out = append(out, "uesb_config.dynamic_payload_length_enabled = 0; // Used in PRX mode")
	} else {
		out = append(out, "uesb_config.dynamic_payload_length_enabled = 1; // Used in PRX mode")
	}

	line("uesb_config.rx_pipes_enabled", formatBytes(s.Regs.Bytes(RegEnRxAddr)))
	line("uesb_config.retransmit_delay", fmt.Sprintf("%d", s.AutoRetransmitDelay()))
	line("uesb_config.retransmit_count", fmt.Sprintf("%d", s.AutoRetransmitCount()))
	lineNote("uesb_config.event_handler", "0", "// TODO: Set event handler")
	out = append(out, "")

	out = append(out,
		"uesb_err = uesb_init(&uesb_config);",
		"if (UESB_SUCCESS != uesb_err)",
		"{",
		"    // TODO: Handle the error.",
		"}",
		"",
		"uesb_err = uesb_set_address(UESB_ADDRESS_PIPE0, &rx_addr_p0[0]);",
		"if (UESB_SUCCESS != uesb_err)",
		"{",
		"    // TODO: Handle the error.",
		"}",
		"",
		"uesb_err = uesb_set_address(UESB_ADDRESS_PIPE1, &rx_addr_p1[0]);",
		"if (UESB_SUCCESS != uesb_err)",
		"{",
		"    // TODO: Handle the error.",
		"}",
		"")

	return strings.Join(out, "\n")
}
