package nrf24

// Register map of the nRF24L01+ (and Beken BK24xx clones, bank 0).
// Addresses 0x18-0x1B are gaps in the map and must not resolve.
const (
	RegConfig     byte = 0x00
	RegEnAA       byte = 0x01
	RegEnRxAddr   byte = 0x02
	RegSetupAW    byte = 0x03
	RegSetupRetr  byte = 0x04
	RegRFCh       byte = 0x05
	RegRFSetup    byte = 0x06
	RegStatus     byte = 0x07
	RegObserveTX  byte = 0x08
	RegRPD        byte = 0x09
	RegRxAddrP0   byte = 0x0A
	RegRxAddrP1   byte = 0x0B
	RegRxAddrP2   byte = 0x0C
	RegRxAddrP3   byte = 0x0D
	RegRxAddrP4   byte = 0x0E
	RegRxAddrP5   byte = 0x0F
	RegTxAddr     byte = 0x10
	RegRxPwP0     byte = 0x11
	RegRxPwP1     byte = 0x12
	RegRxPwP2     byte = 0x13
	RegRxPwP3     byte = 0x14
	RegRxPwP4     byte = 0x15
	RegRxPwP5     byte = 0x16
	RegFIFOStatus byte = 0x17
	RegDynPD      byte = 0x1C
	RegFeature    byte = 0x1D
)

// Bit positions used by the replay state machine and the inference queries.
const (
	bitPrimRX = 0 // CONFIG
	bitPwrUp  = 1
	bitCRC0   = 2
	bitEnCRC  = 3

	bitRFDRHigh = 3 // RF_SETUP
	bitRFDRLow  = 5

	bitStatusTxFull = 0 // STATUS
	bitMaxRT        = 4
	bitTxDS         = 5
	bitRxDR         = 6

	bitRxEmpty    = 0 // FIFO_STATUS
	bitRxFull     = 1
	bitTxEmpty    = 4
	bitFIFOTxFull = 5
	bitTxReuse    = 6

	bitEnDynAck = 0 // FEATURE
	bitEnDPL    = 2
)

// STATUS flags with write-1-to-clear semantics.
var statusW1CMasks = [...]byte{1 << bitRxDR, 1 << bitTxDS, 1 << bitMaxRT}

const (
	arcMask       = 0x0F // SETUP_RETR low nibble
	ardMask       = 0xF0
	ardShift      = 4
	ardStepMicros = 250

	awMask = 0x03 // SETUP_AW

	rfChannelMask = 0x7F

	rfPowerMask  = 0x06 // RF_SETUP
	rfPowerShift = 1

	rxPwMask = 0x3F
)

// bekenBankSwitchData is the ACTIVATE payload that flips the clone-specific
// alternate register bank.
const bekenBankSwitchData = 0x53

// RegisterDef describes one register: address, display name, reset bytes
// (their count is the register width) and the mask of writable bits, applied
// to every byte of multi-byte registers.
type RegisterDef struct {
	Addr  byte
	Name  string
	Reset []byte
	Mask  byte
}

// Width returns the register width in bytes.
func (r RegisterDef) Width() int { return len(r.Reset) }

var registerDefs = map[byte]RegisterDef{
	RegConfig:     {RegConfig, "CONFIG", []byte{0x08}, 0x7F},
	RegEnAA:       {RegEnAA, "EN_AA", []byte{0x3F}, 0x3F},
	RegEnRxAddr:   {RegEnRxAddr, "EN_RXADDR", []byte{0x03}, 0x3F},
	RegSetupAW:    {RegSetupAW, "SETUP_AW", []byte{0x03}, 0x03},
	RegSetupRetr:  {RegSetupRetr, "SETUP_RETR", []byte{0x03}, 0xFF},
	RegRFCh:       {RegRFCh, "RF_CH", []byte{0x02}, 0x7F},
	RegRFSetup:    {RegRFSetup, "RF_SETUP", []byte{0x0E}, 0xBF},
	RegStatus:     {RegStatus, "STATUS", []byte{0x0E}, 0x70},
	RegObserveTX:  {RegObserveTX, "OBSERVE_TX", []byte{0x00}, 0x00},
	RegRPD:        {RegRPD, "RPD", []byte{0x00}, 0x00},
	RegRxAddrP0:   {RegRxAddrP0, "RX_ADDR_P0", []byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}, 0xFF},
	RegRxAddrP1:   {RegRxAddrP1, "RX_ADDR_P1", []byte{0xC2, 0xC2, 0xC2, 0xC2, 0xC2}, 0xFF},
	RegRxAddrP2:   {RegRxAddrP2, "RX_ADDR_P2", []byte{0xC3}, 0xFF},
	RegRxAddrP3:   {RegRxAddrP3, "RX_ADDR_P3", []byte{0xC4}, 0xFF},
	RegRxAddrP4:   {RegRxAddrP4, "RX_ADDR_P4", []byte{0xC5}, 0xFF},
	RegRxAddrP5:   {RegRxAddrP5, "RX_ADDR_P5", []byte{0xC6}, 0xFF},
	RegTxAddr:     {RegTxAddr, "TX_ADDR", []byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}, 0xFF},
	RegRxPwP0:     {RegRxPwP0, "RX_PW_P0", []byte{0x00}, 0x3F},
	RegRxPwP1:     {RegRxPwP1, "RX_PW_P1", []byte{0x00}, 0x3F},
	RegRxPwP2:     {RegRxPwP2, "RX_PW_P2", []byte{0x00}, 0x3F},
	RegRxPwP3:     {RegRxPwP3, "RX_PW_P3", []byte{0x00}, 0x3F},
	RegRxPwP4:     {RegRxPwP4, "RX_PW_P4", []byte{0x00}, 0x3F},
	RegRxPwP5:     {RegRxPwP5, "RX_PW_P5", []byte{0x00}, 0x3F},
	RegFIFOStatus: {RegFIFOStatus, "FIFO_STATUS", []byte{0x11}, 0x00},
	RegDynPD:      {RegDynPD, "DYNPD", []byte{0x00}, 0x3F},
	RegFeature:    {RegFeature, "FEATURE", []byte{0x00}, 0x07},
}

// registerFields names the individual bits of a register, LSB first. Empty
// strings are reserved bits; registers absent from the map render as hex.
var registerFields = map[byte][8]string{
	RegConfig:     {"PRIM_RX", "PWR_UP", "CRC0", "EN_CRC", "MASK_MAX_RT", "MASK_TX_DS", "MASK_RX_DR", ""},
	RegEnAA:       {"ENAA_P0", "ENAA_P1", "ENAA_P2", "ENAA_P3", "ENAA_P4", "ENAA_P5", "", ""},
	RegEnRxAddr:   {"ERX_P0", "ERX_P1", "ERX_P2", "ERX_P3", "ERX_P4", "ERX_P5", "", ""},
	RegSetupAW:    {"AW_0", "AW_1", "", "", "", "", "", ""},
	RegSetupRetr:  {"ARC_0", "ARC_1", "ARC_2", "ARC_3", "ARD_0", "ARD_1", "ARD_2", "ARD_3"},
	RegRFSetup:    {"", "RF_PWR_0", "RF_PWR_1", "RF_DR_HIGH", "PLL_LOCK", "RF_DR_LOW", "", "CONT_WAVE"},
	RegStatus:     {"TX_FULL", "RX_P_NO_0", "RX_P_NO_1", "RX_P_NO_2", "MAX_RT", "TX_DS", "RX_DR", ""},
	RegObserveTX:  {"ARC_CNT_0", "ARC_CNT_1", "ARC_CNT_2", "ARC_CNT_3", "PLOS_CNT_0", "PLOS_CNT_1", "PLOS_CNT_2", "PLOS_CNT_3"},
	RegRPD:        {"CD", "", "", "", "", "", "", ""},
	RegFIFOStatus: {"RX_EMPTY", "RX_FULL", "", "", "TX_EMPTY", "TX_FULL", "TX_REUSE", ""},
	RegDynPD:      {"DPL_P0", "DPL_P1", "DPL_P2", "DPL_P3", "DPL_P4", "DPL_P5", "", ""},
	RegFeature:    {"EN_DYN_ACK", "EN_ACK_PAY", "EN_DPL", "", "", "", "", ""},
}

// LookupRegister resolves a register address against the catalog.
func LookupRegister(addr byte) (RegisterDef, bool) {
	def, ok := registerDefs[addr]
	return def, ok
}

// FieldName returns the display name of one register bit, or "" for
// reserved/unnamed bits.
func FieldName(addr byte, bit uint) string {
	if bit > 7 {
		return ""
	}
	fields, ok := registerFields[addr]
	if !ok {
		return ""
	}
	return fields[bit]
}

// rxPwRegisters are the per-pipe static payload width registers, pipe order.
var rxPwRegisters = [...]byte{RegRxPwP0, RegRxPwP1, RegRxPwP2, RegRxPwP3, RegRxPwP4, RegRxPwP5}

// pipeConfigRegisters are the registers relevant to pipe/address setup, in
// the order they are reported.
var pipeConfigRegisters = [...]byte{
	RegTxAddr, RegEnRxAddr,
	RegRxAddrP0, RegRxAddrP1, RegRxAddrP2, RegRxAddrP3, RegRxAddrP4, RegRxAddrP5,
	RegRxPwP0, RegRxPwP1, RegRxPwP2, RegRxPwP3, RegRxPwP4, RegRxPwP5,
	RegDynPD,
}
