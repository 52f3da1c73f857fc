package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/radiolytics/nrf24decode/internal/protocol/nrf24"
)

// Tool and Version stamp the report header.
const (
	Tool    = "nRF24L01 SPI Decoder"
	Version = "0.1.0"
)

// Summary is the derived protocol configuration after a replay.
type Summary struct {
	Tool        string    `yaml:"tool"`
	Version     string    `yaml:"version"`
	GeneratedAt time.Time `yaml:"generatedAt"`
	InputFile   string    `yaml:"inputFile"`
	RunID       string    `yaml:"runId"`

	PacketFormat        string `yaml:"packetFormat"`
	DataRate            string `yaml:"dataRate"`
	CRCWidth            string `yaml:"crcWidth"`
	AddressWidth        int    `yaml:"addressWidth"`
	Channels            []int  `yaml:"possibleChannels"`
	OutputPower         string `yaml:"outputPower"`
	AutoRetransmitCount int    `yaml:"autoRetransmitCount"`
	AutoRetransmitDelay int    `yaml:"autoRetransmitDelayUs"`
	PacketsSent         int    `yaml:"packetsSent"`
	PacketsReceived     int    `yaml:"packetsReceived"`
	CloneDetected       bool   `yaml:"cloneDetected"`
}

// Build snapshots the inference queries into a Summary.
func Build(st *nrf24.State, inputFile, runID string, now time.Time) Summary {
	return Summary{
		Tool:        Tool,
		Version:     Version,
		GeneratedAt: now,
		InputFile:   inputFile,
		RunID:       runID,

		PacketFormat:        string(st.PacketFormat()),
		DataRate:            string(st.DataRate()),
		CRCWidth:            string(st.CRCMode()),
		AddressWidth:        st.AddressWidth(),
		Channels:            st.UsedChannels(),
		OutputPower:         st.OutputPower(),
		AutoRetransmitCount: st.AutoRetransmitCount(),
		AutoRetransmitDelay: st.AutoRetransmitDelay(),
		PacketsSent:         st.TxCount(),
		PacketsReceived:     st.RxCount(),
		CloneDetected:       st.BekenDetected(),
	}
}

// WriteText renders the human-readable report: a header block, the aligned
// summary rows and the full decode log.
func WriteText(w io.Writer, s Summary, messages []nrf24.Message) error {
	rule := strings.Repeat("-", 80)

	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n", s.Tool, s.Version)
	fmt.Fprintf(&b, "%s\n", s.GeneratedAt.Format(time.ANSIC))
	fmt.Fprintf(&b, "Input file: '%s'\n", s.InputFile)
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", s.RunID)
	}
	b.WriteString(rule + "\n")

	row := func(key, value string) {
		fmt.Fprintf(&b, "%-25s %s\n", key+":", value)
	}
	row("Packet format", s.PacketFormat)
	row("Data rate", s.DataRate)
	row("CRC width", s.CRCWidth)
	row("Address width", strconv.Itoa(s.AddressWidth))
	row("Possible channels", channelList(s.Channels))
	row("Output power", s.OutputPower)
	row("Auto retransmit count", strconv.Itoa(s.AutoRetransmitCount))
	row("Auto retransmit delay", strconv.Itoa(s.AutoRetransmitDelay))
	row("Packets sent", strconv.Itoa(s.PacketsSent))
	row("Packets received", strconv.Itoa(s.PacketsReceived))
	b.WriteString(rule + "\n")

	for _, m := range messages {
		b.WriteString(m.String())
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteYAML renders the summary for machine consumption.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s)
}

func channelList(chans []int) string {
	parts := make([]string, len(chans))
	for i, c := range chans {
		parts[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
