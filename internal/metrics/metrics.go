package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a dedicated Prometheus registry with the standard
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes the registry over HTTP.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// DecoderMetrics are the replay counters. It satisfies the decoder's
// Metrics interface.
type DecoderMetrics struct {
	CommandTotal *prometheus.CounterVec // labels: cmd
	IgnoredTotal *prometheus.CounterVec // labels: reason
	ErrorTotal   *prometheus.CounterVec // labels: kind
	TxPayloads   prometheus.Counter
	RxPayloads   prometheus.Counter
}

// NewDecoderMetrics registers and returns the replay counters.
func NewDecoderMetrics(reg *prometheus.Registry) *DecoderMetrics {
	m := &DecoderMetrics{
		CommandTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spi_command_total",
			Help: "Dispatched SPI commands by name.",
		}, []string{"cmd"}),
		IgnoredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spi_ignored_total",
			Help: "Transactions recorded but not replayed, by reason.",
		}, []string{"reason"}),
		ErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spi_error_total",
			Help: "Transaction decode errors by kind.",
		}, []string{"kind"}),
		TxPayloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spi_tx_payload_total",
			Help: "TX payload writes observed.",
		}),
		RxPayloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spi_rx_payload_total",
			Help: "RX payload reads observed.",
		}),
	}
	reg.MustRegister(m.CommandTotal, m.IgnoredTotal, m.ErrorTotal, m.TxPayloads, m.RxPayloads)
	return m
}

func (m *DecoderMetrics) ObserveCommand(name string)   { m.CommandTotal.WithLabelValues(name).Inc() }
func (m *DecoderMetrics) ObserveIgnored(reason string) { m.IgnoredTotal.WithLabelValues(reason).Inc() }
func (m *DecoderMetrics) ObserveError(kind string)     { m.ErrorTotal.WithLabelValues(kind).Inc() }
func (m *DecoderMetrics) ObserveTxPayload()            { m.TxPayloads.Inc() }
func (m *DecoderMetrics) ObserveRxPayload()            { m.RxPayloads.Inc() }
