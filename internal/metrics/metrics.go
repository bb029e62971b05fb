// Package metrics defines the Prometheus metrics for the receive pipeline.
// All metrics use the "dhcpserver_" prefix.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dhcpserver"

// --- Receive Metrics ---

var (
	// DatagramsReceived counts datagrams read from the socket, by channel.
	DatagramsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "datagrams_received_total",
		Help:      "Total datagrams received, by channel.",
	}, []string{"channel"})

	// ReceiveErrors counts failed receives by error kind.
	ReceiveErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receive_errors_total",
		Help:      "Total receive errors, by kind (too_small, too_large, socket).",
	}, []string{"kind"})

	// DatagramSize tracks the size of received datagrams.
	DatagramSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "datagram_size_bytes",
		Help:      "Size of received DHCP datagrams in bytes.",
		Buckets:   []float64{240, 300, 400, 576, 1024, 1500, 4096},
	})
)

// --- Processing Metrics ---

var (
	// MessagesProcessed counts decoded messages by DHCP message type.
	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_processed_total",
		Help:      "Total DHCP messages processed, by message type.",
	}, []string{"msg_type"})

	// ProcessingDuration tracks processor callback latency.
	ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "processing_duration_seconds",
		Help:      "DHCP message processing duration in seconds.",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.1},
	}, []string{"msg_type"})

	// LogLinesSuppressed counts per-message log lines dropped by throttling.
	LogLinesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_lines_suppressed_total",
		Help:      "Total message log lines suppressed by the log throttle.",
	})
)

// --- Send Metrics ---

var (
	// DatagramsSent counts datagrams written by message type.
	DatagramsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "datagrams_sent_total",
		Help:      "Total DHCP datagrams sent, by message type.",
	}, []string{"msg_type"})

	// SendErrors counts failed sends.
	SendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "send_errors_total",
		Help:      "Total failed datagram sends.",
	})
)

// --- Server Info ---

var (
	// ServerInfo is a constant gauge with server metadata.
	ServerInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "server_info",
		Help:      "Server build and version info.",
	}, []string{"version"})

	// ServerStartTime tracks server start time as a unix timestamp.
	ServerStartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "server_start_time_seconds",
		Help:      "Server start time as Unix timestamp.",
	})

	// ChannelsActive is the number of receive loops currently running.
	ChannelsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channels_active",
		Help:      "Number of receive channels currently running.",
	})
)
