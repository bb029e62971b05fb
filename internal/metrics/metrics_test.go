package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegistered(t *testing.T) {
	// promauto registers with the default registry, so writing a value is
	// enough to make each metric collectable.
	DatagramsReceived.WithLabelValues("0").Inc()
	ReceiveErrors.WithLabelValues("too_small").Inc()
	DatagramSize.Observe(300)
	MessagesProcessed.WithLabelValues("DHCPDISCOVER").Inc()
	ProcessingDuration.WithLabelValues("DHCPDISCOVER").Observe(0.0001)
	LogLinesSuppressed.Inc()
	DatagramsSent.WithLabelValues("DHCPDISCOVER").Inc()
	SendErrors.Inc()
	ServerStartTime.SetToCurrentTime()
	ServerInfo.WithLabelValues("dev").Set(1)
	ChannelsActive.Set(4)

	if got := testutil.ToFloat64(ChannelsActive); got != 4 {
		t.Errorf("ChannelsActive = %v, want 4", got)
	}
	if got := testutil.ToFloat64(LogLinesSuppressed); got != 1 {
		t.Errorf("LogLinesSuppressed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ReceiveErrors.WithLabelValues("too_small")); got != 1 {
		t.Errorf("ReceiveErrors(too_small) = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(DatagramSize); got != 1 {
		t.Errorf("DatagramSize series = %d, want 1", got)
	}
}

func TestMetricsNamespace(t *testing.T) {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, mf := range mfs {
		name := mf.GetName()
		// Skip standard go_* and process_* and promhttp_* metrics
		if strings.HasPrefix(name, "go_") ||
			strings.HasPrefix(name, "process_") ||
			strings.HasPrefix(name, "promhttp_") {
			continue
		}
		if !strings.HasPrefix(name, "dhcpserver_") {
			t.Errorf("metric %q does not have dhcpserver_ prefix", name)
		}
	}
}
