package dhcp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bobbymcr/DhcpServer-sub000/internal/metrics"
	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// InstrumentedChannel records metrics and debug logs around another
// channel. Messages and errors pass through unchanged.
type InstrumentedChannel struct {
	inner  ReceiveChannel
	name   string
	logger *slog.Logger
}

// Instrument wraps ch. name labels its metrics.
func Instrument(ch ReceiveChannel, name string, logger *slog.Logger) *InstrumentedChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedChannel{inner: ch, name: name, logger: logger}
}

// Receive implements ReceiveChannel.
func (c *InstrumentedChannel) Receive(ctx context.Context) (*dhcpv4.MessageBuffer, error) {
	msg, err := c.inner.Receive(ctx)

	var rerr *Error
	switch {
	case err == nil:
		metrics.DatagramsReceived.WithLabelValues(c.name).Inc()
		metrics.DatagramSize.Observe(float64(msg.Len()))
	case errors.As(err, &rerr):
		metrics.ReceiveErrors.WithLabelValues(rerr.Kind.String()).Inc()
		c.logger.Debug("receive failed",
			"channel", c.name,
			"kind", rerr.Kind.String(),
			"error", err)
	}
	return msg, err
}

// Peer implements ReceiveChannel.
func (c *InstrumentedChannel) Peer() Peer { return c.inner.Peer() }

type instrumentedProcessor struct {
	inner Processor
}

// InstrumentProcessor wraps p so that OnReceive latency and message types
// are recorded.
func InstrumentProcessor(p Processor) Processor {
	return instrumentedProcessor{inner: p}
}

func (p instrumentedProcessor) OnReceive(ctx context.Context, msg *dhcpv4.MessageBuffer, peer Peer) error {
	msgType := msg.MessageType().String()
	metrics.MessagesProcessed.WithLabelValues(msgType).Inc()
	start := time.Now()
	err := p.inner.OnReceive(ctx, msg, peer)
	metrics.ProcessingDuration.WithLabelValues(msgType).Observe(time.Since(start).Seconds())
	return err
}

func (p instrumentedProcessor) OnError(ctx context.Context, err *Error) error {
	return p.inner.OnError(ctx, err)
}
