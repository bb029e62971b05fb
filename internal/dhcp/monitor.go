package dhcp

import (
	"context"
	"log/slog"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/bobbymcr/DhcpServer-sub000/internal/metrics"
	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// Monitor is a Processor that logs one summary line per received message
// and every receive error. Summary lines are throttled per client.
type Monitor struct {
	logger     *slog.Logger
	limiter    *RateLimiter
	vendors    VendorLookup
	logOptions bool
}

// VendorLookup resolves a client hardware address to a vendor name.
type VendorLookup interface {
	Lookup(mac dhcpv4.MACAddress) string
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithRateLimiter throttles summary lines through rl.
func WithRateLimiter(rl *RateLimiter) MonitorOption {
	return func(m *Monitor) { m.limiter = rl }
}

// WithVendorLookup adds the client vendor to summary lines.
func WithVendorLookup(v VendorLookup) MonitorOption {
	return func(m *Monitor) { m.vendors = v }
}

// WithOptionLogging adds a debug line for every option of each message.
func WithOptionLogging(enabled bool) MonitorOption {
	return func(m *Monitor) { m.logOptions = enabled }
}

// NewMonitor creates a Monitor logging to logger.
func NewMonitor(logger *slog.Logger, opts ...MonitorOption) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{logger: logger}
	for _, o := range opts {
		o(m)
	}
	return m
}

// OnReceive implements Processor.
func (m *Monitor) OnReceive(ctx context.Context, msg *dhcpv4.MessageBuffer, peer Peer) error {
	mac, isMAC := msg.ClientMACAddress()
	if m.limiter != nil && !m.limiter.Allow(mac) {
		metrics.LogLinesSuppressed.Inc()
		return nil
	}

	var xid [8]byte
	xidHex := xid[:0]
	for shift := 24; shift >= 0; shift -= 8 {
		xidHex = dhcpv4.AppendHex(xidHex, byte(msg.TransactionID>>shift))
	}

	attrs := []slog.Attr{
		slog.String("msg_type", msg.MessageType().String()),
		slog.String("op", msg.Opcode.String()),
		slog.String("xid", string(xidHex)),
		slog.String("chaddr", string(dhcpv4.AppendHexBytes(nil, msg.ClientHardwareAddress(), ':'))),
		slog.String("src", peer.Endpoint.String()),
		slog.Int("ifindex", peer.InterfaceIndex),
		slog.String("reply_to", ReplyDestination(msg, peer).String()),
	}
	if m.vendors != nil && isMAC {
		if vendor := m.vendors.Lookup(mac); vendor != "" {
			attrs = append(attrs, slog.String("vendor", vendor))
		}
	}
	if !msg.GatewayIPAddress.IsZero() {
		attrs = append(attrs, slog.String("giaddr", msg.GatewayIPAddress.String()))
	}
	if ip, ok := msg.RequestedIPAddress(); ok {
		attrs = append(attrs, slog.String("requested_ip", ip.String()))
	}
	if name, ok := msg.HostName(); ok {
		attrs = append(attrs, slog.String("hostname", string(name)))
	}
	if o, ok := msg.FindOption(dhcpv4.OptionClientFQDN); ok {
		if fqdn, err := o.ClientFQDN(); err == nil {
			attrs = append(attrs, slog.String("fqdn", fqdn.Name))
		}
	}
	if o, ok := msg.FindOption(dhcpv4.OptionRelayAgentInformation); ok {
		attrs = append(attrs, relayAttrs(o)...)
	}
	m.logger.LogAttrs(ctx, slog.LevelInfo, "dhcp message", attrs...)

	if m.logOptions && m.logger.Enabled(ctx, slog.LevelDebug) {
		for o := range msg.AllOptions() {
			m.logger.LogAttrs(ctx, slog.LevelDebug, "dhcp option",
				slog.String("xid", string(xidHex)),
				slog.Int("tag", int(o.Tag)),
				slog.Int("len", len(o.Data)),
				slog.String("data", string(dhcpv4.AppendHexBytes(nil, o.Data, ' '))))
		}
	}
	return nil
}

// OnError implements Processor. Receive errors are logged and never stop
// the loop.
func (m *Monitor) OnError(ctx context.Context, err *Error) error {
	m.logger.LogAttrs(ctx, slog.LevelWarn, "receive error",
		slog.String("kind", err.Kind.String()),
		slog.Int("length", err.Length),
		slog.String("error", err.Error()))
	return nil
}

func relayAttrs(o dhcpv4.Option) []slog.Attr {
	var attrs []slog.Attr
	for sub := range o.RelayAgentInformation().All() {
		switch sub.Code {
		case dhcpv4.RelayAgentCircuitID:
			attrs = append(attrs, slog.String("circuit_id", string(sub.Data)))
		case dhcpv4.RelayAgentRemoteID:
			attrs = append(attrs, slog.String("remote_id", string(dhcpv4.AppendHexBytes(nil, sub.Data, ':'))))
		case dhcpv4.RelayAgentLinkSelection:
			if ip, ok := sub.LinkSelection(); ok {
				attrs = append(attrs, slog.String("link_selection", ip.String()))
			}
		case dhcpv4.RelayAgentServerIdentifierOverride:
			if ip, ok := sub.ServerIdentifierOverride(); ok {
				attrs = append(attrs, slog.String("server_id_override", ip.String()))
			}
		case dhcpv4.RelayAgentRADIUSAttributes:
			ra := sub.RADIUSAttributes().Attributes()
			if user := ra.Get(rfc2865.UserName_Type); user != nil {
				attrs = append(attrs, slog.String("radius_user", radius.String(user)))
			}
		}
	}
	return attrs
}
