// Package dhcp turns datagrams from a socket into loaded DHCP messages and
// drives the receive loop that hands them to a Processor.
package dhcp

import (
	"context"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// Peer describes where a datagram came from.
type Peer struct {
	Endpoint       dhcpv4.IPv4Endpoint
	InterfaceIndex int // 0 when unknown
}

// InputSocket receives datagrams. Receive blocks until a datagram arrives,
// the socket fails, or ctx is done. Implementations must tolerate
// concurrent calls from several channels.
type InputSocket interface {
	Receive(ctx context.Context, buf []byte) (n int, peer Peer, err error)
}

// OutputSocket sends datagrams.
type OutputSocket interface {
	Send(ctx context.Context, buf []byte, dst dhcpv4.IPv4Endpoint) error
}

// Socket is a bound socket that can both receive and send.
type Socket interface {
	InputSocket
	OutputSocket
	Close() error
}
