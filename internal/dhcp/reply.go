package dhcp

import (
	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

var broadcast = dhcpv4.IPv4Address{255, 255, 255, 255}

// ReplyDestination returns where a server reply to req belongs.
// See RFC 2131 §4.1.
func ReplyDestination(req *dhcpv4.MessageBuffer, src Peer) dhcpv4.IPv4Endpoint {
	// If relayed, send back to relay agent (giaddr:67)
	if !req.GatewayIPAddress.IsZero() {
		return dhcpv4.IPv4Endpoint{Address: req.GatewayIPAddress, Port: dhcpv4.ServerPort}
	}

	// If broadcast flag is set, broadcast the reply
	if req.Flags.Broadcast() {
		return dhcpv4.IPv4Endpoint{Address: broadcast, Port: dhcpv4.ClientPort}
	}

	// If client has an IP (renewal), unicast to it
	if !req.ClientIPAddress.IsZero() {
		return dhcpv4.IPv4Endpoint{Address: req.ClientIPAddress, Port: dhcpv4.ClientPort}
	}

	// Unicast to a source that already has an address, otherwise broadcast
	if !src.Endpoint.Address.IsZero() {
		return dhcpv4.IPv4Endpoint{Address: src.Endpoint.Address, Port: dhcpv4.ClientPort}
	}
	return dhcpv4.IPv4Endpoint{Address: broadcast, Port: dhcpv4.ClientPort}
}
