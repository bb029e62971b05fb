package dhcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// UDPSocket adapts a UDP socket to Socket. It reports the receiving
// interface through IPv4 control messages and unblocks a pending read when
// the receive context is done.
//
// Channels sharing a UDPSocket should share one cancellation context: a
// cancelled Receive moves the read deadline of the whole socket.
type UDPSocket struct {
	conn    net.PacketConn
	pc      *ipv4.PacketConn
	ifIndex int
}

// ListenUDP binds an IPv4 UDP socket to address (for example ":67") with
// SO_REUSEADDR and SO_BROADCAST set.
func ListenUDP(address string) (*UDPSocket, error) {
	lc := net.ListenConfig{Control: controlBroadcast}
	conn, err := lc.ListenPacket(context.Background(), "udp4", address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", address, err)
	}
	s, err := NewUDPSocket(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewUDPSocket wraps an existing packet connection.
func NewUDPSocket(conn net.PacketConn) (*UDPSocket, error) {
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		return nil, fmt.Errorf("enabling interface control messages: %w", err)
	}
	return &UDPSocket{conn: conn, pc: pc}, nil
}

// RestrictToInterface discards datagrams that did not arrive on the
// interface with the given index. Zero accepts every interface.
func (s *UDPSocket) RestrictToInterface(index int) {
	s.ifIndex = index
}

// Receive implements InputSocket.
func (s *UDPSocket) Receive(ctx context.Context, buf []byte) (int, Peer, error) {
	if err := ctx.Err(); err != nil {
		return 0, Peer{}, err
	}
	if err := s.pc.SetReadDeadline(time.Time{}); err != nil {
		return 0, Peer{}, fmt.Errorf("clearing read deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = s.pc.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	for {
		n, cm, src, err := s.pc.ReadFrom(buf)
		if err != nil {
			return 0, Peer{}, err
		}
		var peer Peer
		if cm != nil {
			peer.InterfaceIndex = cm.IfIndex
		}
		if s.ifIndex != 0 && peer.InterfaceIndex != 0 && peer.InterfaceIndex != s.ifIndex {
			continue
		}
		ep, ok := dhcpv4.IPv4EndpointFromAddr(src)
		if !ok {
			return 0, Peer{}, fmt.Errorf("unexpected source address %v", src)
		}
		peer.Endpoint = ep
		return n, peer, nil
	}
}

// Send implements OutputSocket. A deadline on ctx bounds the write.
func (s *UDPSocket) Send(ctx context.Context, buf []byte, dst dhcpv4.IPv4Endpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := s.pc.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	var cm *ipv4.ControlMessage
	if s.ifIndex != 0 {
		cm = &ipv4.ControlMessage{IfIndex: s.ifIndex}
	}
	if _, err := s.pc.WriteTo(buf, cm, dst.UDPAddr()); err != nil {
		return fmt.Errorf("sending to %s: %w", dst, err)
	}
	return nil
}

// LocalAddr returns the bound address.
func (s *UDPSocket) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// Close closes the underlying connection.
func (s *UDPSocket) Close() error { return s.pc.Close() }
