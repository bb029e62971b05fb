package dhcp

import (
	"context"
	"fmt"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// ReceiveChannel yields one loaded message per call.
type ReceiveChannel interface {
	Receive(ctx context.Context) (*dhcpv4.MessageBuffer, error)
	Peer() Peer
}

// Channel owns one receive buffer and the MessageBuffer over it. Every
// Receive overwrites both, so a caller must finish with a message (or copy
// what it needs) before receiving again. A Channel is not safe for
// concurrent use; create one per receive loop.
type Channel struct {
	socket InputSocket
	buf    []byte
	size   int
	msg    *dhcpv4.MessageBuffer
	peer   Peer
}

// NewChannel returns a channel accepting datagrams of up to bufferSize
// bytes. The socket reads into one spare byte past the message so that a
// datagram the kernel truncated is still seen as too large.
func NewChannel(socket InputSocket, bufferSize int) (*Channel, error) {
	if bufferSize < 0 {
		bufferSize = 0
	}
	buf := make([]byte, bufferSize+1)
	msg, err := dhcpv4.NewMessageBuffer(buf[:bufferSize:bufferSize])
	if err != nil {
		return nil, fmt.Errorf("creating channel: %w", err)
	}
	return &Channel{socket: socket, buf: buf, size: bufferSize, msg: msg}, nil
}

// Receive waits for one datagram and loads it. Failures are reported as
// *Error; cancellation returns ctx.Err().
func (c *Channel) Receive(ctx context.Context) (*dhcpv4.MessageBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, peer, err := c.socket.Receive(ctx, c.buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Kind: ErrorSocket, Err: err}
	}
	c.peer = peer

	if n > dhcpv4.MaxDatagramLength || n > c.size {
		return nil, &Error{Kind: ErrorPacketTooLarge, Length: n}
	}
	if !c.msg.Load(n) {
		return nil, &Error{Kind: ErrorPacketTooSmall, Length: n}
	}
	return c.msg, nil
}

// Peer returns the source of the last datagram received.
func (c *Channel) Peer() Peer { return c.peer }

// ChannelFactory creates independent channels over one shared socket.
type ChannelFactory struct {
	socket     InputSocket
	bufferSize int
}

// NewChannelFactory returns a factory whose channels use buffers of
// bufferSize bytes. A non-positive size selects dhcpv4.MaxPacketSize.
func NewChannelFactory(socket InputSocket, bufferSize int) *ChannelFactory {
	if bufferSize <= 0 {
		bufferSize = dhcpv4.MaxPacketSize
	}
	return &ChannelFactory{socket: socket, bufferSize: bufferSize}
}

// NewChannel creates a channel with its own buffer.
func (f *ChannelFactory) NewChannel() (*Channel, error) {
	return NewChannel(f.socket, f.bufferSize)
}
