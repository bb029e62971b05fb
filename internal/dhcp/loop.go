package dhcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// Processor consumes what a receive loop produces. msg is only valid until
// OnReceive returns. A non-nil return from either method stops the loop.
type Processor interface {
	OnReceive(ctx context.Context, msg *dhcpv4.MessageBuffer, peer Peer) error
	OnError(ctx context.Context, err *Error) error
}

// ProcessorFuncs adapts plain functions to Processor. Nil fields are no-ops.
type ProcessorFuncs struct {
	Receive func(ctx context.Context, msg *dhcpv4.MessageBuffer, peer Peer) error
	Error   func(ctx context.Context, err *Error) error
}

func (p ProcessorFuncs) OnReceive(ctx context.Context, msg *dhcpv4.MessageBuffer, peer Peer) error {
	if p.Receive == nil {
		return nil
	}
	return p.Receive(ctx, msg, peer)
}

func (p ProcessorFuncs) OnError(ctx context.Context, err *Error) error {
	if p.Error == nil {
		return nil
	}
	return p.Error(ctx, err)
}

// Loop receives from one channel until cancelled, keeping a single receive
// in flight.
type Loop struct {
	channel   ReceiveChannel
	processor Processor
	logger    *slog.Logger
}

// NewLoop creates a receive loop.
func NewLoop(channel ReceiveChannel, processor Processor, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{channel: channel, processor: processor, logger: logger}
}

// Run receives and dispatches until ctx is done, returning nil. Receive
// errors go to OnError and the loop continues. Any error a processor
// returns, or an unclassified channel error, ends the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("receive loop started")
	defer l.logger.Debug("receive loop stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		msg, err := l.channel.Receive(ctx)
		if err != nil {
			var rerr *Error
			if errors.As(err, &rerr) {
				if perr := l.processor.OnError(ctx, rerr); perr != nil {
					return fmt.Errorf("handling receive error: %w", perr)
				}
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receiving: %w", err)
		}

		if err := l.processor.OnReceive(ctx, msg, l.channel.Peer()); err != nil {
			return fmt.Errorf("processing message: %w", err)
		}
	}
}
