package dhcp

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bobbymcr/DhcpServer-sub000/internal/metrics"
	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

func TestInstrumentedChannel(t *testing.T) {
	sock := newFakeSocket(
		fakeDatagram{data: buildDiscover(t, 1), peer: testPeer},
		fakeDatagram{data: make([]byte, 300), n: 9000},
	)
	inner, _ := NewChannel(sock, 1500)
	ch := Instrument(inner, "test-instrumented", discardLogger)

	received := metrics.DatagramsReceived.WithLabelValues("test-instrumented")
	tooLarge := metrics.ReceiveErrors.WithLabelValues(ErrorPacketTooLarge.String())
	beforeLarge := testutil.ToFloat64(tooLarge)

	msg, err := ch.Receive(context.Background())
	if err != nil {
		t.Fatalf("Receive error: %v", err)
	}
	if msg.TransactionID != 1 {
		t.Errorf("TransactionID = %d, want 1", msg.TransactionID)
	}
	if ch.Peer() != testPeer {
		t.Errorf("Peer = %+v, want %+v", ch.Peer(), testPeer)
	}
	if got := testutil.ToFloat64(received); got != 1 {
		t.Errorf("DatagramsReceived = %v, want 1", got)
	}

	if _, err := ch.Receive(context.Background()); err == nil {
		t.Fatal("expected error for oversized datagram, got nil")
	}
	if got := testutil.ToFloat64(tooLarge) - beforeLarge; got != 1 {
		t.Errorf("ReceiveErrors(too_large) delta = %v, want 1", got)
	}
}

func TestInstrumentProcessor(t *testing.T) {
	counter := metrics.MessagesProcessed.WithLabelValues(dhcpv4.MessageTypeDiscover.String())
	before := testutil.ToFloat64(counter)

	var seen uint32
	p := InstrumentProcessor(ProcessorFuncs{
		Receive: func(_ context.Context, msg *dhcpv4.MessageBuffer, _ Peer) error {
			seen = msg.TransactionID
			return nil
		},
	})

	buf := buildDiscover(t, 77)
	msg, _ := dhcpv4.NewMessageBuffer(buf)
	msg.Load(len(buf))
	if err := p.OnReceive(context.Background(), msg, testPeer); err != nil {
		t.Fatalf("OnReceive error: %v", err)
	}
	if seen != 77 {
		t.Errorf("inner processor saw xid %d, want 77", seen)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("MessagesProcessed delta = %v, want 1", got)
	}
	if err := p.OnError(context.Background(), &Error{Kind: ErrorSocket}); err != nil {
		t.Errorf("OnError error: %v", err)
	}
}
