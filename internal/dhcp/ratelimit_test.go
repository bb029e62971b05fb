package dhcp

import (
	"testing"
	"time"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

var (
	testMAC1 = dhcpv4.MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	testMAC2 = dhcpv4.MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(global, perMAC int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	rl := NewRateLimiter(true, global, perMAC)
	rl.now = clock.now
	rl.lastRefill = clock.t
	return rl, clock
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(false, 10, 5)

	for i := 0; i < 100; i++ {
		if !rl.Allow(testMAC1) {
			t.Fatalf("disabled rate limiter rejected request %d", i)
		}
	}
}

func TestRateLimiterGlobalLimit(t *testing.T) {
	rl, _ := newTestLimiter(5, 100)

	for i := 0; i < 5; i++ {
		if !rl.Allow(testMAC1) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow(testMAC2) {
		t.Error("6th request should be rejected (global limit)")
	}
}

func TestRateLimiterPerMACLimit(t *testing.T) {
	rl, _ := newTestLimiter(100, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow(testMAC1) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow(testMAC1) {
		t.Error("4th request from same MAC should be rejected")
	}
	if !rl.Allow(testMAC2) {
		t.Error("different MAC should still be allowed")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl, clock := newTestLimiter(3, 3)

	for i := 0; i < 3; i++ {
		rl.Allow(testMAC1)
	}
	if rl.Allow(testMAC1) {
		t.Error("should be rate-limited after exhausting tokens")
	}

	clock.advance(500 * time.Millisecond)
	if rl.Allow(testMAC1) {
		t.Error("should still be limited before a full interval")
	}

	clock.advance(600 * time.Millisecond)
	if !rl.Allow(testMAC1) {
		t.Error("should be allowed after refill")
	}
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	rl, clock := newTestLimiter(10, 5)
	rl.Allow(testMAC1)

	clock.advance(staleBucketAge + time.Second)
	rl.Allow(testMAC2)

	if _, macs := rl.Stats(); macs != 1 {
		t.Errorf("trackedMACs = %d, want 1", macs)
	}
}

func TestRateLimiterStats(t *testing.T) {
	rl, _ := newTestLimiter(10, 5)

	rl.Allow(testMAC1)
	rl.Allow(testMAC2)

	tokens, macs := rl.Stats()
	if tokens != 8 { // 10 - 2
		t.Errorf("globalTokens = %d, want 8", tokens)
	}
	if macs != 2 {
		t.Errorf("trackedMACs = %d, want 2", macs)
	}
}
