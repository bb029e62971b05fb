package dhcp

import (
	"sync"
	"time"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// staleBucketAge is how long an idle client keeps its bucket.
const staleBucketAge = 30 * time.Second

// RateLimiter is a token bucket limiting events both globally and per
// client hardware address. The monitor uses it to throttle per-message log
// lines.
type RateLimiter struct {
	enabled        bool
	globalLimit    int
	perMACLimit    int
	globalTokens   int
	perMAC         map[dhcpv4.MACAddress]*macBucket
	mu             sync.Mutex
	lastRefill     time.Time
	refillInterval time.Duration
	now            func() time.Time
}

type macBucket struct {
	tokens   int
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing globalLimit events and
// perMACLimit events per client each second.
func NewRateLimiter(enabled bool, globalLimit, perMACLimit int) *RateLimiter {
	if globalLimit <= 0 {
		globalLimit = 100
	}
	if perMACLimit <= 0 {
		perMACLimit = 10
	}
	return &RateLimiter{
		enabled:        enabled,
		globalLimit:    globalLimit,
		perMACLimit:    perMACLimit,
		globalTokens:   globalLimit,
		perMAC:         make(map[dhcpv4.MACAddress]*macBucket),
		lastRefill:     time.Now(),
		refillInterval: time.Second,
		now:            time.Now,
	}
}

// Allow reports whether an event for mac is permitted and consumes a token
// if so.
func (r *RateLimiter) Allow(mac dhcpv4.MACAddress) bool {
	if !r.enabled {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.refill(now)

	if r.globalTokens <= 0 {
		return false
	}

	bucket, exists := r.perMAC[mac]
	if !exists {
		bucket = &macBucket{tokens: r.perMACLimit, lastSeen: now}
		r.perMAC[mac] = bucket
	}
	if bucket.tokens <= 0 {
		return false
	}

	r.globalTokens--
	bucket.tokens--
	bucket.lastSeen = now
	return true
}

// refill adds tokens back for every whole interval since the last refill
// and forgets clients idle longer than staleBucketAge.
func (r *RateLimiter) refill(now time.Time) {
	intervals := int(now.Sub(r.lastRefill) / r.refillInterval)
	if intervals <= 0 {
		return
	}
	r.lastRefill = now

	r.globalTokens = min(r.globalTokens+r.globalLimit*intervals, r.globalLimit)

	for mac, bucket := range r.perMAC {
		if now.Sub(bucket.lastSeen) > staleBucketAge {
			delete(r.perMAC, mac)
			continue
		}
		bucket.tokens = min(bucket.tokens+r.perMACLimit*intervals, r.perMACLimit)
	}
}

// Stats returns the remaining global tokens and the number of tracked
// clients.
func (r *RateLimiter) Stats() (globalTokens int, trackedMACs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.globalTokens, len(r.perMAC)
}
