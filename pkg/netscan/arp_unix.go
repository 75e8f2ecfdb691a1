//go:build linux || darwin || freebsd || netbsd || openbsd

// Package netscan: ARP-based liveness probing.
// ARP can detect on-link hosts that drop ICMP, and yields the responding
// MAC address as a side effect. IPv4 only; may require elevated privileges.
package netscan

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/j-keck/arping"
	"golang.org/x/sync/semaphore"
)

// The OS rate-limits ARP traffic, so in-flight requests are capped below
// the scan worker count.
var arpSem = semaphore.NewWeighted(32)

// arping keeps its timeout in package-global state, so writes must be
// serialized across workers. The cached value skips redundant writes while
// pings with the same timeout are in flight.
var (
	arpTimeoutMu sync.Mutex
	arpTimeout   time.Duration
)

func setARPTimeout(timeout time.Duration) {
	arpTimeoutMu.Lock()
	defer arpTimeoutMu.Unlock()
	if arpTimeout != timeout {
		arping.SetTimeout(timeout)
		arpTimeout = timeout
	}
}

// arpPing sends one ARP request for ip and waits for a reply within the
// timeout. Returns the responder's MAC and whether the host answered.
func arpPing(ctx context.Context, ip net.IP, timeout time.Duration) (string, bool) {
	if ip.To4() == nil {
		return "", false // ARP is IPv4 only
	}
	if err := arpSem.Acquire(ctx, 1); err != nil {
		return "", false
	}
	defer arpSem.Release(1)

	setARPTimeout(timeout)

	type arpResponse struct {
		mac net.HardwareAddr
		err error
	}
	responseChan := make(chan arpResponse, 1)

	go func() {
		mac, _, err := arping.Ping(ip)
		responseChan <- arpResponse{mac: mac, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case resp := <-responseChan:
		if resp.err != nil {
			return "", false
		}
		return resp.mac.String(), true
	}
}
