// Package netscan: SSDP/UPnP sweep supplementing ping-mode liveness.
package netscan

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/koron/go-ssdp"
	"go.uber.org/zap"
)

// ssdpSweep performs one multicast M-SEARCH for all devices and returns the
// source addresses that responded. Devices that ignore ICMP (smart TVs,
// media players, IoT hubs) commonly answer SSDP, so a responder inside the
// target range counts as up even when the echo probe missed it. Failures
// are logged and yield an empty result; the sweep is purely additive.
func ssdpSweep(ctx context.Context, timeout time.Duration, logger *zap.Logger) []net.IP {
	waitSec := int(timeout.Seconds())
	if waitSec < 1 {
		waitSec = 1
	}

	type searchResult struct {
		services []ssdp.Service
		err      error
	}
	resultCh := make(chan searchResult, 1)

	// ssdp.Search blocks for the full wait window, so run it aside and
	// honor context cancellation here.
	go func() {
		services, err := ssdp.Search(ssdp.All, waitSec, "")
		resultCh <- searchResult{services: services, err: err}
	}()

	var services []ssdp.Service
	select {
	case <-ctx.Done():
		return nil
	case res := <-resultCh:
		if res.err != nil {
			logger.Warn("ssdp search failed", zap.Error(res.err))
			return nil
		}
		services = res.services
	}

	seen := make(map[string]bool)
	var ips []net.IP
	for _, svc := range services {
		ip := net.ParseIP(hostFromLocation(svc.Location))
		if ip == nil || seen[ip.String()] {
			continue
		}
		seen[ip.String()] = true
		ips = append(ips, ip)
		logger.Debug("ssdp device",
			zap.String("ip", ip.String()),
			zap.String("server", svc.Server),
			zap.String("usn", svc.USN),
			zap.String("location", svc.Location))
	}
	return ips
}

// hostFromLocation extracts the host from an SSDP Location URL such as
// "http://192.168.1.10:8060/dd.xml".
func hostFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
