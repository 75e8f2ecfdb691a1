//go:build windows

// Package netscan: ARP stub for Windows. ARP liveness probing is not
// supported on Windows; hosts always report as down under this method.
package netscan

import (
	"context"
	"net"
	"time"
)

func arpPing(ctx context.Context, ip net.IP, timeout time.Duration) (string, bool) {
	return "", false
}
