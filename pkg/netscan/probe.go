// Package netscan: per-host probe operations.
package netscan

import (
	"context"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Prober performs the probe work for one address. Implementations are
// stateless; ordinary network failures (refusal, timeout, unreachable,
// missing permissions) collapse to boolean "down" outcomes. The error
// returns are reserved for unexpected per-address failures, which the
// coordinator degrades to an empty result list instead of aborting.
type Prober interface {
	// ProbeLiveness reports whether the host answered a liveness probe
	// within the timeout.
	ProbeLiveness(ctx context.Context, ip net.IP, timeout time.Duration) (LivenessResult, error)
	// ProbePorts probes the given TCP ports sequentially and returns one
	// result per port, in the order requested.
	ProbePorts(ctx context.Context, ip net.IP, ports []int, timeout time.Duration) ([]ProbeResult, error)
}

// LivenessResult carries the outcome of a liveness probe. MAC is only set
// by methods that learn a hardware address (ARP).
type LivenessResult struct {
	Up  bool
	MAC string
}

// NetProber is the default Prober backed by real sockets.
type NetProber struct {
	// Method selects the liveness mechanism.
	Method LivenessMethod

	logger *zap.Logger
}

// NewProber returns a NetProber using the given liveness method. A nil
// logger disables probe-level logging.
func NewProber(method LivenessMethod, logger *zap.Logger) *NetProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	if method == "" {
		method = LivenessICMP
	}
	return &NetProber{Method: method, logger: logger}
}

// ProbePort attempts a single TCP connection to (ip, port). Refusal,
// timeout, and socket-level errors all map to false. The connection is
// closed before returning.
func (p *NetProber) ProbePort(ctx context.Context, ip net.IP, port int, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	addr := net.JoinHostPort(ip.String(), strconv.Itoa(port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		p.logger.Debug("port closed", zap.String("addr", addr), zap.Error(err))
		return false
	}
	conn.Close()
	p.logger.Debug("port open", zap.String("addr", addr))
	return true
}

// ProbePorts probes each port in order with its own dial attempt. Ports on
// one address are never probed in parallel; this keeps the number of
// concurrent sockets bounded by the coordinator's worker count alone.
func (p *NetProber) ProbePorts(ctx context.Context, ip net.IP, ports []int, timeout time.Duration) ([]ProbeResult, error) {
	results := make([]ProbeResult, 0, len(ports))
	for _, port := range ports {
		results = append(results, ProbeResult{Port: port, Open: p.ProbePort(ctx, ip, port, timeout)})
	}
	return results, nil
}

// ProbeLiveness issues one liveness probe with the configured method. The
// error return is reserved for pathological setup failures; ordinary
// unreachable/timeout/permission outcomes return a down result and nil.
func (p *NetProber) ProbeLiveness(ctx context.Context, ip net.IP, timeout time.Duration) (LivenessResult, error) {
	switch p.Method {
	case LivenessARP:
		mac, up := arpPing(ctx, ip, timeout)
		if up {
			p.logger.Debug("host up (arp)", zap.String("ip", ip.String()), zap.String("mac", mac))
		}
		return LivenessResult{Up: up, MAC: mac}, nil
	default:
		up := icmpEcho(ctx, ip, timeout, p.logger)
		if up {
			p.logger.Debug("host up (icmp)", zap.String("ip", ip.String()))
		}
		return LivenessResult{Up: up}, nil
	}
}
