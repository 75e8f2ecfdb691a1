// Package netscan provides concurrent host discovery and TCP port scanning
// over a CIDR range or single host. Hosts are probed either with an ICMP
// echo (ping mode, the default) or with TCP connect attempts against a
// configured port set, using a bounded worker pool with a fixed per-probe
// timeout. An ARP liveness method is available for on-link IPv4 targets.
package netscan

import (
	"fmt"
	"net"
	"time"
)

// LivenessMethod selects how hosts are probed for liveness in ping mode.
type LivenessMethod string

const (
	// LivenessICMP probes with an ICMP echo request (the default).
	LivenessICMP LivenessMethod = "icmp"
	// LivenessARP probes with an ARP request. Only works for on-link IPv4
	// hosts and is not supported on Windows.
	LivenessARP LivenessMethod = "arp"
)

// DefaultTimeout is the per-probe timeout used when none is specified.
const DefaultTimeout = 500 * time.Millisecond

// DefaultWorkers is the default concurrency level.
const DefaultWorkers = 100

// UnresolvedHostname is the sentinel reported when reverse resolution fails.
const UnresolvedHostname = "-"

// ProbeSpec is the immutable configuration for one scan run.
type ProbeSpec struct {
	// Ports to probe on each host. Nil or empty selects ping mode.
	Ports []int
	// Timeout per probe operation. Must be positive.
	Timeout time.Duration
	// Workers bounds the number of concurrently executing probe tasks.
	Workers int
	// Method selects the liveness probe used in ping mode.
	Method LivenessMethod
	// UseSSDP additionally sweeps the local network with an SSDP M-SEARCH
	// in ping mode and marks responding in-range devices as up.
	UseSSDP bool
	// Progress, if set, is invoked after each address completes with the
	// number of finished addresses and the total. Calls are serialized.
	Progress func(done, total int)
}

// Validate checks the spec against the allowed ranges and applies defaults
// for the worker count and liveness method. The timeout must be strictly
// positive and every port must lie within 1-65535.
func (s *ProbeSpec) Validate() error {
	for _, p := range s.Ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("%w: %d (must be between 1 and 65535)", ErrInvalidPort, p)
		}
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, s.Timeout)
	}
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	if s.Method == "" {
		s.Method = LivenessICMP
	}
	return nil
}

// PingMode reports whether the spec selects ping-only scanning.
func (s *ProbeSpec) PingMode() bool {
	return len(s.Ports) == 0
}

// ProbeResult is the outcome of a single probe. In ping mode Port is zero
// and Open reflects the liveness probe; in port mode Port is the probed TCP
// port and Open reflects a completed connection.
type ProbeResult struct {
	Port int
	Open bool
}

// HostReport pairs one scanned address with its resolved hostname and the
// ordered probe results for that address. Reports are never mutated after
// the scan returns them.
type HostReport struct {
	IP       net.IP
	Hostname string
	// MAC is filled when ARP liveness produced a hardware address.
	MAC string
	// Vendor is the IEEE OUI manufacturer for MAC, when known.
	Vendor string
	// Results holds one entry per probed port, in the order requested,
	// or a single entry in ping mode. Empty when probing the address
	// failed entirely.
	Results []ProbeResult
}

// Reachable reports whether any probe against the host succeeded.
func (r *HostReport) Reachable() bool {
	for _, res := range r.Results {
		if res.Open {
			return true
		}
	}
	return false
}
