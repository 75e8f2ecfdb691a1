// Package netscan: the concurrent scan coordinator.
package netscan

import (
	"context"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/marcuoli/go-netscan/pkg/netscan/oui"
)

// Scanner fans probe work out across a bounded worker pool and aggregates
// one HostReport per target address. A Scanner holds no state between runs;
// concurrent Run calls on separate Scanners do not interfere.
type Scanner struct {
	prober   Prober
	resolver Resolver
	logger   *zap.Logger
}

// NewScanner creates a Scanner. A nil prober selects the socket-backed
// default for the spec's liveness method, a nil resolver selects the PTR
// resolver, and a nil logger disables logging.
func NewScanner(prober Prober, resolver Resolver, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{prober: prober, resolver: resolver, logger: logger}
}

// Run scans every address of the target according to spec and returns one
// report per address, in the target's enumeration order. A single address
// failing never aborts the run; its report simply carries no results.
func (s *Scanner) Run(ctx context.Context, target *Target, spec ProbeSpec) ([]HostReport, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	prober := s.prober
	if prober == nil {
		prober = NewProber(spec.Method, s.logger)
	}
	resolver := s.resolver
	if resolver == nil {
		resolver = NewPTRResolver(spec.Timeout)
	}

	addrs := target.Addrs()
	total := len(addrs)

	// Reports are indexed by enumeration position, so completion order
	// never disturbs the returned order.
	reports := make([]HostReport, total)
	for i, ip := range addrs {
		reports[i] = HostReport{IP: ip, Hostname: UnresolvedHostname}
	}

	s.logger.Debug("scan starting",
		zap.String("cidr", target.CIDR),
		zap.Int("addresses", total),
		zap.Ints("ports", spec.Ports),
		zap.Duration("timeout", spec.Timeout),
		zap.Int("workers", spec.Workers))

	// Supplemental SSDP sweep runs alongside the probe pool in ping mode.
	var ssdpIPs []net.IP
	var ssdpWg sync.WaitGroup
	if spec.UseSSDP && spec.PingMode() {
		ssdpWg.Add(1)
		go func() {
			defer ssdpWg.Done()
			ssdpIPs = ssdpSweep(ctx, spec.Timeout, s.logger)
		}()
	}

	var (
		progressMu sync.Mutex
		completed  int
	)
	// The callback runs under the mutex so calls are serialized and done
	// values arrive in increasing order.
	advance := func() {
		progressMu.Lock()
		completed++
		if spec.Progress != nil {
			spec.Progress(completed, total)
		}
		progressMu.Unlock()
	}

	jobs := make(chan int, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range jobs {
			s.scanAddress(ctx, prober, resolver, &reports[idx], spec)
			advance()
		}
	}

	for i := 0; i < spec.Workers && i < total; i++ {
		wg.Add(1)
		go worker()
	}

enqueue:
	for i := range addrs {
		select {
		case <-ctx.Done():
			break enqueue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	ssdpWg.Wait()

	s.mergeSSDP(ctx, resolver, target, reports, ssdpIPs)

	return reports, ctx.Err()
}

// scanAddress runs the full probe batch for one address and fills in its
// report. Partial results never escape: the report is only ever observed
// after this returns.
func (s *Scanner) scanAddress(ctx context.Context, prober Prober, resolver Resolver, report *HostReport, spec ProbeSpec) {
	if spec.PingMode() {
		res, err := prober.ProbeLiveness(ctx, report.IP, spec.Timeout)
		if err != nil {
			s.logger.Warn("error probing host", zap.String("ip", report.IP.String()), zap.Error(err))
			return
		}
		report.MAC = res.MAC
		if res.MAC != "" {
			report.Vendor = oui.VendorName(res.MAC)
		}
		report.Results = []ProbeResult{{Open: res.Up}}
	} else {
		results, err := prober.ProbePorts(ctx, report.IP, spec.Ports, spec.Timeout)
		if err != nil {
			s.logger.Warn("error scanning host", zap.String("ip", report.IP.String()), zap.Error(err))
			return
		}
		report.Results = results
	}

	// Hostnames are only worth a DNS round-trip for responding hosts.
	if report.Reachable() {
		report.Hostname = resolver.ResolveHostname(ctx, report.IP)
	}
}

// mergeSSDP marks SSDP responders inside the target range as up, covering
// hosts that ignore ICMP.
func (s *Scanner) mergeSSDP(ctx context.Context, resolver Resolver, target *Target, reports []HostReport, ssdpIPs []net.IP) {
	if len(ssdpIPs) == 0 {
		return
	}

	index := make(map[string]int, len(reports))
	for i, r := range reports {
		index[r.IP.String()] = i
	}
	for _, ip := range ssdpIPs {
		idx, ok := index[ip.String()]
		if !ok {
			continue
		}
		report := &reports[idx]
		if report.Reachable() {
			continue
		}
		s.logger.Debug("host up (ssdp)", zap.String("ip", ip.String()))
		report.Results = []ProbeResult{{Open: true}}
		report.Hostname = resolver.ResolveHostname(ctx, report.IP)
	}
}
