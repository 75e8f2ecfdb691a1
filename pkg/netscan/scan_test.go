// Package netscan tests for the scan coordinator.
package netscan

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"
)

// fakeProber counts concurrent in-flight probe batches and serves canned
// outcomes, so coordinator properties can be asserted without sockets.
type fakeProber struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int

	delay     time.Duration
	upHosts   map[string]bool
	openPorts map[int]bool
	failHosts map[string]error
}

func (f *fakeProber) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeProber) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeProber) ProbeLiveness(ctx context.Context, ip net.IP, timeout time.Duration) (LivenessResult, error) {
	f.enter()
	defer f.leave()
	if err := f.failHosts[ip.String()]; err != nil {
		return LivenessResult{}, err
	}
	return LivenessResult{Up: f.upHosts[ip.String()]}, nil
}

func (f *fakeProber) ProbePorts(ctx context.Context, ip net.IP, ports []int, timeout time.Duration) ([]ProbeResult, error) {
	f.enter()
	defer f.leave()
	if err := f.failHosts[ip.String()]; err != nil {
		return nil, err
	}
	results := make([]ProbeResult, 0, len(ports))
	for _, p := range ports {
		results = append(results, ProbeResult{Port: p, Open: f.openPorts[p]})
	}
	return results, nil
}

// fakeResolver records which addresses were resolved.
type fakeResolver struct {
	mu       sync.Mutex
	resolved []string
	name     string
}

func (f *fakeResolver) ResolveHostname(ctx context.Context, ip net.IP) string {
	f.mu.Lock()
	f.resolved = append(f.resolved, ip.String())
	f.mu.Unlock()
	return f.name
}

func mustTarget(t *testing.T, spec string) *Target {
	t.Helper()
	target, err := ParseTarget(spec)
	if err != nil {
		t.Fatalf("ParseTarget(%s) failed: %v", spec, err)
	}
	return target
}

func TestScanner_ConcurrencyBound(t *testing.T) {
	target := mustTarget(t, "192.168.0.0/26") // 62 addresses
	prober := &fakeProber{delay: 2 * time.Millisecond}
	s := NewScanner(prober, &fakeResolver{name: "-"}, nil)

	const workers = 8
	_, err := s.Run(context.Background(), target, ProbeSpec{
		Timeout: 100 * time.Millisecond,
		Workers: workers,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if prober.maxInFlight > workers {
		t.Errorf("Observed %d concurrent probes, worker limit is %d", prober.maxInFlight, workers)
	}
	if prober.maxInFlight < 2 {
		t.Errorf("Expected concurrent probing, observed max in-flight %d", prober.maxInFlight)
	}
}

func TestScanner_OneReportPerAddressInOrder(t *testing.T) {
	target := mustTarget(t, "10.0.0.0/28") // 14 addresses
	prober := &fakeProber{}
	s := NewScanner(prober, &fakeResolver{name: "-"}, nil)

	reports, err := s.Run(context.Background(), target, ProbeSpec{
		Timeout: 100 * time.Millisecond,
		Workers: 4,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	addrs := target.Addrs()
	if len(reports) != len(addrs) {
		t.Fatalf("Expected %d reports, got %d", len(addrs), len(reports))
	}
	for i, r := range reports {
		if !r.IP.Equal(addrs[i]) {
			t.Errorf("Report %d has IP %s, expected %s", i, r.IP, addrs[i])
		}
	}
}

func TestScanner_PortMode_ResultOrder(t *testing.T) {
	target := mustTarget(t, "10.0.0.1/32")
	prober := &fakeProber{openPorts: map[int]bool{22: true}}
	s := NewScanner(prober, &fakeResolver{name: "somehost"}, nil)

	ports := []int{443, 22, 80}
	reports, err := s.Run(context.Background(), target, ProbeSpec{
		Ports:   ports,
		Timeout: 100 * time.Millisecond,
		Workers: 4,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	results := reports[0].Results
	if len(results) != len(ports) {
		t.Fatalf("Expected %d results, got %d", len(ports), len(results))
	}
	for i, want := range ports {
		if results[i].Port != want {
			t.Errorf("Result %d is port %d, expected %d (request order must be preserved)",
				i, results[i].Port, want)
		}
	}
	if !results[1].Open || results[0].Open || results[2].Open {
		t.Errorf("Expected only port 22 open, got %+v", results)
	}
	if reports[0].Hostname != "somehost" {
		t.Errorf("Expected resolved hostname for reachable host, got %q", reports[0].Hostname)
	}
}

func TestScanner_AddressFailureDegrades(t *testing.T) {
	target := mustTarget(t, "10.0.0.0/30") // 10.0.0.1, 10.0.0.2
	prober := &fakeProber{
		openPorts: map[int]bool{80: true},
		failHosts: map[string]error{"10.0.0.1": context.DeadlineExceeded},
	}
	s := NewScanner(prober, &fakeResolver{name: "-"}, nil)

	reports, err := s.Run(context.Background(), target, ProbeSpec{
		Ports:   []int{80},
		Timeout: 100 * time.Millisecond,
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("A single failing address must not abort the scan: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	if len(reports[0].Results) != 0 {
		t.Errorf("Failing address should have no results, got %+v", reports[0].Results)
	}
	if reports[0].Hostname != UnresolvedHostname {
		t.Errorf("Failing address hostname = %q, want %q", reports[0].Hostname, UnresolvedHostname)
	}
	if len(reports[1].Results) != 1 || !reports[1].Results[0].Open {
		t.Errorf("Healthy address should report its open port, got %+v", reports[1].Results)
	}
}

func TestScanner_Progress(t *testing.T) {
	target := mustTarget(t, "10.0.0.0/28")
	prober := &fakeProber{}

	var mu sync.Mutex
	var seen []int
	spec := ProbeSpec{
		Timeout: 100 * time.Millisecond,
		Workers: 4,
		Progress: func(done, total int) {
			mu.Lock()
			seen = append(seen, done)
			mu.Unlock()
			if total != 14 {
				t.Errorf("Progress total = %d, want 14", total)
			}
		},
	}

	s := NewScanner(prober, &fakeResolver{name: "-"}, nil)
	if _, err := s.Run(context.Background(), target, spec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != 14 {
		t.Fatalf("Expected 14 progress callbacks, got %d", len(seen))
	}
	for i, v := range seen {
		if v != i+1 {
			t.Errorf("Progress values must increase monotonically by one, got %v", seen)
			break
		}
	}
}

func TestScanner_ProgressSerialized(t *testing.T) {
	target := mustTarget(t, "192.168.1.0/24") // 254 addresses
	prober := &fakeProber{delay: time.Millisecond}

	var (
		mu          sync.Mutex
		inCall      int
		overlaps    int
		last        int
		regressions int
	)
	spec := ProbeSpec{
		Timeout: 100 * time.Millisecond,
		Workers: 32,
		Progress: func(done, total int) {
			mu.Lock()
			inCall++
			if inCall > 1 {
				overlaps++
			}
			if done <= last {
				regressions++
			}
			last = done
			mu.Unlock()
			time.Sleep(50 * time.Microsecond) // widen the window for overlapping calls
			mu.Lock()
			inCall--
			mu.Unlock()
		},
	}

	s := NewScanner(prober, &fakeResolver{name: "-"}, nil)
	if _, err := s.Run(context.Background(), target, spec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if overlaps > 0 {
		t.Errorf("%d progress callbacks ran concurrently, calls must be serialized", overlaps)
	}
	if regressions > 0 {
		t.Errorf("%d progress callbacks observed a non-increasing done value", regressions)
	}
	if last != 254 {
		t.Errorf("Final progress value = %d, want 254", last)
	}
}

func TestScanner_PingMode_ResolvesOnlyReachable(t *testing.T) {
	target := mustTarget(t, "10.0.0.0/29") // .1 - .6
	prober := &fakeProber{upHosts: map[string]bool{"10.0.0.3": true}}
	resolver := &fakeResolver{name: "printer.lan"}
	s := NewScanner(prober, resolver, nil)

	reports, err := s.Run(context.Background(), target, ProbeSpec{
		Timeout: 100 * time.Millisecond,
		Workers: 3,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, r := range reports {
		if len(r.Results) != 1 || r.Results[0].Port != 0 {
			t.Fatalf("Ping mode must produce a single portless result, got %+v", r.Results)
		}
		switch r.IP.String() {
		case "10.0.0.3":
			if !r.Results[0].Open {
				t.Error("Expected 10.0.0.3 to be up")
			}
			if r.Hostname != "printer.lan" {
				t.Errorf("Expected resolved hostname, got %q", r.Hostname)
			}
		default:
			if r.Results[0].Open {
				t.Errorf("Expected %s to be down", r.IP)
			}
			if r.Hostname != UnresolvedHostname {
				t.Errorf("Down host hostname = %q, want %q", r.Hostname, UnresolvedHostname)
			}
		}
	}

	if len(resolver.resolved) != 1 || resolver.resolved[0] != "10.0.0.3" {
		t.Errorf("Only the reachable host should be resolved, resolved: %v", resolver.resolved)
	}
}

func TestProbeSpec_Validate(t *testing.T) {
	t.Run("invalid port", func(t *testing.T) {
		spec := ProbeSpec{Ports: []int{70000}, Timeout: time.Second}
		if err := spec.Validate(); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("Validate = %v, want ErrInvalidPort", err)
		}
	})
	t.Run("zero port", func(t *testing.T) {
		spec := ProbeSpec{Ports: []int{0}, Timeout: time.Second}
		if err := spec.Validate(); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("Validate = %v, want ErrInvalidPort", err)
		}
	})
	t.Run("negative timeout", func(t *testing.T) {
		spec := ProbeSpec{Timeout: -time.Second}
		if err := spec.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("Validate = %v, want ErrInvalidTimeout", err)
		}
	})
	t.Run("defaults applied", func(t *testing.T) {
		spec := ProbeSpec{Timeout: time.Second}
		if err := spec.Validate(); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if spec.Workers != DefaultWorkers {
			t.Errorf("Workers = %d, want default %d", spec.Workers, DefaultWorkers)
		}
		if spec.Method != LivenessICMP {
			t.Errorf("Method = %q, want %q", spec.Method, LivenessICMP)
		}
	})
}
