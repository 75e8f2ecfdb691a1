// Package netscan: reverse DNS (PTR) hostname resolution.
package netscan

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Resolver performs best-effort reverse hostname lookups. Implementations
// return UnresolvedHostname on any failure rather than an error.
type Resolver interface {
	ResolveHostname(ctx context.Context, ip net.IP) string
}

// PTRResolver resolves hostnames with a direct PTR query against the
// system's configured nameservers, falling back to the stdlib resolver when
// the resolver configuration cannot be read.
type PTRResolver struct {
	// Timeout bounds each lookup.
	Timeout time.Duration

	servers []string
}

// NewPTRResolver creates a resolver using the nameservers from
// /etc/resolv.conf.
func NewPTRResolver(timeout time.Duration) *PTRResolver {
	r := &PTRResolver{Timeout: timeout}
	if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil {
		for _, s := range conf.Servers {
			r.servers = append(r.servers, net.JoinHostPort(s, conf.Port))
		}
	}
	return r
}

// ResolveHostname performs a reverse lookup for ip. Missing PTR records,
// timeouts, and malformed responses all yield UnresolvedHostname.
func (r *PTRResolver) ResolveHostname(ctx context.Context, ip net.IP) string {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if len(r.servers) == 0 {
		return r.resolveStdlib(ctx, ip, timeout)
	}

	reverseName, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return UnresolvedHostname
	}

	msg := new(dns.Msg)
	msg.SetQuestion(reverseName, dns.TypePTR)
	client := &dns.Client{Timeout: timeout}

	for _, server := range r.servers {
		reply, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil || reply == nil {
			continue
		}
		for _, rr := range reply.Answer {
			if ptr, ok := rr.(*dns.PTR); ok && ptr.Ptr != "" {
				return strings.TrimSuffix(ptr.Ptr, ".")
			}
		}
		// Authoritative empty answer: no PTR record exists.
		if reply.Rcode == dns.RcodeSuccess || reply.Rcode == dns.RcodeNameError {
			return UnresolvedHostname
		}
	}
	return UnresolvedHostname
}

func (r *PTRResolver) resolveStdlib(ctx context.Context, ip net.IP, timeout time.Duration) string {
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := (&net.Resolver{}).LookupAddr(lookupCtx, ip.String())
	if err != nil || len(names) == 0 {
		return UnresolvedHostname
	}
	return strings.TrimSuffix(names[0], ".")
}
