// Package netscan: scan target parsing and address enumeration.
package netscan

import (
	"fmt"
	"net"

	"github.com/marcuoli/go-netscan/pkg/netscan/network"
)

// Target is a validated scan target: a CIDR block or a single host,
// normalized to its ordered list of usable addresses. Targets are read-only
// after construction.
type Target struct {
	// Input is the string the target was parsed from.
	Input string
	// CIDR is the canonical network specification.
	CIDR string
	// ResolvedFrom holds the hostname when Input required DNS resolution.
	ResolvedFrom string

	addrs []net.IP
}

// Addrs returns the ordered usable host addresses of the target.
func (t *Target) Addrs() []net.IP {
	return t.addrs
}

// Size returns the number of addresses the target expands to.
func (t *Target) Size() int {
	return len(t.addrs)
}

// ParseTarget validates a network specification and expands it into its
// usable host addresses. The input may be a CIDR block ("192.168.1.0/24",
// host bits are masked off), a bare IP address (treated as a single-host
// block), or a hostname that resolves to a single address. Anything else
// fails with ErrInvalidNetworkSpec. IPv6 is accepted for single hosts only.
func ParseTarget(spec string) (*Target, error) {
	if ip := net.ParseIP(spec); ip != nil {
		return singleHostTarget(spec, ip, "")
	}

	if _, ipnet, err := net.ParseCIDR(spec); err == nil {
		return cidrTarget(spec, ipnet)
	}

	// Not an address or block: try resolving as a hostname.
	ips, err := net.LookupIP(spec)
	if err != nil || len(ips) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNetworkSpec, spec)
	}
	return singleHostTarget(spec, ips[0], spec)
}

func singleHostTarget(input string, ip net.IP, resolvedFrom string) (*Target, error) {
	cidr := ip.String() + "/32"
	if ip.To4() == nil {
		cidr = ip.String() + "/128"
	}
	return &Target{
		Input:        input,
		CIDR:         cidr,
		ResolvedFrom: resolvedFrom,
		addrs:        []net.IP{ip},
	}, nil
}

func cidrTarget(input string, ipnet *net.IPNet) (*Target, error) {
	if ipnet.IP.To4() == nil {
		// IPv6 blocks are only usable when they denote a single host.
		if ones, bits := ipnet.Mask.Size(); ones == bits {
			return singleHostTarget(input, ipnet.IP, "")
		}
		return nil, fmt.Errorf("%w: IPv6 ranges are not supported: %q", ErrInvalidNetworkSpec, input)
	}

	addrs := network.EnumerateIPsFromNet(ipnet)
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %q contains no usable addresses", ErrInvalidNetworkSpec, input)
	}
	return &Target{
		Input: input,
		CIDR:  ipnet.String(),
		addrs: addrs,
	}, nil
}
