// Package netscan: error taxonomy for input validation.
package netscan

import "errors"

// The only user-visible validation failures. Network-level errors during a
// scan (timeouts, refusals, unreachable hosts) are never surfaced as errors;
// they collapse to boolean probe outcomes.
var (
	// ErrInvalidNetworkSpec reports a target that is neither a parseable
	// CIDR/address nor a resolvable hostname.
	ErrInvalidNetworkSpec = errors.New("invalid network range or hostname")

	// ErrInvalidPort reports a requested port outside 1-65535.
	ErrInvalidPort = errors.New("invalid port number")

	// ErrInvalidTimeout reports a non-positive probe timeout.
	ErrInvalidTimeout = errors.New("timeout must be a positive duration")
)
