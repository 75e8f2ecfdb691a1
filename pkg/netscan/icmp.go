// Package netscan: ICMP echo liveness probing.
package netscan

import (
	"context"
	"net"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

var echoSeq uint32

const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58
)

// icmpEcho sends a single echo request to ip and waits for a matching reply
// until the timeout (or the context deadline, whichever comes first). It
// prefers an unprivileged ICMP datagram socket (available on Linux when
// ping_group_range permits, and on macOS) and falls back to a raw socket,
// which requires elevated privileges. Every failure mode, including the
// inability to open either socket, is reported as "down".
func icmpEcho(ctx context.Context, ip net.IP, timeout time.Duration, logger *zap.Logger) bool {
	ipv4Target := ip.To4() != nil

	conn, dst := openEchoConn(ipv4Target, ip)
	if conn == nil {
		logger.Debug("icmp socket unavailable", zap.String("ip", ip.String()))
		return false
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	seq := int(atomic.AddUint32(&echoSeq, 1) & 0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  seq,
			Data: []byte("go-netscan"),
		},
	}
	proto := protocolICMP
	if !ipv4Target {
		msg.Type = ipv6.ICMPTypeEchoRequest
		proto = protocolIPv6ICMP
	}

	data, err := msg.Marshal(nil)
	if err != nil {
		return false
	}
	if _, err := conn.WriteTo(data, dst); err != nil {
		logger.Debug("icmp send failed", zap.String("ip", ip.String()), zap.Error(err))
		return false
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return false // timeout or socket error
		}
		if !peerMatches(peer, ip) {
			continue
		}
		reply, err := icmp.ParseMessage(proto, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type == ipv4.ICMPTypeEchoReply || reply.Type == ipv6.ICMPTypeEchoReply {
			// Datagram sockets rewrite the echo ID, so match on the
			// sequence number only.
			if echo, ok := reply.Body.(*icmp.Echo); ok && echo.Seq == seq {
				return true
			}
		}
	}
}

// openEchoConn opens an ICMP socket for the given address family, trying
// the unprivileged datagram flavor before the raw one. The returned
// destination address matches the socket flavor.
func openEchoConn(ipv4Target bool, ip net.IP) (*icmp.PacketConn, net.Addr) {
	if ipv4Target {
		if conn, err := icmp.ListenPacket("udp4", "0.0.0.0"); err == nil {
			return conn, &net.UDPAddr{IP: ip}
		}
		if conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0"); err == nil {
			return conn, &net.IPAddr{IP: ip}
		}
		return nil, nil
	}
	if conn, err := icmp.ListenPacket("udp6", "::"); err == nil {
		return conn, &net.UDPAddr{IP: ip}
	}
	if conn, err := icmp.ListenPacket("ip6:ipv6-icmp", "::"); err == nil {
		return conn, &net.IPAddr{IP: ip}
	}
	return nil, nil
}

func peerMatches(peer net.Addr, ip net.IP) bool {
	switch a := peer.(type) {
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	case *net.IPAddr:
		return a.IP.Equal(ip)
	}
	return false
}
