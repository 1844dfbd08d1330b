package client

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"
)

// RandomIPv6FromBlock returns a random address inside the given CIDR block.
// The block must keep at least 24 and at most 128 prefix bits.
func RandomIPv6FromBlock(block string) (net.IP, error) {
	_, network, err := net.ParseCIDR(block)
	if err != nil {
		return nil, fmt.Errorf("parse ipv6 block: %w", err)
	}
	ones, bits := network.Mask.Size()
	if bits != 128 {
		return nil, fmt.Errorf("%q is not an ipv6 block", block)
	}
	if ones < 24 {
		return nil, fmt.Errorf("ipv6 block %q is too wide, need at least /24", block)
	}

	ip := make(net.IP, net.IPv6len)
	copy(ip, network.IP.To16())
	for i := 0; i < net.IPv6len; i++ {
		staticBits := ones - i*8
		if staticBits >= 8 {
			continue
		}
		if staticBits < 0 {
			staticBits = 0
		}
		mask := byte(0xff) << (8 - staticBits)
		ip[i] = ip[i]&mask | byte(rand.Intn(256))&^mask
	}
	return ip, nil
}

// ipv6BlockDialer returns a DialContext that binds each connection to a
// fresh random source address from the block.
func ipv6BlockDialer(block string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	if _, err := RandomIPv6FromBlock(block); err != nil {
		return nil, err
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		ip, err := RandomIPv6FromBlock(block)
		if err != nil {
			return nil, err
		}
		d := net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			LocalAddr: &net.TCPAddr{IP: ip},
		}
		return d.DialContext(ctx, "tcp6", addr)
	}, nil
}
