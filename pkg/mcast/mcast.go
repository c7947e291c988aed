// Package mcast creates UDP sockets preconfigured for multicast
// reception: SO_REUSEADDR set, bound to the group address, group
// membership joined on a chosen interface.
package mcast

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"

	"github.com/net-utils/ifaddrs/pkg/ifaddrs"
)

// ListenUDP4 returns a packet conn receiving from the given IPv4
// multicast group. ifaceAddr selects the receiving interface by one of
// its local addresses; nil or the unspecified address means the system
// default interface.
func ListenUDP4(group *net.UDPAddr, ifaceAddr net.IP) (net.PacketConn, error) {
	ip4 := group.IP.To4()
	if ip4 == nil || !ip4.IsMulticast() {
		return nil, fmt.Errorf("%s is not an IPv4 multicast address", group.IP)
	}
	sa := &unix.SockaddrInet4{Port: group.Port}
	copy(sa.Addr[:], ip4)
	conn, err := bindReuse(unix.AF_INET, sa)
	if err != nil {
		return nil, err
	}
	ifi, err := findMulticastInterface(ifaceAddr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ipv4.NewPacketConn(conn).JoinGroup(ifi, &net.UDPAddr{IP: ip4}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot join group %s: %w", ip4, err)
	}
	return conn, nil
}

// ListenUDP6 is ListenUDP4 for IPv6 multicast groups.
func ListenUDP6(group *net.UDPAddr, ifaceAddr net.IP) (net.PacketConn, error) {
	ip6 := group.IP.To16()
	if ip6 == nil || ip6.To4() != nil || !ip6.IsMulticast() {
		return nil, fmt.Errorf("%s is not an IPv6 multicast address", group.IP)
	}
	sa := &unix.SockaddrInet6{Port: group.Port}
	copy(sa.Addr[:], ip6)
	conn, err := bindReuse(unix.AF_INET6, sa)
	if err != nil {
		return nil, err
	}
	ifi, err := findMulticastInterface(ifaceAddr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ipv6.NewPacketConn(conn).JoinGroup(ifi, &net.UDPAddr{IP: ip6}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot join group %s: %w", ip6, err)
	}
	return conn, nil
}

// bindReuse opens a datagram socket with SO_REUSEADDR, binds it and
// wraps it into a net.PacketConn. The raw fd is closed on every error
// path; after the wrap the conn owns it.
func bindReuse(family int, sa unix.Sockaddr) (net.PacketConn, error) {
	fd, err := unix.Socket(family, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket failed: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("setsockopt(SO_REUSEADDR) failed: %w", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind failed: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("cannot set nonblocking: %w", err)
	}
	f := os.NewFile(uintptr(fd), "mcast")
	defer f.Close()
	conn, err := net.FilePacketConn(f)
	if err != nil {
		return nil, fmt.Errorf("cannot wrap socket: %w", err)
	}
	return conn, nil
}

// findMulticastInterface looks for a multicast capable interface that
// carries addr as a local address. A nil result with nil error means
// "any interface" and is what unspecified or unknown addresses map to.
func findMulticastInterface(addr net.IP) (*net.Interface, error) {
	if addr == nil || addr.IsUnspecified() {
		return nil, nil
	}
	ifs, err := ifaddrs.List()
	if err != nil {
		return nil, err
	}
	for _, ifi := range ifs {
		if !ifi.SupportsMulticast() || ifi.Index == 0 {
			continue
		}
		for _, a := range ifi.Addrs {
			if a.Addr.IP.Equal(addr) {
				return net.InterfaceByIndex(int(ifi.Index))
			}
		}
	}
	return nil, nil
}
