// Package sockaddr converts raw, family-tagged OS socket address
// structures into owned Go values. It is the only place in the module
// that interprets sockaddr memory layouts; everything else consumes the
// typed Sockaddr.
package sockaddr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

var (
	// ErrInvalidAddressLength means the buffer is shorter than the fixed
	// sockaddr structure size of the declared address family.
	ErrInvalidAddressLength = errors.New("invalid sockaddr length")

	// ErrFamilyNotSupported means the address family is neither AF_INET
	// nor AF_INET6. The OS interleaves such entries (AF_PACKET etc.) with
	// IP entries, so callers are expected to handle this and move on.
	ErrFamilyNotSupported = errors.New("address family not supported")
)

// TODO: support big endian hosts
var endian = binary.LittleEndian

// Sockaddr is an IPv4 or IPv6 socket address copied out of a raw
// sockaddr_in or sockaddr_in6 structure. IP is exactly 4 bytes for
// AF_INET and 16 bytes for AF_INET6; Port is in host byte order.
// Flowinfo and ScopeID are only meaningful for AF_INET6 and are zero
// when the source structure left them zero-filled.
type Sockaddr struct {
	Family   uint16
	IP       net.IP
	Port     uint16
	Flowinfo uint32 // sin6_flowinfo
	ScopeID  uint32 // sin6_scope_id
}

// FromBytes parses a raw sockaddr byte block. The buffer must start with
// the sa_family tag and hold at least the full fixed-size structure for
// that family (16 bytes for sockaddr_in, 28 for sockaddr_in6); trailing
// bytes such as sockaddr_storage padding are ignored.
func FromBytes(buf []byte) (*Sockaddr, error) {
	if len(buf) < unix.SizeofShort {
		return nil, fmt.Errorf("%d bytes cannot hold a sockaddr header: %w", len(buf), ErrInvalidAddressLength)
	}
	sa := &Sockaddr{Family: endian.Uint16(buf[:unix.SizeofShort])}
	switch sa.Family {
	case unix.AF_INET:
		if len(buf) < unix.SizeofSockaddrInet4 {
			return nil, fmt.Errorf("%d bytes for sockaddr_in, need %d: %w", len(buf), unix.SizeofSockaddrInet4, ErrInvalidAddressLength)
		}
		addr4 := unix.RawSockaddrInet4{}
		if err := binary.Read(bytes.NewReader(buf), endian, &addr4); err != nil {
			return nil, fmt.Errorf("cannot cast byte array to RawSockaddrInet4: %w", err)
		}
		sa.IP = make(net.IP, len(addr4.Addr))
		copy(sa.IP, addr4.Addr[:])
		sa.Port = wirePort(addr4.Port)
	case unix.AF_INET6:
		if len(buf) < unix.SizeofSockaddrInet6 {
			return nil, fmt.Errorf("%d bytes for sockaddr_in6, need %d: %w", len(buf), unix.SizeofSockaddrInet6, ErrInvalidAddressLength)
		}
		addr6 := unix.RawSockaddrInet6{}
		if err := binary.Read(bytes.NewReader(buf), endian, &addr6); err != nil {
			return nil, fmt.Errorf("cannot cast byte array to RawSockaddrInet6: %w", err)
		}
		sa.IP = make(net.IP, len(addr6.Addr))
		copy(sa.IP, addr6.Addr[:])
		sa.Port = wirePort(addr6.Port)
		sa.Flowinfo = addr6.Flowinfo
		sa.ScopeID = addr6.Scope_id
	default:
		return nil, fmt.Errorf("expected AF_INET or AF_INET6, got %d: %w", sa.Family, ErrFamilyNotSupported)
	}
	return sa, nil
}

// ToBytes serializes the address back into the raw structure layout that
// FromBytes accepts. The result is suitable for passing to bind(2) or
// connect(2) style interfaces.
func (sa *Sockaddr) ToBytes() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	switch sa.Family {
	case unix.AF_INET:
		ip4 := sa.IP.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("%s is not a 4 byte address: %w", sa.IP, ErrInvalidAddressLength)
		}
		addr4 := unix.RawSockaddrInet4{
			Family: unix.AF_INET,
			Port:   wirePort(sa.Port),
		}
		copy(addr4.Addr[:], ip4)
		if err := binary.Write(buf, endian, &addr4); err != nil {
			return nil, fmt.Errorf("cannot serialize RawSockaddrInet4: %w", err)
		}
	case unix.AF_INET6:
		ip6 := sa.IP.To16()
		if ip6 == nil {
			return nil, fmt.Errorf("%s is not a 16 byte address: %w", sa.IP, ErrInvalidAddressLength)
		}
		addr6 := unix.RawSockaddrInet6{
			Family:   unix.AF_INET6,
			Port:     wirePort(sa.Port),
			Flowinfo: sa.Flowinfo,
			Scope_id: sa.ScopeID,
		}
		copy(addr6.Addr[:], ip6)
		if err := binary.Write(buf, endian, &addr6); err != nil {
			return nil, fmt.Errorf("cannot serialize RawSockaddrInet6: %w", err)
		}
	default:
		return nil, fmt.Errorf("expected AF_INET or AF_INET6, got %d: %w", sa.Family, ErrFamilyNotSupported)
	}
	return buf.Bytes(), nil
}

// Is4 reports whether the address is AF_INET.
func (sa *Sockaddr) Is4() bool {
	return sa.Family == unix.AF_INET
}

// Is6 reports whether the address is AF_INET6.
func (sa *Sockaddr) Is6() bool {
	return sa.Family == unix.AF_INET6
}

func (sa *Sockaddr) String() string {
	return net.JoinHostPort(sa.IP.String(), strconv.Itoa(int(sa.Port)))
}

// sin_port and sin6_port are stored in network byte order; the swap is
// its own inverse, so the same helper serves both directions.
func wirePort(p uint16) uint16 {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, p)
	return endian.Uint16(b)
}
