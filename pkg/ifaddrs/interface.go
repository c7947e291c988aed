package ifaddrs

import (
	"golang.org/x/sys/unix"

	"github.com/net-utils/ifaddrs/pkg/sockaddr"
)

// Addr is one address configuration of an interface. Netmask, Broadcast
// and Peer are nil when the OS did not report them; Broadcast is only
// set on IFF_BROADCAST interfaces and Peer only on IFF_POINTOPOINT
// links.
type Addr struct {
	Addr      *sockaddr.Sockaddr
	Netmask   *sockaddr.Sockaddr
	Broadcast *sockaddr.Sockaddr
	Peer      *sockaddr.Sockaddr
}

// Interface is an owned snapshot of one network interface and all of its
// IP address configurations at enumeration time. It holds no reference
// to OS state; a kernel-side change after List returns is not reflected.
type Interface struct {
	// Name is unique within one snapshot.
	Name string

	// Index is the OS interface index, 0 if it could not be resolved.
	Index uint32

	// Flags is the raw ifa_flags value of the first entry seen for this
	// interface name.
	Flags uint32

	// Addrs lists the address configurations in OS traversal order.
	Addrs []Addr
}

// IsUp reports whether the interface is administratively up.
func (ifi *Interface) IsUp() bool {
	return ifi.Flags&unix.IFF_UP != 0
}

// IsLowerUp reports whether the interface has a layer 1 link signal.
func (ifi *Interface) IsLowerUp() bool {
	return ifi.Flags&unix.IFF_LOWER_UP != 0
}

// IsLoopback reports whether this is a loopback interface.
func (ifi *Interface) IsLoopback() bool {
	return ifi.Flags&unix.IFF_LOOPBACK != 0
}

// IsBroadcast reports whether the interface supports broadcast.
func (ifi *Interface) IsBroadcast() bool {
	return ifi.Flags&unix.IFF_BROADCAST != 0
}

// IsPointToPoint reports whether the interface is a point-to-point link.
func (ifi *Interface) IsPointToPoint() bool {
	return ifi.Flags&unix.IFF_POINTOPOINT != 0
}

// SupportsMulticast reports whether the interface can send and receive
// multicast.
func (ifi *Interface) SupportsMulticast() bool {
	return ifi.Flags&unix.IFF_MULTICAST != 0
}

// HasDynamicAddress reports whether the link address is dynamic and lost
// when the interface shuts down. This is about the hardware address, not
// the IP address.
func (ifi *Interface) HasDynamicAddress() bool {
	return ifi.Flags&unix.IFF_DYNAMIC != 0
}

// rawEntry is one getifaddrs list entry after copy-out, before grouping.
type rawEntry struct {
	name  string
	flags uint32
	addr  Addr
}

// groupByName merges per-address entries into one Interface per name.
// The kernel reports one list entry per address configuration, so a
// single interface usually appears several times in a row. Interfaces
// keep their first-seen order and flags; addresses accumulate in
// traversal order.
func groupByName(entries []rawEntry) []Interface {
	var ifs []Interface
	byName := make(map[string]int)
	for _, e := range entries {
		i, ok := byName[e.name]
		if !ok {
			i = len(ifs)
			ifs = append(ifs, Interface{Name: e.name, Flags: e.flags})
			byName[e.name] = i
		}
		ifs[i].Addrs = append(ifs[i].Addrs, e.addr)
	}
	return ifs
}
