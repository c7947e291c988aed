package api

import (
	"github.com/net-utils/ifaddrs/pkg/ifaddrs"
)

// NewInterface converts an enumerated interface into its wire form.
func NewInterface(ifi ifaddrs.Interface) Interface {
	out := Interface{
		Name:      ifi.Name,
		Index:     ifi.Index,
		Flags:     ifi.Flags,
		Up:        ifi.IsUp(),
		Loopback:  ifi.IsLoopback(),
		Multicast: ifi.SupportsMulticast(),
		Addrs:     make([]Addr, 0, len(ifi.Addrs)),
	}
	for _, a := range ifi.Addrs {
		addr := Addr{IP: a.Addr.IP.String()}
		if a.Netmask != nil {
			addr.Netmask = a.Netmask.IP.String()
		}
		if a.Broadcast != nil {
			addr.Broadcast = a.Broadcast.IP.String()
		}
		if a.Peer != nil {
			addr.Peer = a.Peer.IP.String()
		}
		out.Addrs = append(out.Addrs, addr)
	}
	return out
}
