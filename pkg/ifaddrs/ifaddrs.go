// Package ifaddrs enumerates the host's network interfaces with their
// configured IP addresses via getifaddrs(3). Each call returns an owned
// snapshot; the OS-allocated list is copied out and freed before List
// returns.
package ifaddrs

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/net-utils/ifaddrs/pkg/ifindex"
	"github.com/net-utils/ifaddrs/pkg/sockaddr"
)

/*
#include <sys/types.h>
#include <sys/socket.h>
#include <netinet/in.h>
#include <ifaddrs.h>

// ifa_broadaddr and ifa_dstaddr are macros over the ifa_ifu union and
// are not visible to cgo as struct fields.
static struct sockaddr *ifu_addr(struct ifaddrs *ifa) {
	return ifa->ifa_broadaddr;
}
*/
import "C"

// QueryError is returned when the kernel interface query itself fails.
// It carries the OS error code; per-entry conversion problems never
// surface as a QueryError, they only drop the affected entry.
type QueryError struct {
	Op    string
	Errno syscall.Errno
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Errno.Error())
}

func (e *QueryError) Unwrap() error {
	return e.Errno
}

// errNoAddress marks list entries without an ifa_addr. Such entries are
// skipped like unsupported-family ones.
var errNoAddress = errors.New("no address for interface")

// List returns a snapshot of all interfaces carrying at least one IPv4
// or IPv6 address. Entries the kernel interleaves for other address
// families (AF_PACKET link-level entries in particular) are skipped, as
// is any entry whose address block cannot be parsed; a single bad entry
// never aborts the enumeration. The only error List returns is a
// *QueryError from the initial getifaddrs call.
func List() ([]Interface, error) {
	entries, err := fetch()
	if err != nil {
		return nil, err
	}
	ifs := groupByName(entries)
	for i := range ifs {
		index, err := ifindex.NameToIndex(ifs[i].Name)
		if err != nil {
			// The interface may already be gone; keep the record with
			// index 0 rather than dropping the snapshot.
			logrus.WithError(err).Debugf("cannot resolve index of %q", ifs[i].Name)
			continue
		}
		ifs[i].Index = index
	}
	return ifs, nil
}

// fetch acquires the kernel's ifaddrs list, copies every entry into
// owned values and releases the list. The free is deferred so it runs on
// every exit path once the acquisition has succeeded.
func fetch() ([]rawEntry, error) {
	var ifap *C.struct_ifaddrs
	rc, err := C.getifaddrs(&ifap)
	if rc != 0 {
		qe := &QueryError{Op: "getifaddrs", Errno: syscall.EINVAL}
		var errno syscall.Errno
		if errors.As(err, &errno) {
			qe.Errno = errno
		}
		return nil, qe
	}
	defer C.freeifaddrs(ifap)

	var entries []rawEntry
	for ifa := ifap; ifa != nil; ifa = ifa.ifa_next {
		entry := rawEntry{
			name:  C.GoString(ifa.ifa_name),
			flags: uint32(ifa.ifa_flags),
		}
		sa, err := copySockaddr(ifa.ifa_addr)
		if err != nil {
			logrus.Debugf("skipping entry of %q: %s", entry.name, err)
			continue
		}
		entry.addr.Addr = sa
		if nm, err := copySockaddr(ifa.ifa_netmask); err == nil {
			entry.addr.Netmask = nm
		}
		ifu := C.ifu_addr(ifa)
		if entry.flags&unix.IFF_BROADCAST != 0 {
			if ba, err := copySockaddr(ifu); err == nil {
				entry.addr.Broadcast = ba
			}
		}
		if entry.flags&unix.IFF_POINTOPOINT != 0 {
			if pa, err := copySockaddr(ifu); err == nil {
				entry.addr.Peer = pa
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// copySockaddr copies the raw bytes of a C sockaddr into Go memory and
// hands them to the converter. Only the fixed structure size of the
// declared family is read; for families the converter rejects anyway,
// just the family tag is copied.
func copySockaddr(src *C.struct_sockaddr) (*sockaddr.Sockaddr, error) {
	if src == nil {
		return nil, errNoAddress
	}
	var size C.int
	switch src.sa_family {
	case C.AF_INET:
		size = C.sizeof_struct_sockaddr_in
	case C.AF_INET6:
		size = C.sizeof_struct_sockaddr_in6
	default:
		size = C.sizeof_sa_family_t
	}
	return sockaddr.FromBytes(C.GoBytes(unsafe.Pointer(src), size))
}
